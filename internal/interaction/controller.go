package interaction

import (
	"specview/internal/selection"
	"specview/pkg/geometry"
)

// Config tunes the controller. Zero values are replaced by defaults.
type Config struct {
	// PanSensitivity scales middle-drag deltas. Original range 0.2 to 0.5.
	PanSensitivity float64
	// ZoomStep is the per-notch scale factor, applied as 1/step on zoom in.
	ZoomStep float64
	// BandHitTolerance is the wavelength-axis distance within which a press
	// grabs a band indicator.
	BandHitTolerance float64
	// RGB enables the band indicator strip. Single-band canvases leave it off.
	RGB bool
}

const (
	defaultPanSensitivity   = 0.3
	defaultZoomStep         = 1.3
	defaultBandHitTolerance = 12.0
)

func (c Config) withDefaults() Config {
	if c.PanSensitivity == 0 {
		c.PanSensitivity = defaultPanSensitivity
	}
	if c.ZoomStep == 0 {
		c.ZoomStep = defaultZoomStep
	}
	if c.BandHitTolerance == 0 {
		c.BandHitTolerance = defaultBandHitTolerance
	}
	return c
}

// Controller is the interaction state machine for one canvas. Dispatch is
// not safe for concurrent use; each canvas owns exactly one controller and
// feeds it from the UI thread.
type Controller struct {
	cfg  Config
	grid *selection.PixelGrid

	collect   bool
	crosshair bool

	panning   bool
	panAnchor geometry.Point2D

	lassoing bool
	lasso    []geometry.Point2D

	// Band indicator wavelength positions, meaningful only when cfg.RGB.
	bandX    [3]float64
	scrubbed int
}

// NewController builds a controller for a canvas showing a rows-by-cols
// image. No band is grabbed initially.
func NewController(rows, cols int, cfg Config) *Controller {
	return &Controller{
		cfg:      cfg.withDefaults(),
		grid:     selection.NewPixelGrid(rows, cols),
		scrubbed: -1,
	}
}

// SetBandPositions records the current indicator wavelengths so strip hit
// testing stays in sync with what the canvas draws.
func (ct *Controller) SetBandPositions(r, g, b float64) {
	ct.bandX = [3]float64{r, g, b}
}

// Collecting reports whether spectrum-collection mode is on.
func (ct *Controller) Collecting() bool { return ct.collect }

// LassoActive reports whether a lasso is being traced.
func (ct *Controller) LassoActive() bool { return ct.lassoing }

// CrosshairActive reports whether the hover overlay is on.
func (ct *Controller) CrosshairActive() bool { return ct.crosshair }

// Dispatch runs one event through the state machine and returns the actions
// the canvas must apply, in order.
func (ct *Controller) Dispatch(ev Event) []Action {
	switch e := ev.(type) {
	case PointerPressed:
		return ct.pressed(e)
	case PointerMoved:
		return ct.moved(e)
	case PointerReleased:
		return ct.released(e)
	case KeyDown:
		return ct.keyDown(e)
	case KeyUp:
		return ct.keyUp(e)
	case Scrolled:
		return ct.scrolled(e)
	}
	return nil
}

func (ct *Controller) pressed(e PointerPressed) []Action {
	switch e.Button {
	case ButtonMiddle:
		if e.InImage {
			ct.panning = true
			ct.panAnchor = e.Pos
		}
		return nil
	case ButtonPrimary:
		if ct.cfg.RGB && e.InStrip {
			ct.scrubbed = ct.hitBand(e.Pos.X)
			return nil
		}
		// Picks require collection mode, and a held lasso key claims the
		// primary button entirely.
		if !e.InImage || !ct.collect || ct.lassoing {
			return nil
		}
		coord, ok := selection.PickPixel(e.Pos.X, e.Pos.Y, ct.grid.Rows, ct.grid.Cols)
		if !ok {
			return nil
		}
		return []Action{PickAt{Coord: coord}}
	}
	return nil
}

func (ct *Controller) moved(e PointerMoved) []Action {
	var acts []Action

	if ct.panning {
		dx := (ct.panAnchor.X - e.Pos.X) * ct.cfg.PanSensitivity
		dy := (ct.panAnchor.Y - e.Pos.Y) * ct.cfg.PanSensitivity
		ct.panAnchor = e.Pos
		acts = append(acts, PanBy{DX: dx, DY: dy})
	}

	if ct.scrubbed >= 0 && e.InStrip {
		ct.bandX[ct.scrubbed] = e.Pos.X
		acts = append(acts, BandScrubbed{Channel: ct.scrubbed, Wavelength: e.Pos.X})
	}

	if ct.lassoing && e.InImage {
		ct.lasso = append(ct.lasso, e.Pos)
		acts = append(acts, LassoChanged{Vertices: append([]geometry.Point2D(nil), ct.lasso...)})
	}

	if ct.crosshair {
		coord, ok := selection.PickPixel(e.Pos.X, e.Pos.Y, ct.grid.Rows, ct.grid.Cols)
		acts = append(acts, CrosshairMoved{Coord: coord, Visible: ok && e.InImage})
	}

	return acts
}

func (ct *Controller) released(e PointerReleased) []Action {
	switch e.Button {
	case ButtonMiddle:
		ct.panning = false
	case ButtonPrimary:
		ct.scrubbed = -1
	}
	return nil
}

func (ct *Controller) keyDown(e KeyDown) []Action {
	switch e.Key {
	case KeyCollect:
		ct.collect = !ct.collect
		if !ct.collect && ct.lassoing {
			// Leaving collection abandons an open lasso without finalizing.
			ct.lassoing = false
			ct.lasso = nil
		}
		return []Action{SetCollectMode{Active: ct.collect}}
	case KeyLasso:
		if ct.collect && !ct.lassoing {
			ct.lassoing = true
			ct.lasso = nil
		}
	case KeyCrosshair:
		ct.crosshair = !ct.crosshair
		acts := []Action{CrosshairToggled{Active: ct.crosshair}}
		if !ct.crosshair {
			acts = append(acts, CrosshairMoved{Visible: false})
		}
		return acts
	}
	return nil
}

func (ct *Controller) keyUp(e KeyUp) []Action {
	if e.Key != KeyLasso || !ct.lassoing {
		return nil
	}
	ct.lassoing = false
	verts := ct.lasso
	ct.lasso = nil
	if len(verts) < 3 {
		// Degenerate trace, nothing to select.
		return []Action{LassoChanged{Vertices: nil}}
	}
	return []Action{LassoFinished{Vertices: verts}}
}

func (ct *Controller) scrolled(e Scrolled) []Action {
	scale := ct.cfg.ZoomStep
	if e.DY > 0 {
		scale = 1 / scale
	}
	return []Action{ZoomAt{Pos: e.Pos, Scale: scale}}
}

// hitBand returns the channel whose indicator is nearest to x within the
// tolerance, or -1. Ties go to the lower channel index.
func (ct *Controller) hitBand(x float64) int {
	best, bestDist := -1, ct.cfg.BandHitTolerance
	for ch := 0; ch < 3; ch++ {
		d := ct.bandX[ch] - x
		if d < 0 {
			d = -d
		}
		if d <= bestDist && (best == -1 || d < bestDist) {
			best, bestDist = ch, d
		}
	}
	return best
}
