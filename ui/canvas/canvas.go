package canvas

import (
	"image"
	"image/color"

	"specview/internal/interaction"
	"specview/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// stripHeight is the wavelength indicator strip at the bottom of an RGB
// canvas, in widget pixels.
const stripHeight = 36

// Source supplies the rendered image a canvas displays.
type Source interface {
	Image() *image.RGBA
	Shape() (rows, cols int)
}

// CubeCanvas displays a cube rendering with pan, zoom, and the collection
// overlays. Raw input is translated into interaction events; the returned
// actions drive the view and the registered callbacks.
type CubeCanvas struct {
	widget.BaseWidget

	source Source
	view   Viewport
	ctrl   *interaction.Controller

	raster *fynecanvas.Raster

	// Overlays in padded data coordinates.
	pick      *OverlayRect
	lasso     []geometry.Point2D
	outlines  []OverlayPolyline
	crosshair *geometry.PixelCoordinate

	// Wavelength strip, RGB canvases only.
	rgb        bool
	wavelength []float64
	indicators [3]float64

	// Overlay colors, settings-overridable.
	pickCol      color.RGBA
	lassoCol     color.RGBA
	crosshairCol color.RGBA
	indicatorCol [3]color.RGBA

	// Last raster dimensions, needed to map widget positions to data.
	lastW, lastH int

	// Callbacks
	onPick        func(coord geometry.PixelCoordinate)
	onLasso       func(vertices []geometry.Point2D)
	onCrosshair   func(coord geometry.PixelCoordinate, visible bool)
	onBandChange  func(channel int, wavelength float64)
	onCollectMode func(active bool)
	onCursor      func(coord geometry.PixelCoordinate, inside bool)
}

// Default colors for the built-in overlays.
var (
	pickColor      = color.RGBA{R: 255, A: 255}
	lassoColor     = color.RGBA{G: 255, B: 128, A: 255}
	crosshairColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor   = color.RGBA{R: 255, G: 213, A: 255}
	stripBG        = color.RGBA{R: 24, G: 24, B: 24, A: 255}
	indicatorCols  = [3]color.RGBA{
		{R: 255, G: 64, B: 64, A: 255},
		{R: 64, G: 255, B: 64, A: 255},
		{R: 64, G: 96, B: 255, A: 255},
	}
)

// NewCubeCanvas creates a canvas over the given source. RGB canvases get
// the wavelength strip and band scrubbing.
func NewCubeCanvas(source Source, rgb bool, cfg interaction.Config) *CubeCanvas {
	rows, cols := source.Shape()
	cfg.RGB = rgb
	cc := &CubeCanvas{
		source:       source,
		view:         NewViewport(rows, cols),
		ctrl:         interaction.NewController(rows, cols, cfg),
		rgb:          rgb,
		pickCol:      pickColor,
		lassoCol:     lassoColor,
		crosshairCol: crosshairColor,
		indicatorCol: indicatorCols,
	}
	cc.raster = fynecanvas.NewRaster(cc.draw)
	cc.raster.ScaleMode = fynecanvas.ImageScalePixels
	cc.raster.SetMinSize(fyne.NewSize(400, 400))
	cc.ExtendBaseWidget(cc)
	return cc
}

var _ desktop.Mouseable = (*CubeCanvas)(nil)
var _ desktop.Hoverable = (*CubeCanvas)(nil)
var _ fyne.Scrollable = (*CubeCanvas)(nil)

// SetWavelengths provides the wavelength axis for the indicator strip.
func (cc *CubeCanvas) SetWavelengths(wvls []float64) {
	cc.wavelength = wvls
	cc.Refresh()
}

// SetIndicators positions the three band indicator lines.
func (cc *CubeCanvas) SetIndicators(r, g, b float64) {
	cc.indicators = [3]float64{r, g, b}
	cc.ctrl.SetBandPositions(r, g, b)
	cc.Refresh()
}

// SetOverlayColors overrides the default overlay colors from settings.
func (cc *CubeCanvas) SetOverlayColors(pick, lasso, crosshair color.RGBA, indicators [3]color.RGBA) {
	cc.pickCol = pick
	cc.lassoCol = lasso
	cc.crosshairCol = crosshair
	cc.indicatorCol = indicators
	cc.Refresh()
}

// SetOutlines replaces the finished selection outlines.
func (cc *CubeCanvas) SetOutlines(outlines []OverlayPolyline) {
	cc.outlines = outlines
	cc.Refresh()
}

// OnPick registers the single-pixel pick callback.
func (cc *CubeCanvas) OnPick(fn func(coord geometry.PixelCoordinate)) { cc.onPick = fn }

// OnLasso registers the finished-lasso callback.
func (cc *CubeCanvas) OnLasso(fn func(vertices []geometry.Point2D)) { cc.onLasso = fn }

// OnCrosshair registers the hover scan callback.
func (cc *CubeCanvas) OnCrosshair(fn func(coord geometry.PixelCoordinate, visible bool)) {
	cc.onCrosshair = fn
}

// OnBandChange registers the band scrub callback. The wavelength is the
// raw drag position; the caller snaps it to the nearest band.
func (cc *CubeCanvas) OnBandChange(fn func(channel int, wavelength float64)) {
	cc.onBandChange = fn
}

// OnCollectMode registers the collection mode change callback.
func (cc *CubeCanvas) OnCollectMode(fn func(active bool)) { cc.onCollectMode = fn }

// OnCursor registers the cursor position callback for the status bar.
func (cc *CubeCanvas) OnCursor(fn func(coord geometry.PixelCoordinate, inside bool)) {
	cc.onCursor = fn
}

// HandleKeyDown forwards a key press from the window.
func (cc *CubeCanvas) HandleKeyDown(key interaction.Key) {
	cc.apply(cc.ctrl.Dispatch(interaction.KeyDown{Key: key}))
}

// HandleKeyUp forwards a key release from the window.
func (cc *CubeCanvas) HandleKeyUp(key interaction.Key) {
	cc.apply(cc.ctrl.Dispatch(interaction.KeyUp{Key: key}))
}

// MouseDown implements desktop.Mouseable.
func (cc *CubeCanvas) MouseDown(ev *desktop.MouseEvent) {
	cc.apply(cc.ctrl.Dispatch(cc.pointerEvent(ev.Position, ev.Button)))
}

// MouseUp implements desktop.Mouseable.
func (cc *CubeCanvas) MouseUp(ev *desktop.MouseEvent) {
	cc.apply(cc.ctrl.Dispatch(interaction.PointerReleased{Button: mapButton(ev.Button)}))
}

// MouseIn implements desktop.Hoverable.
func (cc *CubeCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (cc *CubeCanvas) MouseMoved(ev *desktop.MouseEvent) {
	pos, inImage, inStrip := cc.locate(ev.Position)
	cc.apply(cc.ctrl.Dispatch(interaction.PointerMoved{Pos: pos, InImage: inImage, InStrip: inStrip}))

	if cc.onCursor != nil && !inStrip {
		coord := geometry.PixelFromData(pos.X, pos.Y)
		rows, cols := cc.source.Shape()
		cc.onCursor(coord, inImage && coord.In(rows, cols))
	}
}

// MouseOut implements desktop.Hoverable.
func (cc *CubeCanvas) MouseOut() {
	if cc.onCursor != nil {
		cc.onCursor(geometry.PixelCoordinate{}, false)
	}
}

// Scrolled implements fyne.Scrollable; the wheel zooms about the cursor.
func (cc *CubeCanvas) Scrolled(ev *fyne.ScrollEvent) {
	pos, inImage, _ := cc.locate(ev.Position)
	if !inImage {
		return
	}
	cc.apply(cc.ctrl.Dispatch(interaction.Scrolled{Pos: pos, DY: float64(ev.Scrolled.DY)}))
}

func mapButton(b desktop.MouseButton) interaction.Button {
	switch b {
	case desktop.MouseButtonTertiary:
		return interaction.ButtonMiddle
	case desktop.MouseButtonSecondary:
		return interaction.ButtonSecondary
	default:
		return interaction.ButtonPrimary
	}
}

func (cc *CubeCanvas) pointerEvent(p fyne.Position, b desktop.MouseButton) interaction.Event {
	pos, inImage, inStrip := cc.locate(p)
	return interaction.PointerPressed{
		Button:  mapButton(b),
		Pos:     pos,
		InImage: inImage,
		InStrip: inStrip,
	}
}

// locate maps a widget position to data coordinates. Strip positions carry
// the wavelength in Pos.X instead.
func (cc *CubeCanvas) locate(p fyne.Position) (pos geometry.Point2D, inImage, inStrip bool) {
	w, h := cc.lastW, cc.lastH
	if w == 0 || h == 0 {
		return geometry.Point2D{}, false, false
	}
	imgH := cc.imageHeight(h)
	px, py := float64(p.X), float64(p.Y)

	if cc.stripVisible() && py >= float64(imgH) {
		return geometry.Point2D{X: cc.stripToWavelength(px, w)}, false, true
	}
	if px < 0 || py < 0 || px >= float64(w) || py >= float64(imgH) {
		return geometry.Point2D{}, false, false
	}
	return cc.view.ToData(px, py, w, imgH), true, false
}

// apply executes the actions returned by the state machine.
func (cc *CubeCanvas) apply(actions []interaction.Action) {
	dirty := len(actions) > 0
	for _, a := range actions {
		switch act := a.(type) {
		case interaction.PanBy:
			cc.view.PanBy(act.DX, act.DY)
		case interaction.ZoomAt:
			cc.view.ZoomAt(act.Pos, act.Scale)
		case interaction.PickAt:
			cc.pick = &OverlayRect{X: float64(act.Coord.X), Y: float64(act.Coord.Y), Width: 1, Height: 1}
			if cc.onPick != nil {
				cc.onPick(act.Coord)
			}
		case interaction.LassoChanged:
			cc.lasso = act.Vertices
		case interaction.LassoFinished:
			cc.lasso = nil
			if cc.onLasso != nil {
				cc.onLasso(act.Vertices)
			}
		case interaction.CrosshairMoved:
			if act.Visible {
				coord := act.Coord
				cc.crosshair = &coord
			} else {
				cc.crosshair = nil
			}
			if cc.onCrosshair != nil {
				cc.onCrosshair(act.Coord, act.Visible)
			}
		case interaction.CrosshairToggled:
			if !act.Active {
				cc.crosshair = nil
			}
		case interaction.SetCollectMode:
			if !act.Active {
				cc.pick = nil
				cc.lasso = nil
			}
			if cc.onCollectMode != nil {
				cc.onCollectMode(act.Active)
			}
		case interaction.BandScrubbed:
			if cc.onBandChange != nil {
				cc.onBandChange(act.Channel, act.Wavelength)
			}
		}
	}
	if dirty {
		cc.Refresh()
	}
}

func (cc *CubeCanvas) stripVisible() bool {
	return cc.rgb && len(cc.wavelength) > 1
}

func (cc *CubeCanvas) imageHeight(h int) int {
	if cc.stripVisible() && h > stripHeight {
		return h - stripHeight
	}
	return h
}

func (cc *CubeCanvas) stripToWavelength(px float64, w int) float64 {
	lo := cc.wavelength[0]
	hi := cc.wavelength[len(cc.wavelength)-1]
	return lo + px/float64(w)*(hi-lo)
}

func (cc *CubeCanvas) wavelengthToStrip(wvl float64, w int) int {
	lo := cc.wavelength[0]
	hi := cc.wavelength[len(cc.wavelength)-1]
	if hi == lo {
		return 0
	}
	return int((wvl - lo) / (hi - lo) * float64(w))
}

// draw is the raster drawing function.
func (cc *CubeCanvas) draw(w, h int) image.Image {
	cc.lastW, cc.lastH = w, h

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}
	if w == 0 || h == 0 || cc.source == nil {
		return output
	}

	imgH := cc.imageHeight(h)
	src := cc.source.Image()
	srcBounds := src.Bounds()

	// Nearest-neighbor resample of the viewport window.
	for y := 0; y < imgH; y++ {
		for x := 0; x < w; x++ {
			d := cc.view.ToData(float64(x), float64(y), w, imgH)
			sx := geometry.PixelFromData(d.X, d.Y)
			if sx.X < srcBounds.Min.X || sx.X >= srcBounds.Max.X ||
				sx.Y < srcBounds.Min.Y || sx.Y >= srcBounds.Max.Y {
				continue
			}
			output.SetRGBA(x, y, src.RGBAAt(sx.X, sx.Y))
		}
	}

	cc.drawMarks(output, w, imgH)
	if cc.stripVisible() {
		cc.drawStrip(output, w, imgH, h)
	}
	return output
}

func (cc *CubeCanvas) drawMarks(output *image.RGBA, w, imgH int) {
	if cc.pick != nil {
		ov := &Overlay{Rectangles: []OverlayRect{*cc.pick}, Color: cc.pickCol}
		cc.drawOverlay(output, ov, w, imgH)
	}
	if len(cc.lasso) >= 2 {
		ov := &Overlay{Polylines: []OverlayPolyline{{Points: cc.lasso}}, Color: cc.lassoCol}
		cc.drawOverlay(output, ov, w, imgH)
	}
	if len(cc.outlines) > 0 {
		ov := &Overlay{Polylines: cc.outlines, Color: outlineColor}
		cc.drawOverlay(output, ov, w, imgH)
	}
	if cc.crosshair != nil {
		ov := &Overlay{
			Guides: []OverlayGuide{
				{Axis: GuideVertical, At: float64(cc.crosshair.X)},
				{Axis: GuideHorizontal, At: float64(cc.crosshair.Y)},
			},
			Color: cc.crosshairCol,
		}
		cc.drawOverlay(output, ov, w, imgH)
	}
}

func (cc *CubeCanvas) drawStrip(output *image.RGBA, w, imgH, h int) {
	for y := imgH; y < h; y++ {
		for x := 0; x < w; x++ {
			output.SetRGBA(x, y, stripBG)
		}
	}
	// Baseline across the middle of the strip.
	mid := imgH + (h-imgH)/2
	for x := 0; x < w; x++ {
		output.SetRGBA(x, mid, color.RGBA{R: 96, G: 96, B: 96, A: 255})
	}
	for ch := 0; ch < 3; ch++ {
		x := cc.wavelengthToStrip(cc.indicators[ch], w)
		if x < 0 || x >= w {
			continue
		}
		for y := imgH; y < h; y++ {
			output.SetRGBA(x, y, cc.indicatorCol[ch])
			if x+1 < w {
				output.SetRGBA(x+1, y, cc.indicatorCol[ch])
			}
		}
	}
}

// Refresh redraws the raster.
func (cc *CubeCanvas) Refresh() {
	cc.raster.Refresh()
	cc.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (cc *CubeCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.raster)
}
