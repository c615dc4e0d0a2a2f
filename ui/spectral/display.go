// Package spectral renders the collected-spectra window. The plot is
// rebuilt from the cache on every refresh, so cache edits (rename, delete,
// clear) always reconcile the legend with what is drawn.
package spectral

import (
	"image"
	"image/color"

	"specview/internal/speccache"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// SpectralDisplay plots every cached spectrum plus the transient hover
// scan and the band indicator mirror lines.
type SpectralDisplay struct {
	widget.BaseWidget

	cache *speccache.Cache
	axis  []float64

	raster *fynecanvas.Raster

	scan []float64

	indicators     [3]float64
	showIndicators bool
}

var indicatorColors = [3]color.RGBA{
	{R: 255, G: 64, B: 64, A: 255},
	{R: 64, G: 255, B: 64, A: 255},
	{R: 64, G: 96, B: 255, A: 255},
}

// NewSpectralDisplay builds a display over the cache. The display refreshes
// itself on every cache notification.
func NewSpectralDisplay(cache *speccache.Cache) *SpectralDisplay {
	sd := &SpectralDisplay{cache: cache}
	sd.raster = fynecanvas.NewRaster(sd.draw)
	sd.raster.SetMinSize(fyne.NewSize(480, 360))
	for _, ev := range []speccache.Event{
		speccache.EventAdded, speccache.EventRenamed,
		speccache.EventRemoved, speccache.EventCleared,
	} {
		cache.On(ev, func(speccache.EventData) { sd.Refresh() })
	}
	sd.ExtendBaseWidget(sd)
	return sd
}

// SetAxis sets the wavelength axis used for the x coordinates.
func (sd *SpectralDisplay) SetAxis(axis []float64) {
	sd.axis = axis
	sd.Refresh()
}

// SetScan shows the hover scan spectrum; nil hides it.
func (sd *SpectralDisplay) SetScan(data []float64) {
	sd.scan = data
	sd.Refresh()
}

// SetIndicators mirrors the RGB canvas band indicator positions.
func (sd *SpectralDisplay) SetIndicators(r, g, b float64, show bool) {
	sd.indicators = [3]float64{r, g, b}
	sd.showIndicators = show
	sd.Refresh()
}

func (sd *SpectralDisplay) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w < 10 || h < 10 || len(sd.axis) == 0 {
		return img
	}

	p := plot.New()
	p.X.Label.Text = "wavelength"
	p.Y.Label.Text = "value"
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	for _, sp := range sd.cache.Snapshot() {
		sd.addSpectrum(p, sp)
	}
	if sd.scan != nil {
		if line, err := plotter.NewLine(sd.points(sd.scan)); err == nil {
			line.Width = vg.Points(1)
			line.Color = color.RGBA{R: 160, G: 160, B: 160, A: 255}
			line.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
			p.Add(line)
		}
	}
	if sd.showIndicators {
		yLo, yHi := sd.valueRange()
		for ch := 0; ch < 3; ch++ {
			sd.addIndicator(p, sd.indicators[ch], yLo, yHi, indicatorColors[ch])
		}
	}

	c := vgimg.NewWith(vgimg.UseImage(img))
	p.Draw(draw.New(c))
	return img
}

func (sd *SpectralDisplay) addSpectrum(p *plot.Plot, sp *speccache.Spectrum) {
	line, err := plotter.NewLine(sd.points(sp.Data))
	if err != nil {
		return
	}
	line.Width = vg.Points(1)
	line.Color = sp.Color
	p.Add(line)
	p.Legend.Add(sp.Name, line)

	if sp.Kind != speccache.AreaMean || len(sp.Err) != len(sp.Data) {
		return
	}
	// Dashed envelope at one standard deviation.
	for _, sign := range []float64{1, -1} {
		env := make([]float64, len(sp.Data))
		for i := range env {
			env[i] = sp.Data[i] + sign*sp.Err[i]
		}
		if el, err := plotter.NewLine(sd.points(env)); err == nil {
			el.Width = vg.Points(0.5)
			el.Color = sp.Color
			el.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			p.Add(el)
		}
	}
}

// valueRange spans every plotted value so indicator lines run full height.
func (sd *SpectralDisplay) valueRange() (lo, hi float64) {
	lo, hi = 0, 1
	first := true
	scanSeries := func(data []float64) {
		for _, v := range data {
			if v != v {
				continue
			}
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	for _, sp := range sd.cache.Snapshot() {
		scanSeries(sp.Data)
	}
	scanSeries(sd.scan)
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

func (sd *SpectralDisplay) addIndicator(p *plot.Plot, wvl, yLo, yHi float64, col color.RGBA) {
	pts := plotter.XYs{{X: wvl, Y: yLo}, {X: wvl, Y: yHi}}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return
	}
	line.Width = vg.Points(1)
	line.Color = col
	p.Add(line)
}

func (sd *SpectralDisplay) points(data []float64) plotter.XYs {
	n := len(data)
	if len(sd.axis) < n {
		n = len(sd.axis)
	}
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if data[i] != data[i] {
			continue
		}
		pts = append(pts, plotter.XY{X: sd.axis[i], Y: data[i]})
	}
	return pts
}

// Refresh redraws the plot.
func (sd *SpectralDisplay) Refresh() {
	sd.raster.Refresh()
	sd.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (sd *SpectralDisplay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(sd.raster)
}
