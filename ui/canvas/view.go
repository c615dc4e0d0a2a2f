package canvas

import (
	"specview/pkg/geometry"
)

// Viewport is the visible data-coordinate window of a canvas. Pixel centers
// sit on integer coordinates, so the full image spans -0.5 to side-0.5.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64

	// Image extent in data coordinates.
	boundX, boundY float64
}

// NewViewport returns a viewport covering a rows-by-cols image.
func NewViewport(rows, cols int) Viewport {
	v := Viewport{boundX: float64(cols), boundY: float64(rows)}
	v.Reset()
	return v
}

// Reset restores the full-image view.
func (v *Viewport) Reset() {
	v.XMin, v.XMax = -0.5, v.boundX-0.5
	v.YMin, v.YMax = -0.5, v.boundY-0.5
}

// ZoomAt rescales about a data position. Scale > 1 widens the view. The
// result is clamped so the window never leaves the image.
func (v *Viewport) ZoomAt(pos geometry.Point2D, scale float64) {
	v.XMin = pos.X - (pos.X-v.XMin)*scale
	v.XMax = pos.X + (v.XMax-pos.X)*scale
	v.YMin = pos.Y - (pos.Y-v.YMin)*scale
	v.YMax = pos.Y + (v.YMax-pos.Y)*scale
	v.clamp()
}

// PanBy shifts the window by a data-coordinate delta, clamped to the image.
func (v *Viewport) PanBy(dx, dy float64) {
	v.XMin += dx
	v.XMax += dx
	v.YMin += dy
	v.YMax += dy
	v.clamp()
}

func (v *Viewport) clamp() {
	lo, hiX, hiY := -0.5, v.boundX-0.5, v.boundY-0.5

	if v.XMax-v.XMin > hiX-lo {
		v.XMin, v.XMax = lo, hiX
	} else {
		if v.XMin < lo {
			v.XMax += lo - v.XMin
			v.XMin = lo
		}
		if v.XMax > hiX {
			v.XMin -= v.XMax - hiX
			v.XMax = hiX
		}
	}

	if v.YMax-v.YMin > hiY-lo {
		v.YMin, v.YMax = lo, hiY
	} else {
		if v.YMin < lo {
			v.YMax += lo - v.YMin
			v.YMin = lo
		}
		if v.YMax > hiY {
			v.YMin -= v.YMax - hiY
			v.YMax = hiY
		}
	}
}

// ToData maps a widget pixel to data coordinates for a w-by-h raster.
func (v *Viewport) ToData(px, py float64, w, h int) geometry.Point2D {
	return geometry.Point2D{
		X: v.XMin + (px+0.5)/float64(w)*(v.XMax-v.XMin),
		Y: v.YMin + (py+0.5)/float64(h)*(v.YMax-v.YMin),
	}
}

// ToPixel maps a data coordinate to widget pixels for a w-by-h raster.
func (v *Viewport) ToPixel(p geometry.Point2D, w, h int) (float64, float64) {
	px := (p.X-v.XMin)/(v.XMax-v.XMin)*float64(w) - 0.5
	py := (p.Y-v.YMin)/(v.YMax-v.YMin)*float64(h) - 0.5
	return px, py
}
