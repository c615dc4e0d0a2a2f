package canvas

import (
	"image"
	"image/color"
	"math"

	"specview/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

// drawOverlay renders one overlay into the output raster, mapping every
// data coordinate through the current viewport.
func (cc *CubeCanvas) drawOverlay(output *image.RGBA, overlay *Overlay, w, h int) {
	col := overlay.Color

	for _, rect := range overlay.Rectangles {
		x1f, y1f := cc.view.ToPixel(pt(rect.X-0.5, rect.Y-0.5), w, h)
		x2f, y2f := cc.view.ToPixel(pt(rect.X+rect.Width-0.5, rect.Y+rect.Height-0.5), w, h)
		drawRectOutline(output, int(x1f), int(y1f), int(x2f), int(y2f), col)
	}

	for _, poly := range overlay.Polylines {
		if len(poly.Points) < 2 {
			continue
		}
		c := col
		if poly.Color != nil {
			c = *poly.Color
		}
		n := len(poly.Points)
		for i := 0; i < n-1; i++ {
			cc.drawSegment(output, poly.Points[i], poly.Points[i+1], c, w, h)
		}
		if poly.Closed && n > 2 {
			cc.drawSegment(output, poly.Points[n-1], poly.Points[0], c, w, h)
		}
	}

	for _, g := range overlay.Guides {
		c := col
		if g.Color != nil {
			c = *g.Color
		}
		cc.drawGuide(output, g, c, w, h)
	}
}

func (cc *CubeCanvas) drawSegment(output *image.RGBA, a, b geometry.Point2D, col color.RGBA, w, h int) {
	x1, y1 := cc.view.ToPixel(a, w, h)
	x2, y2 := cc.view.ToPixel(b, w, h)
	drawLine(output, int(x1), int(y1), int(x2), int(y2), col, 2)
}

func (cc *CubeCanvas) drawGuide(output *image.RGBA, g OverlayGuide, col color.RGBA, w, h int) {
	bounds := output.Bounds()
	switch g.Axis {
	case GuideVertical:
		px, _ := cc.view.ToPixel(pt(g.At, 0), w, h)
		x := int(px)
		if x < bounds.Min.X || x >= bounds.Max.X {
			return
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			output.Set(x, y, col)
		}
	case GuideHorizontal:
		_, py := cc.view.ToPixel(pt(0, g.At), w, h)
		y := int(py)
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			return
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			output.Set(x, y, col)
		}
	}
}

// drawRectOutline draws a 2 pixel thick rectangle outline.
func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	bounds := output.Bounds()
	for t := 0; t < 2; t++ {
		for x := x1; x <= x2; x++ {
			setIn(output, bounds, x, y1+t, col)
			setIn(output, bounds, x, y2-t, col)
		}
		for y := y1; y <= y2; y++ {
			setIn(output, bounds, x1+t, y, col)
			setIn(output, bounds, x2-t, y, col)
		}
	}
}

// drawLine draws a line with the given thickness using simple stepping.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		setIn(output, bounds, x1, y1, col)
		return
	}

	half := thickness / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(float64(x1) + dx*t)
		y := int(float64(y1) + dy*t)
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				setIn(output, bounds, x+tx, y+ty, col)
			}
		}
	}
}

func setIn(output *image.RGBA, bounds image.Rectangle, x, y int, col color.RGBA) {
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		output.Set(x, y, col)
	}
}
