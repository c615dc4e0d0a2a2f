// Package selection turns pointer gestures into pixel sets: validated
// single-pixel picks, and lasso polylines resolved against a precomputed
// pixel grid by point-in-polygon containment.
package selection

import (
	"specview/pkg/geometry"
)

// PixelGrid is the full integer coordinate grid of a displayed image,
// precomputed once per image shape so lasso containment tests iterate plain
// slices.
type PixelGrid struct {
	Rows int
	Cols int
}

// NewPixelGrid creates a grid matching a rows×cols image.
func NewPixelGrid(rows, cols int) *PixelGrid {
	return &PixelGrid{Rows: rows, Cols: cols}
}

// PickPixel rounds floating data coordinates to the nearest pixel and
// bounds-checks it. ok is false when the pointer was outside
// [0,rows)×[0,cols); the caller treats that as a no-op, not an error.
func PickPixel(x, y float64, rows, cols int) (geometry.PixelCoordinate, bool) {
	coord := geometry.PixelFromData(x, y)
	return coord, coord.In(rows, cols)
}

// LassoPixels returns every grid coordinate enclosed by the lasso polyline,
// in row-major order. Containment is even-odd ray casting against the
// vertex polygon. A lasso that encloses no grid point returns an empty
// slice; a degenerate polyline (fewer than three vertices) encloses
// nothing. Pure function: same vertices and grid always give the same set.
func LassoPixels(vertices []geometry.Point2D, grid *PixelGrid) []geometry.PixelCoordinate {
	if len(vertices) < 3 || grid == nil {
		return nil
	}

	// Only coordinates inside the lasso's bounding box can be contained.
	bbox := geometry.BoundingBox(vertices)
	minX := clampInt(int(bbox.X), 0, grid.Cols-1)
	maxX := clampInt(int(bbox.X+bbox.Width)+1, 0, grid.Cols-1)
	minY := clampInt(int(bbox.Y), 0, grid.Rows-1)
	maxY := clampInt(int(bbox.Y+bbox.Height)+1, 0, grid.Rows-1)

	var inside []geometry.PixelCoordinate
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := geometry.Point2D{X: float64(x), Y: float64(y)}
			if geometry.PointInPolygon(p, vertices) {
				inside = append(inside, geometry.PixelCoordinate{X: x, Y: y})
			}
		}
	}
	return inside
}

// Outline computes a concave outline of a selected pixel set for drawing on
// the image. It is purely cosmetic: the pixel set feeding the spectrum
// computation is never derived from it.
func Outline(coords []geometry.PixelCoordinate, maxEdge float64) []geometry.Point2D {
	pts := make([]geometry.Point2D, len(coords))
	for i, c := range coords {
		pts[i] = geometry.Point2D{X: float64(c.X), Y: float64(c.Y)}
	}
	return geometry.ConcaveHull(pts, maxEdge)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
