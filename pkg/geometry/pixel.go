package geometry

import (
	"fmt"
	"math"
)

// PixelCoordinate identifies a single cube pixel. X is the column and Y the
// row, matching the (row, col, band) axis contract of the cube.
type PixelCoordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PixelFromData rounds floating data coordinates to the nearest pixel.
// Rounding happens exactly once, at the moment a pointer position becomes a
// pixel identity.
func PixelFromData(x, y float64) PixelCoordinate {
	return PixelCoordinate{
		X: int(math.Round(x)),
		Y: int(math.Round(y)),
	}
}

// In reports whether the coordinate lies inside a rows×cols image.
func (p PixelCoordinate) In(rows, cols int) bool {
	return p.X >= 0 && p.X < cols && p.Y >= 0 && p.Y < rows
}

// WithOffset translates from the padded-display frame into the original
// image frame using the offset returned by SquarePad.
func (p PixelCoordinate) WithOffset(off SquareOffset) PixelCoordinate {
	return PixelCoordinate{X: p.X + off.X, Y: p.Y + off.Y}
}

func (p PixelCoordinate) String() string {
	return fmt.Sprintf("(x=%d, y=%d)", p.X, p.Y)
}

// SquareOffset records the signed half-padding applied by SquarePad. Exactly
// one of the two fields is non-zero: the padded axis. Adding it to a
// padded-display coordinate yields the original image coordinate.
type SquareOffset struct {
	X int `json:"x_offset"`
	Y int `json:"y_offset"`
}

// IsZero reports whether no padding was applied.
func (o SquareOffset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}
