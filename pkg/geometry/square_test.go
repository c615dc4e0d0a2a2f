package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquarePadAlreadySquare(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	off, padded, side := SquarePad(data, 2, 2, 1)

	assert.Equal(t, 2, side)
	assert.True(t, off.IsZero())
	assert.Equal(t, data, padded)
}

func TestSquarePadTallImage(t *testing.T) {
	// 4 rows x 2 cols, one channel; columns grow to 4.
	data := make([]float64, 8)
	for i := range data {
		data[i] = float64(i)
	}
	off, padded, side := SquarePad(data, 4, 2, 1)

	require.Equal(t, 4, side)
	assert.Equal(t, 0, off.Y)
	assert.Equal(t, -1, off.X)
	assert.Len(t, padded, 16)

	// Original (0,0) lands at display column 1. Adding the offset maps the
	// display coordinate back to data space.
	assert.Equal(t, 0.0, padded[0*4+1])
	assert.Equal(t, 1.0, padded[0*4+2])
	assert.True(t, math.IsNaN(padded[0]))
	assert.True(t, math.IsNaN(padded[3]))

	disp := PixelCoordinate{X: 1, Y: 0}
	assert.Equal(t, PixelCoordinate{X: 0, Y: 0}, disp.WithOffset(off))
}

func TestSquarePadWideImage(t *testing.T) {
	// 1 row x 3 cols; rows grow to 3, shift (3-1)/2 = 1.
	data := []float64{5, 6, 7}
	off, padded, side := SquarePad(data, 1, 3, 1)

	require.Equal(t, 3, side)
	assert.Equal(t, -1, off.Y)
	assert.Equal(t, 0, off.X)
	assert.Equal(t, 5.0, padded[1*3+0])
	assert.True(t, math.IsNaN(padded[0]))
	assert.True(t, math.IsNaN(padded[2*3+0]))
}

func TestSquareCropRoundTrip(t *testing.T) {
	rows, cols, channels := 3, 5, 3
	data := make([]float64, rows*cols*channels)
	for i := range data {
		data[i] = float64(i) * 0.5
	}

	off, padded, side := SquarePad(data, rows, cols, channels)
	back := SquareCrop(padded, side, rows, cols, channels, off)

	assert.Equal(t, data, back)
}

func TestSquarePadOddPaddingTruncates(t *testing.T) {
	// 2 rows x 5 cols: padding of 3 rows splits 1 above, 2 below.
	data := make([]float64, 10)
	off, padded, side := SquarePad(data, 2, 5, 1)

	require.Equal(t, 5, side)
	assert.Equal(t, -1, off.Y)
	assert.Equal(t, 0.0, padded[1*5+0])
	assert.True(t, math.IsNaN(padded[0*5+0]))
	assert.True(t, math.IsNaN(padded[3*5+0]))
	assert.True(t, math.IsNaN(padded[4*5+0]))
}
