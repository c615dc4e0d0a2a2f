package geometry

import "math"

// SquarePad pads the shorter spatial axis of a rows×cols×channels grid with
// NaN so the result is square. Data is row-major with channels interleaved
// (channels == 1 for a single band, 3 for an RGB composite). The returned
// offset carries the signed half-padding on whichever axis grew; adding the
// offset to a padded coordinate recovers the original coordinate.
//
// Odd padding lengths truncate via integer division, so the extra row or
// column lands on the trailing edge. The asymmetry is cosmetic: the offset
// still maps every original pixel back exactly.
func SquarePad(data []float64, rows, cols, channels int) (SquareOffset, []float64, int) {
	if rows == cols {
		out := make([]float64, len(data))
		copy(out, data)
		return SquareOffset{}, out, rows
	}

	side := rows
	if cols > side {
		side = cols
	}

	padded := make([]float64, side*side*channels)
	for i := range padded {
		padded[i] = math.NaN()
	}

	var off SquareOffset
	rowShift, colShift := 0, 0
	if rows < side {
		rowShift = (side - rows) / 2
		off.Y = -rowShift
	} else {
		colShift = (side - cols) / 2
		off.X = -colShift
	}

	for r := 0; r < rows; r++ {
		src := r * cols * channels
		dst := ((r + rowShift) * side * channels) + colShift*channels
		copy(padded[dst:dst+cols*channels], data[src:src+cols*channels])
	}

	return off, padded, side
}

// SquareCrop reverses SquarePad using the offset it returned, recovering the
// original rows×cols grid from a side×side padded grid.
func SquareCrop(padded []float64, side, rows, cols, channels int, off SquareOffset) []float64 {
	out := make([]float64, rows*cols*channels)
	rowShift := -off.Y
	colShift := -off.X
	for r := 0; r < rows; r++ {
		src := ((r + rowShift) * side * channels) + colShift*channels
		dst := r * cols * channels
		copy(out[dst:dst+cols*channels], padded[src:src+cols*channels])
	}
	return out
}
