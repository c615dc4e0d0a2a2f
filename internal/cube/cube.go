// Package cube provides the spectral cube data model and the file loaders
// that produce it. A cube is a dense 3D array with axes fixed as
// (row, column, band); wavelength arrays are loaded separately and paired
// with a cube by the caller.
package cube

import (
	"errors"
	"fmt"
	"math"

	"specview/pkg/geometry"
)

var (
	// ErrUnsupportedFormat is returned when a file extension has no handler.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrParse is returned when a file is recognized but a required field
	// is missing or malformed.
	ErrParse = errors.New("parse error")

	// ErrBadDimension is returned for arrays of the wrong dimensionality.
	ErrBadDimension = errors.New("wrong array dimensionality")
)

// NoDataValue marks missing samples in source rasters. Loaders map it to NaN
// so the rest of the viewer only ever deals with non-finite values.
const NoDataValue = -999

// Cube is a spectral cube: Rows×Cols spatial pixels with Bands samples per
// pixel. Data is row-major with bands interleaved by pixel, so the spectrum
// of one pixel is contiguous. Cubes are immutable after load except by an
// explicit re-load.
type Cube struct {
	Rows  int
	Cols  int
	Bands int
	Data  []float64

	// Geo is the pixel-to-geographic transform, zero when the source
	// carried no map info.
	Geo geometry.GeoTransform

	// Path is the file the cube was loaded from, empty for synthetic cubes.
	Path string
}

// New creates a cube of the given shape backed by data. The data length must
// equal rows*cols*bands.
func New(rows, cols, bands int, data []float64) (*Cube, error) {
	if rows <= 0 || cols <= 0 || bands <= 0 {
		return nil, fmt.Errorf("%w: shape (%d, %d, %d)", ErrBadDimension, rows, cols, bands)
	}
	if len(data) != rows*cols*bands {
		return nil, fmt.Errorf("%w: %d values for shape (%d, %d, %d)",
			ErrBadDimension, len(data), rows, cols, bands)
	}
	return &Cube{Rows: rows, Cols: cols, Bands: bands, Data: data}, nil
}

// At returns the sample at (row, col, band). No bounds check; callers
// validate coordinates before indexing.
func (c *Cube) At(row, col, band int) float64 {
	return c.Data[(row*c.Cols+col)*c.Bands+band]
}

// Spectrum returns a copy of the per-band values at (row, col).
func (c *Cube) Spectrum(row, col int) []float64 {
	out := make([]float64, c.Bands)
	copy(out, c.Data[(row*c.Cols+col)*c.Bands:(row*c.Cols+col+1)*c.Bands])
	return out
}

// Band returns a copy of one band as a Rows×Cols row-major plane.
func (c *Cube) Band(idx int) []float64 {
	out := make([]float64, c.Rows*c.Cols)
	for r := 0; r < c.Rows; r++ {
		for col := 0; col < c.Cols; col++ {
			out[r*c.Cols+col] = c.Data[(r*c.Cols+col)*c.Bands+idx]
		}
	}
	return out
}

// Validate checks the cube against a wavelength array. The invariant is
// exact: one wavelength per band.
func (c *Cube) Validate(wavelengths []float64) error {
	if len(wavelengths) != c.Bands {
		return fmt.Errorf("%w: %d wavelengths for %d bands",
			ErrBadDimension, len(wavelengths), c.Bands)
	}
	return nil
}

// maskNoData replaces the no-data marker with NaN in place.
func maskNoData(data []float64) {
	for i, v := range data {
		if v == NoDataValue {
			data[i] = math.NaN()
		}
	}
}
