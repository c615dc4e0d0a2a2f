// Package spectral provides the numeric core of the viewer: finite-aware
// extrema and percentiles for contrast stretching, nearest-wavelength
// lookup, and single-pixel and area spectrum statistics.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"specview/internal/cube"
	"specview/pkg/geometry"
)

var (
	// ErrEmptyData is returned when an array holds no finite values.
	ErrEmptyData = errors.New("no finite data")

	// ErrInsufficientSamples is returned when an area statistic is asked
	// of an empty selection.
	ErrInsufficientSamples = errors.New("insufficient samples")
)

// Extrema returns the minimum and maximum finite values of data. Non-finite
// values are ignored; an array with none fails with ErrEmptyData.
func Extrema(data []float64) (min, max float64, err error) {
	min = math.Inf(1)
	max = math.Inf(-1)
	found := false
	for _, v := range data {
		if !isFinite(v) {
			continue
		}
		found = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !found {
		return 0, 0, ErrEmptyData
	}
	return min, max, nil
}

// Percentiles returns the low and high percentile values of the finite
// entries of data, with standard linear interpolation. Percentiles are in
// [0, 100].
func Percentiles(data []float64, low, high float64) (loVal, hiVal float64, err error) {
	finite := make([]float64, 0, len(data))
	for _, v := range data {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, ErrEmptyData
	}
	sort.Float64s(finite)

	return quantile(finite, low), quantile(finite, high), nil
}

// quantile interpolates sorted at rank p/100*(n-1), the linear method shared
// by numpy and R type 7.
func quantile(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// NearestWavelength returns the index and value in wavelengths closest to
// target. Ties break to the lowest index.
func NearestWavelength(wavelengths []float64, target float64) (int, float64, error) {
	if len(wavelengths) == 0 {
		return 0, 0, ErrEmptyData
	}

	best := 0
	bestDiff := math.Abs(wavelengths[0] - target)
	for i, w := range wavelengths[1:] {
		if d := math.Abs(w - target); d < bestDiff {
			bestDiff = d
			best = i + 1
		}
	}
	return best, wavelengths[best], nil
}

// SingleSpectrum returns the per-band values of one pixel.
func SingleSpectrum(c *cube.Cube, coord geometry.PixelCoordinate) []float64 {
	return c.Spectrum(coord.Y, coord.X)
}

// AreaStats holds the result of an area spectrum computation.
type AreaStats struct {
	Mean []float64
	// Std is the per-band sample standard deviation (Bessel's correction,
	// divisor n-1). All zeros when N == 1: a one-pixel area has a valid
	// mean and an undefined spread, reported as zero rather than NaN.
	Std []float64
	N   int
}

// AreaSpectrum computes the band-wise mean and sample standard deviation
// over a set of pixels. An empty set fails with ErrInsufficientSamples.
func AreaSpectrum(c *cube.Cube, coords []geometry.PixelCoordinate) (AreaStats, error) {
	n := len(coords)
	if n == 0 {
		return AreaStats{}, fmt.Errorf("%w: empty selection", ErrInsufficientSamples)
	}

	stats := AreaStats{
		Mean: make([]float64, c.Bands),
		Std:  make([]float64, c.Bands),
		N:    n,
	}

	column := make([]float64, n)
	for b := 0; b < c.Bands; b++ {
		for i, coord := range coords {
			column[i] = c.At(coord.Y, coord.X, b)
		}
		stats.Mean[b] = stat.Mean(column, nil)
		if n > 1 {
			stats.Std[b] = stat.StdDev(column, nil)
		}
	}
	return stats, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
