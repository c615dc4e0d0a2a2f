package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specview/internal/cube"
	"specview/pkg/geometry"
)

func testCube(t *testing.T) *cube.Cube {
	t.Helper()
	// 2x2 pixels, 3 bands.
	c, err := cube.New(2, 2, 3, []float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	})
	require.NoError(t, err)
	return c
}

func TestExtremaSkipsNonFinite(t *testing.T) {
	min, max, err := Extrema([]float64{math.NaN(), 3, -2, math.Inf(1), 7})
	require.NoError(t, err)
	assert.Equal(t, -2.0, min)
	assert.Equal(t, 7.0, max)
}

func TestExtremaAllNaN(t *testing.T) {
	_, _, err := Extrema([]float64{math.NaN(), math.Inf(-1)})
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestPercentiles(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	lo, hi, err := Percentiles(data, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)

	lo, hi, err = Percentiles(data, 25, 50)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, lo, 1e-9)
	assert.InDelta(t, 5.0, hi, 1e-9)
}

func TestPercentilesIgnoresNaN(t *testing.T) {
	lo, hi, err := Percentiles([]float64{math.NaN(), 1, math.NaN(), 3}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)

	_, _, err = Percentiles([]float64{math.NaN()}, 2, 98)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestNearestWavelength(t *testing.T) {
	wvls := []float64{400, 500, 600, 700}

	idx, w, err := NearestWavelength(wvls, 430)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 400.0, w)

	idx, w, err = NearestWavelength(wvls, 680)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
	assert.Equal(t, 700.0, w)

	// Equidistant between 500 and 600: lowest index wins.
	idx, _, err = NearestWavelength(wvls, 550)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, _, err = NearestWavelength(nil, 550)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestSingleSpectrum(t *testing.T) {
	c := testCube(t)
	assert.Equal(t, []float64{4, 5, 6}, SingleSpectrum(c, geometry.PixelCoordinate{X: 1, Y: 0}))
	assert.Equal(t, []float64{7, 8, 9}, SingleSpectrum(c, geometry.PixelCoordinate{X: 0, Y: 1}))
}

func TestAreaSpectrum(t *testing.T) {
	c := testCube(t)
	coords := []geometry.PixelCoordinate{
		{X: 0, Y: 0}, // 1, 2, 3
		{X: 1, Y: 1}, // 10, 11, 12
	}

	stats, err := AreaSpectrum(c, coords)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.N)
	assert.Equal(t, []float64{5.5, 6.5, 7.5}, stats.Mean)

	// Sample standard deviation with divisor n-1: for {1, 10} that is
	// sqrt(2 * 4.5^2 / 1) = 4.5 * sqrt(2).
	want := 4.5 * math.Sqrt2
	for _, s := range stats.Std {
		assert.InDelta(t, want, s, 1e-9)
	}
}

func TestAreaSpectrumIdenticalPixels(t *testing.T) {
	c, err := cube.New(1, 3, 2, []float64{5, 9, 5, 9, 5, 9})
	require.NoError(t, err)

	stats, err := AreaSpectrum(c, []geometry.PixelCoordinate{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 9}, stats.Mean)
	assert.Equal(t, []float64{0, 0}, stats.Std)
}

func TestAreaSpectrumSinglePixel(t *testing.T) {
	c := testCube(t)
	stats, err := AreaSpectrum(c, []geometry.PixelCoordinate{{X: 1, Y: 0}})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.N)
	assert.Equal(t, []float64{4, 5, 6}, stats.Mean)
	assert.Equal(t, []float64{0, 0, 0}, stats.Std)
}

func TestAreaSpectrumEmpty(t *testing.T) {
	_, err := AreaSpectrum(testCube(t), nil)
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}
