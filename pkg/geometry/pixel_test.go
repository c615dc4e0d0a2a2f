package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelFromDataRounds(t *testing.T) {
	assert.Equal(t, PixelCoordinate{X: 2, Y: 3}, PixelFromData(1.6, 3.4))
	assert.Equal(t, PixelCoordinate{X: 0, Y: 0}, PixelFromData(0.49, -0.49))
	assert.Equal(t, PixelCoordinate{X: -1, Y: 5}, PixelFromData(-0.51, 4.5))
}

func TestPixelIn(t *testing.T) {
	assert.True(t, PixelCoordinate{X: 0, Y: 0}.In(4, 6))
	assert.True(t, PixelCoordinate{X: 5, Y: 3}.In(4, 6))
	assert.False(t, PixelCoordinate{X: 6, Y: 3}.In(4, 6))
	assert.False(t, PixelCoordinate{X: 5, Y: 4}.In(4, 6))
	assert.False(t, PixelCoordinate{X: -1, Y: 0}.In(4, 6))
}

func TestGeoTransformForward(t *testing.T) {
	g := GeoTransform{100, 0.5, 0, 40, 0, -0.5}

	x, y := g.Forward(0, 0)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 40.0, y)

	x, y = g.Forward(10, 4)
	assert.Equal(t, 105.0, x)
	assert.Equal(t, 38.0, y)

	assert.True(t, GeoTransform{}.IsZero())
	assert.False(t, g.IsZero())
}
