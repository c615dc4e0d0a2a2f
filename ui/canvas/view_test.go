package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specview/pkg/geometry"
)

func TestViewportResetCoversImage(t *testing.T) {
	v := NewViewport(10, 20)
	assert.Equal(t, -0.5, v.XMin)
	assert.Equal(t, 19.5, v.XMax)
	assert.Equal(t, -0.5, v.YMin)
	assert.Equal(t, 9.5, v.YMax)
}

func TestViewportZoomInAboutPoint(t *testing.T) {
	v := NewViewport(20, 20)
	center := geometry.Point2D{X: 10, Y: 5}

	v.ZoomAt(center, 0.5)
	assert.InDelta(t, 4.75, v.XMin, 1e-9)
	assert.InDelta(t, 14.75, v.XMax, 1e-9)
	assert.InDelta(t, 2.25, v.YMin, 1e-9)
	assert.InDelta(t, 12.25, v.YMax, 1e-9)
}

func TestViewportZoomOutClampsToImage(t *testing.T) {
	v := NewViewport(20, 20)
	v.ZoomAt(geometry.Point2D{X: 10, Y: 10}, 0.5)

	// Zooming far out never exceeds the full extent.
	v.ZoomAt(geometry.Point2D{X: 10, Y: 10}, 100)
	assert.Equal(t, -0.5, v.XMin)
	assert.Equal(t, 19.5, v.XMax)
	assert.Equal(t, -0.5, v.YMin)
	assert.Equal(t, 19.5, v.YMax)
}

func TestViewportZoomNearEdgeShiftsWindow(t *testing.T) {
	v := NewViewport(20, 20)
	v.ZoomAt(geometry.Point2D{X: 0, Y: 0}, 0.25)

	// Window stays inside the image even when the zoom center is at a corner.
	assert.GreaterOrEqual(t, v.XMin, -0.5)
	assert.GreaterOrEqual(t, v.YMin, -0.5)
	assert.InDelta(t, 5.0, v.XMax-v.XMin, 1e-9)
	assert.InDelta(t, 5.0, v.YMax-v.YMin, 1e-9)
}

func TestViewportPanClamps(t *testing.T) {
	v := NewViewport(20, 20)
	v.ZoomAt(geometry.Point2D{X: 10, Y: 10}, 0.5)

	before := v.XMax - v.XMin
	v.PanBy(3, -2)
	assert.InDelta(t, before, v.XMax-v.XMin, 1e-9)
	assert.InDelta(t, 7.75, v.XMin, 1e-9)
	assert.InDelta(t, 2.75, v.YMin, 1e-9)

	// Pan far past the edge: window pins to the boundary.
	v.PanBy(1000, 1000)
	assert.Equal(t, 19.5, v.XMax)
	assert.Equal(t, 19.5, v.YMax)
	v.PanBy(-1000, -1000)
	assert.Equal(t, -0.5, v.XMin)
	assert.Equal(t, -0.5, v.YMin)
}

func TestViewportCoordinateRoundTrip(t *testing.T) {
	v := NewViewport(30, 40)
	v.ZoomAt(geometry.Point2D{X: 12, Y: 9}, 0.6)

	p := v.ToData(123, 77, 400, 300)
	px, py := v.ToPixel(p, 400, 300)
	assert.InDelta(t, 123, px, 1e-9)
	assert.InDelta(t, 77, py, 1e-9)
}

func TestViewportToDataFullView(t *testing.T) {
	v := NewViewport(10, 10)

	// The center of a 100-pixel raster maps near the image center.
	p := v.ToData(49.5, 49.5, 100, 100)
	require.InDelta(t, 4.5, p.X, 1e-9)
	require.InDelta(t, 4.5, p.Y, 1e-9)

	// First raster pixel center lands inside the first data pixel.
	p = v.ToData(0, 0, 100, 100)
	assert.InDelta(t, -0.45, p.X, 1e-9)
}

func TestStripWavelengthMapping(t *testing.T) {
	cc := &CubeCanvas{wavelength: []float64{400, 500, 600, 700}}

	assert.Equal(t, 150, cc.wavelengthToStrip(550, 300))
	assert.InDelta(t, 550, cc.stripToWavelength(150, 300), 1e-9)
	assert.InDelta(t, 400, cc.stripToWavelength(0, 300), 1e-9)
	assert.InDelta(t, 700, cc.stripToWavelength(300, 300), 1e-9)

	// Degenerate axis pins the indicator to the left edge.
	cc.wavelength = []float64{500, 500}
	assert.Equal(t, 0, cc.wavelengthToStrip(500, 300))
}
