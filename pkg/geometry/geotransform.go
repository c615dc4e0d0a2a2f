package geometry

// GeoTransform holds the standard 6-parameter affine mapping from pixel to
// geographic coordinates, in GDAL order: origin x, pixel width, row
// rotation, origin y, column rotation, pixel height.
type GeoTransform [6]float64

// IsZero reports whether no transform has been set.
func (g GeoTransform) IsZero() bool {
	return g == GeoTransform{}
}

// Forward maps a pixel position to geographic coordinates. The rotation
// terms (indices 2 and 4) are accepted for completeness but intentionally
// unused: the viewer assumes axis-aligned rasters, as all of its supported
// inputs are. A rotated raster will map to the un-rotated grid.
func (g GeoTransform) Forward(xPixel, yPixel float64) (xGeo, yGeo float64) {
	xGeo = g[0] + xPixel*g[1]
	yGeo = g[3] + yPixel*g[5]
	return xGeo, yGeo
}
