// Package canvas provides the cube display widget with pan, zoom, and
// spectrum-collection overlays.
package canvas

import (
	"image/color"

	"specview/pkg/geometry"
)

// Overlay represents a drawable overlay on the canvas, in data coordinates.
type Overlay struct {
	Rectangles []OverlayRect
	Polylines  []OverlayPolyline
	Guides     []OverlayGuide
	Color      color.RGBA
}

// OverlayRect marks a single pixel or region.
type OverlayRect struct {
	X, Y          float64
	Width, Height float64
}

// OverlayPolyline is an open or closed vertex chain, used for the live
// lasso trace and for finished selection outlines.
type OverlayPolyline struct {
	Points []geometry.Point2D
	Closed bool
	Color  *color.RGBA // overrides the overlay color when set
}

// GuideAxis selects a guide line orientation.
type GuideAxis int

const (
	GuideVertical GuideAxis = iota
	GuideHorizontal
)

// OverlayGuide is a full-extent line at a fixed data coordinate, used for
// crosshair guides and band indicator mirrors.
type OverlayGuide struct {
	Axis  GuideAxis
	At    float64
	Color *color.RGBA
}
