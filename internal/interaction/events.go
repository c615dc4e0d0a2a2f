// Package interaction implements the per-canvas interaction state machine.
// The canvas widgets translate raw pointer/key input into the typed events
// here and execute the actions the controller hands back; the state machine
// itself never touches a rendering surface, so every mode transition is
// testable with synthetic events.
package interaction

import (
	"specview/pkg/geometry"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Key identifies the keys the state machine reacts to.
type Key int

const (
	// KeyCollect toggles spectrum-collection mode (shift).
	KeyCollect Key = iota
	// KeyLasso holds lasso collection open while pressed (control).
	KeyLasso
	// KeyCrosshair toggles the hover scan overlay ("c").
	KeyCrosshair
)

// Event is a pointer or key event in image data coordinates. The canvas
// converts from screen space before dispatching.
type Event interface {
	isEvent()
}

// PointerPressed is a button press. InImage is true when the pointer is
// over the image axis; InStrip when it is over the wavelength indicator
// strip of an RGB canvas.
type PointerPressed struct {
	Button  Button
	Pos     geometry.Point2D
	InImage bool
	InStrip bool
}

// PointerMoved is pointer motion with the same axis flags as PointerPressed.
type PointerMoved struct {
	Pos     geometry.Point2D
	InImage bool
	InStrip bool
}

// PointerReleased is a button release. Release events carry no position;
// every mode exits on the button alone.
type PointerReleased struct {
	Button Button
}

// KeyDown is a key press.
type KeyDown struct {
	Key Key
}

// KeyUp is a key release.
type KeyUp struct {
	Key Key
}

// Scrolled is a wheel event over the image axis. DY > 0 zooms in.
type Scrolled struct {
	Pos geometry.Point2D
	DY  float64
}

func (PointerPressed) isEvent()  {}
func (PointerMoved) isEvent()    {}
func (PointerReleased) isEvent() {}
func (KeyDown) isEvent()         {}
func (KeyUp) isEvent()           {}
func (Scrolled) isEvent()        {}

// Action is an effect the canvas must apply after dispatching an event.
type Action interface {
	isAction()
}

// PanBy translates the view limits by a data-coordinate delta.
type PanBy struct {
	DX, DY float64
}

// ZoomAt rescales the view about a data position. Scale > 1 zooms out.
type ZoomAt struct {
	Pos   geometry.Point2D
	Scale float64
}

// SetCollectMode opens or closes spectrum collection; the spectral window
// follows it, and leaving collection clears the pick marker.
type SetCollectMode struct {
	Active bool
}

// PickAt is an accepted single-pixel pick in padded-display coordinates.
type PickAt struct {
	Coord geometry.PixelCoordinate
}

// LassoChanged reports the in-progress polyline for drawing.
type LassoChanged struct {
	Vertices []geometry.Point2D
}

// LassoFinished is the finalized polyline, emitted on lasso-key release.
type LassoFinished struct {
	Vertices []geometry.Point2D
}

// CrosshairMoved positions the guide lines and the linked scan spectrum.
// Visible is false when the pointer left the image bounds; the overlay
// hides rather than erroring.
type CrosshairMoved struct {
	Coord   geometry.PixelCoordinate
	Visible bool
}

// CrosshairToggled turns the overlay on or off.
type CrosshairToggled struct {
	Active bool
}

// BandScrubbed moves one channel's band indicator to a new wavelength
// position; the canvas snaps it to the nearest band and recomposites.
type BandScrubbed struct {
	Channel    int
	Wavelength float64
}

func (PanBy) isAction()            {}
func (ZoomAt) isAction()           {}
func (SetCollectMode) isAction()   {}
func (PickAt) isAction()           {}
func (LassoChanged) isAction()     {}
func (LassoFinished) isAction()    {}
func (CrosshairMoved) isAction()   {}
func (CrosshairToggled) isAction() {}
func (BandScrubbed) isAction()     {}
