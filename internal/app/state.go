// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"specview/internal/cube"
	"specview/internal/export"
	"specview/internal/speccache"
	"specview/pkg/geometry"
)

// State holds the application state: the loaded cube, its wavelength axis,
// the padded display copy, and the collected spectra.
type State struct {
	mu sync.RWMutex

	// Source cube as loaded from disk.
	CubePath string
	Cube     *cube.Cube

	// Wavelength axis, one entry per band.
	WavelengthsPath string
	Wavelengths     []float64

	// Square-padded copy used for display, plus the offset mapping padded
	// coordinates back to data coordinates.
	Padded *cube.Cube
	Offset geometry.SquareOffset

	// Collected spectra.
	Spectra *speccache.Cache

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventCubeLoaded EventType = iota
	EventWavelengthsLoaded
	EventSpectraChanged
	EventSessionSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	s := &State{
		Spectra:   speccache.New(),
		listeners: make(map[EventType][]EventListener),
	}
	forward := func(data speccache.EventData) {
		s.Emit(EventSpectraChanged, data)
	}
	for _, ev := range []speccache.Event{
		speccache.EventAdded, speccache.EventRenamed,
		speccache.EventRemoved, speccache.EventCleared,
	} {
		s.Spectra.On(ev, forward)
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadCube reads a cube from path, builds the square-padded display copy,
// and drops any spectra collected from the previous cube.
func (s *State) LoadCube(path string) error {
	c, err := cube.Load(path)
	if err != nil {
		return err
	}

	off, padded, side := geometry.SquarePad(c.Data, c.Rows, c.Cols, c.Bands)
	pc, err := cube.New(side, side, c.Bands, padded)
	if err != nil {
		return err
	}
	pc.Geo = c.Geo
	pc.Path = c.Path

	s.mu.Lock()
	s.CubePath = path
	s.Cube = c
	s.Padded = pc
	s.Offset = off
	s.mu.Unlock()

	// Clear outside the lock: cache listeners re-enter Emit.
	removed := s.Spectra.Clear()
	for _, sp := range removed {
		if sp.Artifacts != nil {
			sp.Artifacts.Release()
		}
	}

	s.Emit(EventCubeLoaded, c)
	return nil
}

// LoadWavelengths reads a wavelength axis from path and validates it
// against the loaded cube when one is present.
func (s *State) LoadWavelengths(path string) error {
	wvls, err := cube.LoadWavelengths(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.Cube != nil {
		if err := s.Cube.Validate(wvls); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.WavelengthsPath = path
	s.Wavelengths = wvls
	s.mu.Unlock()

	s.Emit(EventWavelengthsLoaded, wvls)
	return nil
}

// Axis returns the wavelength axis, falling back to band indices when no
// wavelength file has been loaded.
func (s *State) Axis() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Wavelengths) > 0 {
		return s.Wavelengths
	}
	if s.Cube == nil {
		return nil
	}
	axis := make([]float64, s.Cube.Bands)
	for i := range axis {
		axis[i] = float64(i)
	}
	return axis
}

// Loaded reports whether a cube is ready for display.
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Padded != nil
}

// DataCoord maps a padded-display coordinate into source-cube coordinates.
func (s *State) DataCoord(p geometry.PixelCoordinate) geometry.PixelCoordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return p.WithOffset(s.Offset)
}

// StatusAt formats the status-bar readout for a padded-display position.
// Out-of-bounds positions report the no-data sentinel.
func (s *State) StatusAt(p geometry.PixelCoordinate, band int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value := float64(cube.NoDataValue)
	if s.Padded != nil && p.In(s.Padded.Rows, s.Padded.Cols) && band >= 0 && band < s.Padded.Bands {
		if v := s.Padded.At(p.Y, p.X, band); v == v {
			value = v
		}
	}
	return fmt.Sprintf("x=%d y=%d value=%.6g", p.X, p.Y, value)
}

// SaveSession writes the collected spectra to dir as a JSON container plus
// one CSV per spectrum, returning the session path.
func (s *State) SaveSession(dir string) (string, error) {
	s.mu.RLock()
	geo := geometry.GeoTransform{}
	cubePath := s.CubePath
	off := s.Offset
	if s.Cube != nil {
		geo = s.Cube.Geo
	}
	s.mu.RUnlock()

	sess, err := export.NewSession(s.Spectra, s.Axis(), cubePath, off, time.Now())
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, sess.Group+".json")
	if err := sess.WriteJSON(path); err != nil {
		return "", err
	}
	if _, err := sess.WriteCSVs(dir, geo); err != nil {
		return "", err
	}

	s.Emit(EventSessionSaved, path)
	return path, nil
}
