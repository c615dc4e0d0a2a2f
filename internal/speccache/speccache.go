// Package speccache tracks every plotted spectrum and its provenance. Each
// entry pairs a unique display name with the pixel coordinate(s) it came
// from and the rendering artifacts drawn for it, so a spectrum can be
// renamed, recomputed, exported, or deleted without losing the selection it
// represents. The cache is single-owner state: one spectral display, one
// cache, all mutation inside the owning window's event callbacks.
package speccache

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"specview/pkg/geometry"
)

var (
	// ErrNotFound is returned when a named entry does not exist.
	ErrNotFound = errors.New("spectrum not found")

	// ErrDuplicateName is returned when a name is already taken. The
	// cache is left exactly as before the call.
	ErrDuplicateName = errors.New("spectrum name already exists")
)

// Kind distinguishes the two spectrum variants.
type Kind int

const (
	// SinglePixel is a spectrum picked from one pixel.
	SinglePixel Kind = iota
	// AreaMean is the mean spectrum of a lasso-selected pixel set.
	AreaMean
)

func (k Kind) String() string {
	if k == AreaMean {
		return "area"
	}
	return "single"
}

// Artifact is an opaque handle to the rendering objects a display created
// for one spectrum (a line, plus error bars and a selection outline for
// area entries). Release must remove every one of them from the canvas.
type Artifact interface {
	Release()
}

// Spectrum is one cache entry. The variant tag selects which provenance
// fields are meaningful: Coord for SinglePixel; Coords, Err and N for
// AreaMean.
type Spectrum struct {
	Kind        Kind
	Name        string
	Wavelengths []float64
	Data        []float64

	// SinglePixel provenance.
	Coord geometry.PixelCoordinate

	// AreaMean provenance and statistics.
	Err    []float64
	Coords []geometry.PixelCoordinate
	N      int

	// Color is the line color assigned at Add.
	Color color.RGBA

	// Artifacts is owned by the display; the cache hands it back on
	// Remove/Clear so it is released exactly once.
	Artifacts Artifact
}

// Event identifies cache notifications.
type Event int

const (
	EventAdded Event = iota
	EventRenamed
	EventRemoved
	EventCleared
)

// EventData accompanies a notification. OldName is set for EventRenamed.
type EventData struct {
	Name    string
	OldName string
	Entry   *Spectrum
}

// Listener is called synchronously when a cache event occurs.
type Listener func(EventData)

// Cache maps unique display names to plotted spectra. Auto-assigned names
// use monotonically increasing per-variant counters that are never reused,
// except after a full Clear which resets both.
type Cache struct {
	entries map[string]*Spectrum
	order   []string

	singleCount int
	areaCount   int

	listeners map[Event][]Listener
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries:   make(map[string]*Spectrum),
		listeners: make(map[Event][]Listener),
	}
}

// On registers a listener for the given event.
func (c *Cache) On(event Event, l Listener) {
	c.listeners[event] = append(c.listeners[event], l)
}

func (c *Cache) emit(event Event, data EventData) {
	for _, l := range c.listeners[event] {
		l(data)
	}
}

// Add inserts a spectrum and returns its name. An empty Name gets the next
// auto name for the entry's variant; a caller-supplied name colliding with
// an existing key fails with ErrDuplicateName and mutates nothing.
func (c *Cache) Add(s *Spectrum) (string, error) {
	if s.Name == "" {
		s.Name = c.nextName(s.Kind)
	} else if _, exists := c.entries[s.Name]; exists {
		return "", fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
	}

	if (s.Color == color.RGBA{}) {
		s.Color = paletteColor(len(c.order))
	}

	c.entries[s.Name] = s
	c.order = append(c.order, s.Name)
	c.emit(EventAdded, EventData{Name: s.Name, Entry: s})
	return s.Name, nil
}

// Rename re-keys an entry atomically. Renaming a name to itself is a no-op.
// The entry's artifacts keep their identity; listeners refresh labels.
func (c *Cache) Rename(oldName, newName string) error {
	entry, ok := c.entries[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	if newName == oldName {
		return nil
	}
	if _, exists := c.entries[newName]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}

	delete(c.entries, oldName)
	entry.Name = newName
	c.entries[newName] = entry
	for i, n := range c.order {
		if n == oldName {
			c.order[i] = newName
			break
		}
	}

	c.emit(EventRenamed, EventData{Name: newName, OldName: oldName, Entry: entry})
	return nil
}

// Remove deletes an entry and returns it so the caller can release its
// artifacts. The contract is strict: no artifact survives a removed entry.
func (c *Cache) Remove(name string) (*Spectrum, error) {
	entry, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	delete(c.entries, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	c.emit(EventRemoved, EventData{Name: name, Entry: entry})
	return entry, nil
}

// Clear removes every entry and resets both auto-name counters, returning
// the removed entries in insertion order for artifact release. The next Add
// after a Clear starts over at SPECTRUM_01 / AREA_01.
func (c *Cache) Clear() []*Spectrum {
	removed := make([]*Spectrum, 0, len(c.order))
	for _, name := range c.order {
		removed = append(removed, c.entries[name])
	}

	c.entries = make(map[string]*Spectrum)
	c.order = nil
	c.singleCount = 0
	c.areaCount = 0

	c.emit(EventCleared, EventData{})
	return removed
}

// Get returns the entry for name, or ErrNotFound.
func (c *Cache) Get(name string) (*Spectrum, error) {
	entry, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return entry, nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Names returns the entry names in insertion order.
func (c *Cache) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Snapshot returns a shallow copy of all entries in insertion order. The
// copy is safe to hand to an exporter: the cache is single-threaded, so
// nothing mutates underneath it during the export call.
func (c *Cache) Snapshot() []*Spectrum {
	out := make([]*Spectrum, 0, len(c.order))
	for _, name := range c.order {
		entry := *c.entries[name]
		out = append(out, &entry)
	}
	return out
}

// nextName advances the variant counter to the first name not already in
// the cache, so a rename onto a future auto name never gets overwritten.
func (c *Cache) nextName(k Kind) string {
	counter, format := &c.singleCount, "SPECTRUM_%02d"
	if k == AreaMean {
		counter, format = &c.areaCount, "AREA_%02d"
	}
	for {
		*counter++
		name := fmt.Sprintf(format, *counter)
		if _, taken := c.entries[name]; !taken {
			return name
		}
	}
}

// paletteColor assigns distinct, readable line colors by stepping the hue
// with the golden angle.
func paletteColor(n int) color.RGBA {
	hue := float64(n * 137) // golden angle in degrees
	for hue >= 360 {
		hue -= 360
	}
	r, g, b := colorful.Hsv(hue, 0.85, 0.85).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
