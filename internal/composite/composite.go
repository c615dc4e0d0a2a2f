// Package composite builds pseudo-RGB images from three cube bands with
// independent per-channel contrast bounds. Channel slices and the combined
// scaled image are cached and invalidated exactly as precisely as the
// mutation requires: a bounds change keeps the raw slice, an index change
// drops both.
package composite

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"specview/internal/cube"
	"specview/internal/spectral"
)

var (
	// ErrIndexOutOfRange is returned for band indices outside the cube.
	ErrIndexOutOfRange = errors.New("band index out of range")

	// ErrInvalidRange is returned for inverted contrast bounds. The
	// previous bounds are retained.
	ErrInvalidRange = errors.New("invalid contrast range")
)

// Channel identifies one of the three composite channels.
type Channel int

const (
	ChannelR Channel = iota
	ChannelG
	ChannelB
)

func (c Channel) String() string {
	switch c {
	case ChannelR:
		return "red"
	case ChannelG:
		return "green"
	case ChannelB:
		return "blue"
	default:
		return "unknown"
	}
}

type channelState struct {
	idx       int
	low, high float64
	slice     []float64 // cached raw band plane, nil when stale
	version   uint64    // bumped on every index or bounds mutation
}

// ThreeBandRGB owns a read-only cube reference and the three band choices
// that drive the composite.
type ThreeBandRGB struct {
	cube *cube.Cube
	ch   [3]channelState

	scaled  []float64 // cached H×W×3 composite in [0,1], nil when stale
	version uint64    // bumped with every invalidation; staleness is checkable
}

// New creates a compositor over the given bands. Each channel's contrast
// bounds initialize to the finite extrema of its band slice.
func New(c *cube.Cube, ridx, gidx, bidx int) (*ThreeBandRGB, error) {
	t := &ThreeBandRGB{cube: c}
	for ch, idx := range map[Channel]int{ChannelR: ridx, ChannelG: gidx, ChannelB: bidx} {
		if err := t.SetBandIndex(ch, idx); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SetBandIndex points a channel at a new band. The channel's bounds are
// recomputed from the new slice's extrema, and both the channel slice cache
// and the combined composite are invalidated. Out-of-range indices are
// rejected with no mutation.
func (t *ThreeBandRGB) SetBandIndex(ch Channel, idx int) error {
	if idx < 0 || idx >= t.cube.Bands {
		return fmt.Errorf("%w: %d (cube has %d bands)", ErrIndexOutOfRange, idx, t.cube.Bands)
	}

	slice := t.cube.Band(idx)
	low, high, err := spectral.Extrema(slice)
	if err != nil {
		return fmt.Errorf("%s channel band %d: %w", ch, idx, err)
	}

	s := &t.ch[ch]
	s.idx = idx
	s.low, s.high = low, high
	s.slice = slice
	s.version++
	t.invalidate()
	return nil
}

// SetBounds replaces a channel's contrast bounds. Only the normalization is
// invalidated; the raw slice cache survives. An inverted pair is rejected
// and the previous bounds retained.
func (t *ThreeBandRGB) SetBounds(ch Channel, low, high float64) error {
	if high <= low {
		return fmt.Errorf("%w: [%g, %g)", ErrInvalidRange, low, high)
	}

	s := &t.ch[ch]
	s.low, s.high = low, high
	s.version++
	t.invalidate()
	return nil
}

// BandIndex returns a channel's current band index.
func (t *ThreeBandRGB) BandIndex(ch Channel) int {
	return t.ch[ch].idx
}

// Bounds returns a channel's current contrast bounds.
func (t *ThreeBandRGB) Bounds(ch Channel) (low, high float64) {
	return t.ch[ch].low, t.ch[ch].high
}

// ChannelSlice returns the channel's raw band plane, loading it on first
// use after an index change.
func (t *ThreeBandRGB) ChannelSlice(ch Channel) []float64 {
	s := &t.ch[ch]
	if s.slice == nil {
		s.slice = t.cube.Band(s.idx)
	}
	return s.slice
}

// ChannelVersion returns the channel's mutation counter, for staleness
// checks by callers that mirror the composite elsewhere.
func (t *ThreeBandRGB) ChannelVersion(ch Channel) uint64 {
	return t.ch[ch].version
}

// Version returns the composite's mutation counter.
func (t *ThreeBandRGB) Version() uint64 {
	return t.version
}

// Shape returns the spatial dimensions of the composite.
func (t *ThreeBandRGB) Shape() (rows, cols int) {
	return t.cube.Rows, t.cube.Cols
}

// ScaledComposite returns the H×W×3 composite with each channel clipped and
// normalized to [0, 1] by its bounds. The result is cached until the next
// invalidation; callers must not mutate it.
func (t *ThreeBandRGB) ScaledComposite() []float64 {
	if t.scaled != nil {
		return t.scaled
	}

	rows, cols := t.cube.Rows, t.cube.Cols
	out := make([]float64, rows*cols*3)
	for ch := ChannelR; ch <= ChannelB; ch++ {
		slice := t.ChannelSlice(ch)
		s := &t.ch[ch]
		span := s.high - s.low
		for i, v := range slice {
			out[i*3+int(ch)] = normalize(v, s.low, span)
		}
	}
	t.scaled = out
	return out
}

// Image renders the scaled composite as an 8-bit RGBA image. NaN pixels
// come out black.
func (t *ThreeBandRGB) Image() *image.RGBA {
	rows, cols := t.cube.Rows, t.cube.Cols
	scaled := t.ScaledComposite()

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := (r*cols + c) * 3
			img.SetRGBA(c, r, color.RGBA{
				R: toByte(scaled[i]),
				G: toByte(scaled[i+1]),
				B: toByte(scaled[i+2]),
				A: 255,
			})
		}
	}
	return img
}

func (t *ThreeBandRGB) invalidate() {
	t.scaled = nil
	t.version++
}

// normalize clips v into [low, low+span) and maps it to [0, 1]. NaN passes
// through so padding stays distinguishable from data.
func normalize(v, low, span float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	scaled := (v - low) / span
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(v * 255)
}
