package composite

import (
	"image"
	"image/color"

	"specview/internal/cube"
	"specview/internal/spectral"
)

// GrayBand renders one band of a cube as a grayscale image with a linear
// contrast stretch. It caches the rendered image until the band or bounds
// change.
type GrayBand struct {
	cube *cube.Cube

	idx       int
	low, high float64

	img     *image.RGBA
	version uint64
}

// NewGrayBand builds a grayscale view of band idx with bounds at the
// band's finite extrema.
func NewGrayBand(c *cube.Cube, idx int) (*GrayBand, error) {
	g := &GrayBand{cube: c, idx: -1}
	if err := g.SetBandIndex(idx); err != nil {
		return nil, err
	}
	return g, nil
}

// SetBandIndex switches the displayed band and resets the stretch bounds
// to the new band's extrema.
func (g *GrayBand) SetBandIndex(idx int) error {
	if idx < 0 || idx >= g.cube.Bands {
		return ErrIndexOutOfRange
	}
	if idx == g.idx {
		return nil
	}
	g.idx = idx

	low, high, err := spectral.Extrema(g.cube.Band(idx))
	if err != nil {
		low, high = 0, 1
	}
	g.low, g.high = low, high
	g.img = nil
	g.version++
	return nil
}

// SetBounds updates the stretch bounds.
func (g *GrayBand) SetBounds(low, high float64) error {
	if high <= low {
		return ErrInvalidRange
	}
	g.low, g.high = low, high
	g.img = nil
	g.version++
	return nil
}

// BandIndex returns the displayed band.
func (g *GrayBand) BandIndex() int { return g.idx }

// Bounds returns the stretch bounds.
func (g *GrayBand) Bounds() (low, high float64) { return g.low, g.high }

// Version increments whenever the rendered image changes.
func (g *GrayBand) Version() uint64 { return g.version }

// Shape returns the image dimensions.
func (g *GrayBand) Shape() (rows, cols int) {
	return g.cube.Rows, g.cube.Cols
}

// Image returns the rendered grayscale image. Masked values render black.
func (g *GrayBand) Image() *image.RGBA {
	if g.img != nil {
		return g.img
	}

	rows, cols := g.cube.Rows, g.cube.Cols
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	span := g.high - g.low
	plane := g.cube.Band(g.idx)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := plane[r*cols+c]
			var px uint8
			if v == v {
				px = toByte(normalize(v, g.low, span))
			}
			img.SetRGBA(c, r, color.RGBA{R: px, G: px, B: px, A: 255})
		}
	}
	g.img = img
	return img
}
