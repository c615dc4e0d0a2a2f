package cube

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// cubeHandler reads a cube out of one file format.
type cubeHandler func(path string) (*Cube, error)

var cubeHandlers = map[string]cubeHandler{
	".bsq":  readENVICube,
	".img":  readENVICube,
	".tif":  readTIFFCube,
	".tiff": readTIFFCube,
}

// Load reads a spectral cube from path, dispatching on the file extension.
// The axis contract is fixed: row-major image, bands last. Unknown
// extensions fail with ErrUnsupportedFormat.
func Load(path string) (*Cube, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cube file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	handler, ok := cubeHandlers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return handler(path)
}

// CubeFormats returns the supported cube file extensions.
func CubeFormats() []string {
	return []string{".bsq", ".img", ".tif", ".tiff"}
}

// readTIFFCube decodes a generic raster into a cube: grayscale images become
// a single band, everything else three bands (R, G, B). Sample values keep
// their 16-bit range.
func readTIFFCube(path string) (*Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()

	gray := isGrayscale(img)
	bands := 3
	if gray {
		bands = 1
	}

	data := make([]float64, rows*cols*bands)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cr, cg, cb, _ := img.At(bounds.Min.X+c, bounds.Min.Y+r).RGBA()
			i := (r*cols + c) * bands
			if gray {
				data[i] = float64(cr)
			} else {
				data[i] = float64(cr)
				data[i+1] = float64(cg)
				data[i+2] = float64(cb)
			}
		}
	}
	maskNoData(data)

	c, err := New(rows, cols, bands, data)
	if err != nil {
		return nil, err
	}
	c.Path = path
	return c, nil
}

func isGrayscale(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}
