package cube

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"specview/pkg/geometry"
)

// enviHeader holds the fields of an ENVI .hdr sidecar that the loader needs.
type enviHeader struct {
	samples    int // columns
	lines      int // rows
	bands      int
	dataType   int // 4 = float32, 5 = float64
	interleave string
	byteOrder  int // 0 = little endian, 1 = big endian
	headerOff  int
	geo        geometry.GeoTransform
}

// readENVICube reads a raw ENVI cube (.bsq/.img) described by its sidecar
// header. The returned cube is always band-interleaved-by-pixel regardless
// of the file's interleave.
func readENVICube(path string) (*Cube, error) {
	hdr, err := readENVIHeader(sidecarHeaderPath(path))
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) < hdr.headerOff {
		return nil, fmt.Errorf("%w: file shorter than header offset", ErrParse)
	}
	raw = raw[hdr.headerOff:]

	var sampleSize int
	switch hdr.dataType {
	case 4:
		sampleSize = 4
	case 5:
		sampleSize = 8
	default:
		return nil, fmt.Errorf("%w: ENVI data type %d", ErrUnsupportedFormat, hdr.dataType)
	}

	n := hdr.samples * hdr.lines * hdr.bands
	if len(raw) < n*sampleSize {
		return nil, fmt.Errorf("%w: %d bytes for %d samples", ErrParse, len(raw), n)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if hdr.byteOrder == 1 {
		order = binary.BigEndian
	}

	flat := make([]float64, n)
	for i := range flat {
		off := i * sampleSize
		if hdr.dataType == 4 {
			flat[i] = float64(math.Float32frombits(order.Uint32(raw[off:])))
		} else {
			flat[i] = math.Float64frombits(order.Uint64(raw[off:]))
		}
	}

	data := interleaveToBIP(flat, hdr.lines, hdr.samples, hdr.bands, hdr.interleave)
	if data == nil {
		return nil, fmt.Errorf("%w: interleave %q", ErrUnsupportedFormat, hdr.interleave)
	}
	maskNoData(data)

	c, err := New(hdr.lines, hdr.samples, hdr.bands, data)
	if err != nil {
		return nil, err
	}
	c.Geo = hdr.geo
	c.Path = path
	return c, nil
}

// interleaveToBIP reorders a flat sample array from the file's interleave
// into band-interleaved-by-pixel. Returns nil for unknown interleaves.
func interleaveToBIP(flat []float64, rows, cols, bands int, interleave string) []float64 {
	out := make([]float64, len(flat))
	switch interleave {
	case "bip":
		copy(out, flat)
	case "bsq":
		// band-major: [band][row][col]
		for b := 0; b < bands; b++ {
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					out[(r*cols+c)*bands+b] = flat[(b*rows+r)*cols+c]
				}
			}
		}
	case "bil":
		// row-major with bands per line: [row][band][col]
		for r := 0; r < rows; r++ {
			for b := 0; b < bands; b++ {
				for c := 0; c < cols; c++ {
					out[(r*cols+c)*bands+b] = flat[(r*bands+b)*cols+c]
				}
			}
		}
	default:
		return nil
	}
	return out
}

// sidecarHeaderPath finds the .hdr companion of a raw cube file. Both
// "cube.bsq.hdr" and "cube.hdr" conventions occur in the wild; prefer the
// first that exists.
func sidecarHeaderPath(path string) string {
	if p := path + ".hdr"; fileExists(p) {
		return p
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".hdr"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readENVIHeader parses the key = value fields of an ENVI header.
func readENVIHeader(path string) (enviHeader, error) {
	hdr := enviHeader{interleave: "bsq"}

	raw, err := os.ReadFile(path)
	if err != nil {
		return hdr, fmt.Errorf("ENVI header: %w", err)
	}

	fields := parseENVIFields(string(raw))
	var convErr error
	atoi := func(key string, dst *int) {
		if v, ok := fields[key]; ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				convErr = fmt.Errorf("%w: %s = %q", ErrParse, key, v)
				return
			}
			*dst = n
		}
	}

	atoi("samples", &hdr.samples)
	atoi("lines", &hdr.lines)
	atoi("bands", &hdr.bands)
	atoi("data type", &hdr.dataType)
	atoi("byte order", &hdr.byteOrder)
	atoi("header offset", &hdr.headerOff)
	if convErr != nil {
		return hdr, convErr
	}

	if v, ok := fields["interleave"]; ok {
		hdr.interleave = strings.ToLower(strings.TrimSpace(v))
	}

	if hdr.samples <= 0 || hdr.lines <= 0 || hdr.bands <= 0 {
		return hdr, fmt.Errorf("%w: missing samples/lines/bands", ErrParse)
	}

	if v, ok := fields["map info"]; ok {
		hdr.geo = parseMapInfo(v)
	}

	return hdr, nil
}

// parseENVIFields splits an ENVI header into lowercase key → value pairs.
// Brace-enclosed values may span lines.
func parseENVIFields(s string) map[string]string {
	fields := make(map[string]string)
	lines := strings.Split(s, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		val := strings.TrimSpace(line[eq+1:])

		if strings.HasPrefix(val, "{") && !strings.Contains(val, "}") {
			for i+1 < len(lines) {
				i++
				val += " " + strings.TrimSpace(lines[i])
				if strings.Contains(lines[i], "}") {
					break
				}
			}
		}
		val = strings.TrimSuffix(strings.TrimPrefix(val, "{"), "}")
		fields[key] = strings.TrimSpace(val)
	}
	return fields
}

// parseMapInfo builds a GeoTransform from an ENVI map info field:
// projection, ref pixel x, ref pixel y, ref easting, ref northing,
// x size, y size, ... Pixel coordinates in map info are 1-based.
func parseMapInfo(v string) geometry.GeoTransform {
	parts := strings.Split(v, ",")
	if len(parts) < 7 {
		return geometry.GeoTransform{}
	}

	f := func(i int) (float64, bool) {
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		return x, err == nil
	}

	refX, ok1 := f(1)
	refY, ok2 := f(2)
	east, ok3 := f(3)
	north, ok4 := f(4)
	xSize, ok5 := f(5)
	ySize, ok6 := f(6)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) || xSize == 0 || ySize == 0 {
		return geometry.GeoTransform{}
	}

	return geometry.GeoTransform{
		east - (refX-1)*xSize, xSize, 0,
		north + (refY-1)*ySize, 0, -ySize,
	}
}
