package cube

import (
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// wvlHandler reads a wavelength array out of one file format.
type wvlHandler func(path string) ([]float64, error)

// wvlHandlers maps lowercase extensions to handlers. Dispatch is purely by
// extension, matching the loader contract.
var wvlHandlers = map[string]wvlHandler{
	".wvl": readWvlFile,
	".hdr": readHdrWavelengths,
	".txt": readTxtWavelengths,
	".csv": readCSVWavelengths,
}

// LoadWavelengths reads a 1D wavelength array from path, dispatching on the
// file extension. Unknown extensions fail with ErrUnsupportedFormat.
func LoadWavelengths(path string) ([]float64, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("wavelength file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	handler, ok := wvlHandlers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return handler(path)
}

// WavelengthFormats returns the supported wavelength file extensions.
func WavelengthFormats() []string {
	return []string{".wvl", ".hdr", ".txt", ".csv"}
}

// readWvlFile reads a raw .wvl file: consecutive little-endian float64
// values, nothing else.
func readWvlFile(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || len(raw)%8 != 0 {
		return nil, fmt.Errorf("%w: .wvl length %d is not a float64 sequence", ErrParse, len(raw))
	}

	vals := make([]float64, len(raw)/8)
	for i := range vals {
		bits := binary.LittleEndian.Uint64(raw[i*8:])
		vals[i] = math.Float64frombits(bits)
	}
	return vals, nil
}

var hdrWvlPattern = regexp.MustCompile(`wavelength\s*=\s*\{([^}]*)\}`)

// readHdrWavelengths extracts the wavelength field from an ENVI header.
func readHdrWavelengths(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := hdrWvlPattern.FindSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: no wavelength field in %s", ErrParse, filepath.Base(path))
	}
	return parseFloatList(string(m[1]))
}

// readTxtWavelengths reads a comma-separated list of values. A trailing
// blank entry is tolerated.
func readTxtWavelengths(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFloatList(string(raw))
}

// readCSVWavelengths reads a CSV with a header row; the column named
// "wavelength" (case-insensitive) carries the values.
func readCSVWavelengths(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: csv has no data rows", ErrParse)
	}

	col := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "wavelength") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: no wavelength column", ErrParse)
	}

	vals := make([]float64, 0, len(records)-1)
	for _, rec := range records[1:] {
		if col >= len(rec) {
			return nil, fmt.Errorf("%w: short csv row", ErrParse)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// parseFloatList parses comma-separated floats, ignoring blank entries.
func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: no values", ErrParse)
	}
	return vals, nil
}
