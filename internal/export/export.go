// Package export writes collected spectra to disk: one CSV per spectrum,
// a JSON session container holding every entry, and an HTML chart report
// rendered from a session file.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"specview/internal/speccache"
	"specview/pkg/geometry"
)

// ErrNoSpectra is returned when an export is requested with an empty cache.
var ErrNoSpectra = errors.New("export: no spectra collected")

// sessionTimeLayout matches the original save-group naming.
const sessionTimeLayout = "01022006T150405"

// Session is the on-disk container for one save operation. Group names the
// save and doubles as the key a later report run selects by.
type Session struct {
	Group       string    `json:"group"`
	SavedAt     time.Time `json:"saved_at"`
	CubePath    string    `json:"cube_path,omitempty"`
	Wavelengths []float64 `json:"wvls"`
	Entries     []Entry   `json:"entries"`
}

// Entry is one cached spectrum flattened for serialization. Coords are in
// source-cube space, the display padding already subtracted out, so the
// container and the per-spectrum CSVs agree on provenance. Error and the
// full coordinate list are present only for area spectra, mirroring the
// sibling-dataset layout of the original format.
type Entry struct {
	Name   string    `json:"name"`
	Kind   string    `json:"kind"`
	Data   []float64 `json:"data"`
	Error  []float64 `json:"error,omitempty"`
	Coords [][2]int  `json:"coords,omitempty"`
	N      int       `json:"n,omitempty"`
}

// NewSession snapshots a cache into a serializable session, mapping every
// coordinate from the padded display frame into cube space via offset. The
// group name is derived from now so repeated saves never collide within a
// second.
func NewSession(c *speccache.Cache, wavelengths []float64, cubePath string, offset geometry.SquareOffset, now time.Time) (*Session, error) {
	entries := c.Snapshot()
	if len(entries) == 0 {
		return nil, ErrNoSpectra
	}
	s := &Session{
		Group:       "save_" + now.Format(sessionTimeLayout),
		SavedAt:     now,
		CubePath:    cubePath,
		Wavelengths: append([]float64(nil), wavelengths...),
		Entries:     make([]Entry, 0, len(entries)),
	}
	for _, sp := range entries {
		s.Entries = append(s.Entries, flatten(sp, offset))
	}
	return s, nil
}

func flatten(sp *speccache.Spectrum, offset geometry.SquareOffset) Entry {
	e := Entry{
		Name: sp.Name,
		Kind: sp.Kind.String(),
		Data: append([]float64(nil), sp.Data...),
	}
	switch sp.Kind {
	case speccache.SinglePixel:
		c := sp.Coord.WithOffset(offset)
		e.Coords = [][2]int{{c.X, c.Y}}
	case speccache.AreaMean:
		e.Error = append([]float64(nil), sp.Err...)
		e.N = sp.N
		e.Coords = make([][2]int, 0, len(sp.Coords))
		for _, c := range sp.Coords {
			c = c.WithOffset(offset)
			e.Coords = append(e.Coords, [2]int{c.X, c.Y})
		}
	}
	return e
}

// WriteJSON writes the session to path, creating parent directories.
func (s *Session) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: create directory: %w", err)
	}
	buf, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode session: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("export: write session: %w", err)
	}
	return nil
}

// ReadSession loads a session container previously written by WriteJSON.
func ReadSession(path string) (*Session, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(buf, &s); err != nil {
		return nil, fmt.Errorf("export: decode session %s: %w", path, err)
	}
	return &s, nil
}

// WriteCSVs writes one CSV per entry into dir, named <group>_<name>.csv.
// Single spectra get wavelength,value rows; area spectra add a stddev
// column. It returns the paths written.
func (s *Session) WriteCSVs(dir string, geo geometry.GeoTransform) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create directory: %w", err)
	}
	paths := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		p := filepath.Join(dir, s.Group+"_"+e.Name+".csv")
		if err := writeEntryCSV(p, s.Wavelengths, e, geo); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeEntryCSV(path string, wvls []float64, e Entry, geo geometry.GeoTransform) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	for _, line := range headerComments(e, geo) {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return fmt.Errorf("export: write %s: %w", path, err)
		}
	}

	w := csv.NewWriter(f)
	header := []string{"wavelength", "value"}
	if e.Kind == speccache.AreaMean.String() {
		header = append(header, "stddev")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	for i, v := range e.Data {
		rec := []string{formatFloat(wvls[i]), formatFloat(v)}
		if len(header) == 3 {
			rec = append(rec, formatFloat(e.Error[i]))
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("export: write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}

// headerComments describes the entry above the CSV table. Entry coordinates
// are already in cube space; geographic positions are added when a
// geotransform is available.
func headerComments(e Entry, geo geometry.GeoTransform) []string {
	lines := []string{
		"# name: " + e.Name,
		"# kind: " + e.Kind,
	}
	if e.N > 0 {
		lines = append(lines, "# pixels: "+strconv.Itoa(e.N))
	}
	if len(e.Coords) == 0 {
		return lines
	}
	// Single spectra report their pixel; areas report the selection centroid.
	// The full coordinate list lives in the session container.
	var cx, cy float64
	for _, c := range e.Coords {
		cx += float64(c[0])
		cy += float64(c[1])
	}
	cx /= float64(len(e.Coords))
	cy /= float64(len(e.Coords))
	label := "coord"
	if e.Kind == speccache.AreaMean.String() {
		label = "centroid"
	}
	line := fmt.Sprintf("# %s: x=%s y=%s", label, formatFloat(cx), formatFloat(cy))
	if !geo.IsZero() {
		gx, gy := geo.Forward(cx, cy)
		line += fmt.Sprintf(" lon=%s lat=%s", formatFloat(gx), formatFloat(gy))
	}
	return append(lines, line)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
