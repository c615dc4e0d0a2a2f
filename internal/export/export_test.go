package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specview/internal/speccache"
	"specview/pkg/geometry"
)

func populatedCache(t *testing.T) *speccache.Cache {
	t.Helper()
	c := speccache.New()

	_, err := c.Add(&speccache.Spectrum{
		Kind:  speccache.SinglePixel,
		Data:  []float64{0.1, 0.2, 0.3},
		Coord: geometry.PixelCoordinate{X: 5, Y: 7},
	})
	require.NoError(t, err)

	_, err = c.Add(&speccache.Spectrum{
		Kind:   speccache.AreaMean,
		Data:   []float64{1, 2, 3},
		Err:    []float64{0.5, 0.25, 0},
		Coords: []geometry.PixelCoordinate{{X: 2, Y: 2}, {X: 4, Y: 2}},
		N:      2,
	})
	require.NoError(t, err)
	return c
}

var testWvls = []float64{450, 550, 650}

func TestNewSessionEmpty(t *testing.T) {
	_, err := NewSession(speccache.New(), testWvls, "", geometry.SquareOffset{}, time.Now())
	assert.ErrorIs(t, err, ErrNoSpectra)
}

func TestNewSessionGroupNaming(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC)
	s, err := NewSession(populatedCache(t), testWvls, "/data/scene.bsq", geometry.SquareOffset{}, now)
	require.NoError(t, err)

	assert.Equal(t, "save_03092024T140530", s.Group)
	assert.Equal(t, "/data/scene.bsq", s.CubePath)
	assert.Equal(t, testWvls, s.Wavelengths)
	require.Len(t, s.Entries, 2)
}

func TestNewSessionFlattensProvenance(t *testing.T) {
	s, err := NewSession(populatedCache(t), testWvls, "", geometry.SquareOffset{}, time.Now())
	require.NoError(t, err)

	single := s.Entries[0]
	assert.Equal(t, "SPECTRUM_01", single.Name)
	assert.Equal(t, "single", single.Kind)
	assert.Equal(t, [][2]int{{5, 7}}, single.Coords)
	assert.Empty(t, single.Error)
	assert.Zero(t, single.N)

	area := s.Entries[1]
	assert.Equal(t, "AREA_01", area.Name)
	assert.Equal(t, "area", area.Kind)
	assert.Equal(t, [][2]int{{2, 2}, {4, 2}}, area.Coords)
	assert.Equal(t, []float64{0.5, 0.25, 0}, area.Error)
	assert.Equal(t, 2, area.N)
}

func TestSessionJSONRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC)
	s, err := NewSession(populatedCache(t), testWvls, "scene.bsq", geometry.SquareOffset{}, now)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sessions", s.Group+".json")
	require.NoError(t, s.WriteJSON(path))

	got, err := ReadSession(path)
	require.NoError(t, err)
	assert.Equal(t, s.Group, got.Group)
	assert.True(t, s.SavedAt.Equal(got.SavedAt))
	assert.Equal(t, s.Wavelengths, got.Wavelengths)
	assert.Equal(t, s.Entries, got.Entries)
}

func TestReadSessionErrors(t *testing.T) {
	_, err := ReadSession(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadSession(bad)
	assert.Error(t, err)
}

func TestWriteCSVs(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC)
	s, err := NewSession(populatedCache(t), testWvls, "", geometry.SquareOffset{}, now)
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := s.WriteCSVs(dir, geometry.GeoTransform{})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(dir, s.Group+"_SPECTRUM_01.csv"), paths[0])
	assert.Equal(t, filepath.Join(dir, s.Group+"_AREA_01.csv"), paths[1])

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, []string{
		"# name: SPECTRUM_01",
		"# kind: single",
		"# coord: x=5 y=7",
		"wavelength,value",
		"450,0.1",
		"550,0.2",
		"650,0.3",
	}, lines)

	raw, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, []string{
		"# name: AREA_01",
		"# kind: area",
		"# pixels: 2",
		"# centroid: x=3 y=2",
		"wavelength,value,stddev",
		"450,1,0.5",
		"550,2,0.25",
		"650,3,0",
	}, lines)
}

func TestSessionCoordsMatchCSVHeaders(t *testing.T) {
	// Display-to-data offset of a padded cube, plus a 10m grid at (1000, 2000).
	offset := geometry.SquareOffset{X: -1, Y: 0}
	geo := geometry.GeoTransform{1000, 10, 0, 2000, 0, -10}

	s, err := NewSession(populatedCache(t), testWvls, "", offset, time.Now())
	require.NoError(t, err)

	// The container already carries cube-space coordinates.
	assert.Equal(t, [][2]int{{4, 7}}, s.Entries[0].Coords)
	assert.Equal(t, [][2]int{{1, 2}, {3, 2}}, s.Entries[1].Coords)

	// The CSV headers report the same pixels, plus geographic positions.
	paths, err := s.WriteCSVs(t.TempDir(), geo)
	require.NoError(t, err)

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# coord: x=4 y=7 lon=1040 lat=1930")

	raw, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# centroid: x=2 y=2 lon=1020 lat=1980")
}
