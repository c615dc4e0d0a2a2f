package cube

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeENVIPair writes a raw cube and its sidecar header into one temp
// directory and returns the cube path.
func writeENVIPair(t *testing.T, name, header string, raw []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	require.NoError(t, os.WriteFile(path+".hdr", []byte(header), 0o644))
	return path
}

func float32LE(vals ...float32) []byte {
	raw := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	return raw
}

func float64BE(vals ...float64) []byte {
	raw := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.BigEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	return raw
}

func TestReadENVICubeBSQ(t *testing.T) {
	// 2 rows, 2 cols, 2 bands in band-sequential order: band 0 plane
	// then band 1 plane.
	raw := float32LE(
		1, 2, 3, 4,
		10, 20, 30, 40,
	)
	header := "ENVI\nsamples = 2\nlines = 2\nbands = 2\ndata type = 4\ninterleave = bsq\nbyte order = 0\n"

	c, err := readENVICube(writeENVIPair(t, "scene.bsq", header, raw))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Rows)
	assert.Equal(t, 2, c.Cols)
	assert.Equal(t, 2, c.Bands)
	assert.Equal(t, []float64{1, 10}, c.Spectrum(0, 0))
	assert.Equal(t, []float64{4, 40}, c.Spectrum(1, 1))
	assert.True(t, c.Geo.IsZero())
}

func TestReadENVICubeBILFloat64BigEndian(t *testing.T) {
	// 1 row, 2 cols, 2 bands, band-interleaved-by-line:
	// [row0 band0: c0 c1][row0 band1: c0 c1]
	raw := float64BE(1.5, 2.5, 100, 200)
	header := "ENVI\nsamples = 2\nlines = 1\nbands = 2\ndata type = 5\ninterleave = bil\nbyte order = 1\n"

	c, err := readENVICube(writeENVIPair(t, "scene.img", header, raw))
	require.NoError(t, err)

	assert.Equal(t, []float64{1.5, 100}, c.Spectrum(0, 0))
	assert.Equal(t, []float64{2.5, 200}, c.Spectrum(0, 1))
}

func TestReadENVICubeHeaderOffset(t *testing.T) {
	raw := append(make([]byte, 16), float32LE(7)...)
	header := "samples = 1\nlines = 1\nbands = 1\ndata type = 4\ninterleave = bip\nheader offset = 16\n"

	c, err := readENVICube(writeENVIPair(t, "scene.bsq", header, raw))
	require.NoError(t, err)
	assert.Equal(t, 7.0, c.At(0, 0, 0))
}

func TestReadENVICubeMasksNoData(t *testing.T) {
	raw := float32LE(5, NoDataValue)
	header := "samples = 2\nlines = 1\nbands = 1\ndata type = 4\ninterleave = bip\n"

	c, err := readENVICube(writeENVIPair(t, "scene.bsq", header, raw))
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.At(0, 0, 0))
	assert.True(t, math.IsNaN(c.At(0, 1, 0)))
}

func TestReadENVICubeTruncatedFile(t *testing.T) {
	raw := float32LE(1, 2) // header promises 4 samples
	header := "samples = 2\nlines = 2\nbands = 1\ndata type = 4\n"

	_, err := readENVICube(writeENVIPair(t, "scene.bsq", header, raw))
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadENVICubeBadDataType(t *testing.T) {
	header := "samples = 1\nlines = 1\nbands = 1\ndata type = 2\n"
	_, err := readENVICube(writeENVIPair(t, "scene.bsq", header, []byte{0, 0}))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadENVIHeaderMapInfo(t *testing.T) {
	header := "samples = 3\nlines = 2\nbands = 1\ndata type = 4\n" +
		"map info = {UTM, 1.0, 1.0, 500000.0, 4000000.0, 30.0, 30.0, 12, North}\n"
	path := writeTemp(t, "scene.hdr", []byte(header))

	hdr, err := readENVIHeader(path)
	require.NoError(t, err)
	require.False(t, hdr.geo.IsZero())

	lon, lat := hdr.geo.Forward(0, 0)
	assert.InDelta(t, 500000.0, lon, 1e-9)
	assert.InDelta(t, 4000000.0, lat, 1e-9)

	lon, lat = hdr.geo.Forward(2, 1)
	assert.InDelta(t, 500060.0, lon, 1e-9)
	assert.InDelta(t, 3999970.0, lat, 1e-9)
}

func TestReadENVIHeaderMissingDimensions(t *testing.T) {
	path := writeTemp(t, "scene.hdr", []byte("samples = 3\nbands = 1\n"))
	_, err := readENVIHeader(path)
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadENVIHeaderBadInteger(t *testing.T) {
	path := writeTemp(t, "scene.hdr", []byte("samples = many\nlines = 1\nbands = 1\n"))
	_, err := readENVIHeader(path)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseENVIFieldsMultiline(t *testing.T) {
	fields := parseENVIFields("description = {a long\n  free text\n  value}\nsamples = 4\n")
	assert.Equal(t, "a long free text value", fields["description"])
	assert.Equal(t, "4", fields["samples"])
}

func TestSidecarHeaderPathPrefersFullName(t *testing.T) {
	dir := t.TempDir()
	cube := filepath.Join(dir, "scene.bsq")
	full := cube + ".hdr"
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.hdr"), []byte("x"), 0o644))

	assert.Equal(t, full, sidecarHeaderPath(cube))
}

func TestSidecarHeaderPathFallsBack(t *testing.T) {
	cube := filepath.Join(t.TempDir(), "scene.bsq")
	assert.Equal(t, filepath.Join(filepath.Dir(cube), "scene.hdr"), sidecarHeaderPath(cube))
}

func TestInterleaveToBIPUnknown(t *testing.T) {
	assert.Nil(t, interleaveToBIP([]float64{1}, 1, 1, 1, "bippy"))
}
