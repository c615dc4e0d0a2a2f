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

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadWavelengthsWvl(t *testing.T) {
	want := []float64{450.5, 550, 650.25}
	raw := make([]byte, len(want)*8)
	for i, v := range want {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}

	got, err := LoadWavelengths(writeTemp(t, "axis.wvl", raw))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadWavelengthsWvlBadLength(t *testing.T) {
	_, err := LoadWavelengths(writeTemp(t, "axis.wvl", []byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadWavelengthsHdr(t *testing.T) {
	hdr := "ENVI\nsamples = 10\nwavelength = {450.0, 550.0,\n 650.0}\nbands = 3\n"
	got, err := LoadWavelengths(writeTemp(t, "cube.hdr", []byte(hdr)))
	require.NoError(t, err)
	assert.Equal(t, []float64{450, 550, 650}, got)
}

func TestLoadWavelengthsHdrMissingField(t *testing.T) {
	_, err := LoadWavelengths(writeTemp(t, "cube.hdr", []byte("ENVI\nsamples = 10\n")))
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadWavelengthsTxt(t *testing.T) {
	got, err := LoadWavelengths(writeTemp(t, "axis.txt", []byte("400, 500, 600,")))
	require.NoError(t, err)
	assert.Equal(t, []float64{400, 500, 600}, got)
}

func TestLoadWavelengthsCSV(t *testing.T) {
	csv := "band,Wavelength,fwhm\n1,400.5,10\n2,500.5,10\n"
	got, err := LoadWavelengths(writeTemp(t, "axis.csv", []byte(csv)))
	require.NoError(t, err)
	assert.Equal(t, []float64{400.5, 500.5}, got)
}

func TestLoadWavelengthsCSVNoColumn(t *testing.T) {
	_, err := LoadWavelengths(writeTemp(t, "axis.csv", []byte("band,fwhm\n1,10\n")))
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadWavelengthsUnknownExtension(t *testing.T) {
	_, err := LoadWavelengths(writeTemp(t, "axis.dat", []byte("400")))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadWavelengthsMissingFile(t *testing.T) {
	_, err := LoadWavelengths(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
