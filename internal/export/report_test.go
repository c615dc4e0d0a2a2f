package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specview/pkg/geometry"
)

func TestWriteReport(t *testing.T) {
	s, err := NewSession(populatedCache(t), testWvls, "", geometry.SquareOffset{}, time.Now())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report", "spectra.html")
	require.NoError(t, s.WriteReport(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "SPECTRUM_01")
	assert.Contains(t, html, "AREA_01")
	assert.Contains(t, html, "Spectra "+s.Group)
}

func TestAxisLabels(t *testing.T) {
	assert.Equal(t, []string{"450", "550.5", "650"}, axisLabels([]float64{450, 550.5, 650}))
}
