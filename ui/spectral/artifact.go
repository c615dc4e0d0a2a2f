package spectral

import "specview/internal/speccache"

// displayArtifact ties a cached spectrum to the display. The plot rebuilds
// from the cache, so releasing only forces a redraw.
type displayArtifact struct {
	sd *SpectralDisplay
}

var _ speccache.Artifact = (*displayArtifact)(nil)

func (a *displayArtifact) Release() {
	a.sd.Refresh()
}

// Artifact returns the display-side artifact for a new cache entry.
func (sd *SpectralDisplay) Artifact() speccache.Artifact {
	return &displayArtifact{sd: sd}
}
