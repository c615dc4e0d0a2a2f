package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteReport renders the session as a standalone HTML line chart, one
// series per spectrum, for inspection without the viewer running.
func (s *Session) WriteReport(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: create directory: %w", err)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Spectra " + s.Group, Width: "1100px", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "Collected spectra", Subtitle: fmt.Sprintf("%s entries=%d", s.Group, len(s.Entries))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "wavelength", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
	)

	line.SetXAxis(axisLabels(s.Wavelengths))
	for _, e := range s.Entries {
		data := make([]opts.LineData, 0, len(e.Data))
		for _, v := range e.Data {
			if math.IsNaN(v) {
				data = append(data, opts.LineData{Value: nil})
				continue
			}
			data = append(data, opts.LineData{Value: v})
		}
		line.AddSeries(e.Name, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()
	if err := line.Render(f); err != nil {
		return fmt.Errorf("export: render report: %w", err)
	}
	return f.Close()
}

func axisLabels(wvls []float64) []string {
	labels := make([]string, len(wvls))
	for i, w := range wvls {
		labels[i] = fmt.Sprintf("%g", w)
	}
	return labels
}
