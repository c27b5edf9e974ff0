package chart

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/pathloss/internal/fsutil"
)

// RenderHTML writes an interactive scatter-plus-fit chart as a standalone
// HTML page.
func RenderHTML(w io.Writer, fs FitSet) error {
	if err := fs.validate(); err != nil {
		return err
	}

	data := make([]opts.ScatterData, len(fs.Measurements))
	for i, m := range fs.Measurements {
		data[i] = opts.ScatterData{Value: []interface{}{m.Distance, m.Loss}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: fs.title(), Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: fs.title(), Subtitle: fmt.Sprintf("measurements=%d", len(fs.Measurements))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "log", Name: "Distance (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Path loss (dB)", NameLocation: "middle", NameGap: 40}),
	)
	scatter.AddSeries("measured", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	for _, c := range fs.Curves() {
		pts := make([]opts.LineData, 0, len(c.X))
		for i := range c.X {
			if finite(c.Y[i]) {
				pts = append(pts, opts.LineData{Value: []interface{}{c.X[i], c.Y[i]}})
			}
		}
		line := charts.NewLine()
		line.AddSeries(c.Name, pts, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		scatter.Overlap(line)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// SaveHTML renders the fit set to an HTML file at path.
func SaveHTML(fsys fsutil.FileSystem, path string, fs FitSet) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := RenderHTML(f, fs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
