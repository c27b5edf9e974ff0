package chart

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/pathloss/internal/fsutil"
)

var (
	measuredColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	curveColors   = []color.Color{
		color.RGBA{R: 214, G: 39, B: 40, A: 255},
		color.RGBA{R: 44, G: 160, B: 44, A: 255},
	}
)

// NewPlot builds a log-distance scatter of the measurements with each fitted
// model drawn as a line.
func NewPlot(fs FitSet) (*plot.Plot, error) {
	if err := fs.validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fs.title()
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Path loss (dB)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(fs.Measurements))
	for i, m := range fs.Measurements {
		pts[i] = plotter.XY{X: m.Distance, Y: m.Loss}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("measurement scatter: %w", err)
	}
	scatter.GlyphStyle.Color = measuredColor
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(scatter)
	p.Legend.Add("measured", scatter)

	for i, c := range fs.Curves() {
		linePts := make(plotter.XYs, 0, len(c.X))
		for j := range c.X {
			if finite(c.Y[j]) {
				linePts = append(linePts, plotter.XY{X: c.X[j], Y: c.Y[j]})
			}
		}
		if len(linePts) == 0 {
			continue
		}
		line, err := plotter.NewLine(linePts)
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", c.Name, err)
		}
		line.Color = curveColors[i%len(curveColors)]
		line.Width = vg.Points(1.5)
		if i > 0 {
			line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		}
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// SavePNG renders the fit set to a PNG file at path.
func SavePNG(fsys fsutil.FileSystem, path string, fs FitSet) error {
	p, err := NewPlot(fs)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to prepare png: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
