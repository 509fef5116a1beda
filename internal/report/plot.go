package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rowlytics/strokealign/internal/align"
)

var plotColors = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
}

// SavePlot writes a PNG of both sources' progress curves over seconds.
// Invalid samples are skipped, which shows up as gaps in the line.
func SavePlot(path string, res *align.Result) error {
	p := plot.New()
	p.Title.Text = "Head progress by second"
	p.X.Label.Text = "Second"
	p.Y.Label.Text = "Progress"
	p.Y.Min = 0
	p.Y.Max = 1

	for i := range res.Sources {
		src := &res.Sources[i]
		pts := make(plotter.XYs, 0, len(src.Series.Samples))
		for _, s := range src.Series.Samples {
			if s.Valid {
				pts = append(pts, plotter.XY{X: float64(s.Second), Y: s.Value})
			}
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build progress line: %w", err)
		}
		line.Color = plotColors[i%len(plotColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(filepath.Base(src.Path), line)
	}

	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
