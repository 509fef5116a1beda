// Package report renders diagnostic artifacts for an alignment run: an HTML
// page with both sources' progress curves and matched checkpoints, and a PNG
// plot of the progress series. These are inspection aids; the aligned CSV is
// the primary output.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rowlytics/strokealign/internal/align"
)

// WriteChart renders an HTML page with one chart per source: the progress
// curve over seconds with the matched checkpoints overlaid as scatter points.
// Seconds without a valid progress value render as gaps.
func WriteChart(path string, res *align.Result) error {
	page := components.NewPage()

	for _, src := range res.Sources {
		page.AddCharts(progressChart(&src, res.Checkpoints))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func progressChart(src *align.SourceResult, checkpoints []float64) components.Charter {
	samples := src.Series.Samples

	seconds := make([]string, len(samples))
	progress := make([]opts.LineData, len(samples))
	for i, s := range samples {
		seconds[i] = strconv.Itoa(s.Second)
		if s.Valid {
			progress[i] = opts.LineData{Value: s.Value}
		} else {
			progress[i] = opts.LineData{Value: "-"}
		}
	}

	// Matched checkpoints plotted at their chosen seconds, on the same
	// category axis as the progress curve.
	matchedBySecond := make(map[int]float64)
	for ci, m := range src.Matches {
		if m.OK {
			matchedBySecond[m.Second] = checkpoints[ci]
		}
	}
	matched := make([]opts.ScatterData, len(samples))
	for i, s := range samples {
		if cp, ok := matchedBySecond[s.Second]; ok {
			matched[i] = opts.ScatterData{Value: cp, SymbolSize: 10}
		} else {
			matched[i] = opts.ScatterData{Value: "-"}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Head progress alignment", Width: "1100px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    filepath.Base(src.Path),
			Subtitle: fmt.Sprintf("head_x range [%.3f, %.3f], matched %d/%d checkpoints", src.Series.XMin, src.Series.XMax, src.MatchedCount(), len(checkpoints)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "second"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "progress", Min: 0, Max: 1}),
	)
	line.SetXAxis(seconds).AddSeries("progress", progress)

	scatter := charts.NewScatter()
	scatter.SetXAxis(seconds).AddSeries("matched checkpoints", matched)
	line.Overlap(scatter)

	return line
}
