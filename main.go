// Command strokealign aligns two per-second pose keypoint CSVs by horizontal
// head movement progress and writes one output row per (checkpoint, keypoint)
// with both sources' coordinates at the matched seconds.
//
// Usage:
//
//	strokealign [flags] <keypoints1.csv> <keypoints2.csv>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rowlytics/strokealign/internal/align"
	"github.com/rowlytics/strokealign/internal/config"
	"github.com/rowlytics/strokealign/internal/report"
	"github.com/rowlytics/strokealign/internal/runlog"
)

// Options holds the parsed command line: output paths plus the alignment
// parameters after config-file and flag merging.
type Options struct {
	Source1 string
	Source2 string
	Out     string
	Chart   string
	Plot    string
	RunDB   string
	Params  align.Params
}

func main() {
	opts, err := parseCommandLine(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	res, err := align.Run(opts.Source1, opts.Source2, opts.Params)
	if err != nil {
		log.Fatalf("alignment failed: %v", err)
	}

	if dir := filepath.Dir(opts.Out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
	}
	f, err := os.Create(opts.Out)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	if err := align.WriteCSV(f, res.Rows); err != nil {
		f.Close()
		log.Fatalf("failed to write aligned CSV: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("failed to write aligned CSV: %v", err)
	}

	printSummary(opts, res)

	// Diagnostics are best-effort once the aligned CSV is on disk.
	if opts.Chart != "" {
		if err := report.WriteChart(opts.Chart, res); err != nil {
			log.Printf("Warning: failed to write chart: %v", err)
		} else {
			fmt.Printf("Wrote progress chart: %s\n", opts.Chart)
		}
	}
	if opts.Plot != "" {
		if err := report.SavePlot(opts.Plot, res); err != nil {
			log.Printf("Warning: failed to save plot: %v", err)
		} else {
			fmt.Printf("Wrote progress plot: %s\n", opts.Plot)
		}
	}
	if opts.RunDB != "" {
		if err := recordRun(opts, res); err != nil {
			log.Printf("Warning: failed to record run: %v", err)
		}
	}
}

func recordRun(opts *Options, res *align.Result) error {
	db, err := runlog.Open(opts.RunDB)
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.RecordRun(res, opts.Params, opts.Out)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded run %s in %s\n", runID, opts.RunDB)
	return nil
}

// parseCommandLine parses flags and positional arguments, loads the optional
// config file, and merges the two (explicit flags win over file values).
func parseCommandLine(args []string) (*Options, error) {
	fs := flag.NewFlagSet("strokealign", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: strokealign [flags] <keypoints1.csv> <keypoints2.csv>\n\n")
		fs.PrintDefaults()
	}

	out := fs.String("out", "aligned_head_progress.csv", "Output CSV path")
	step := fs.Float64("step", config.DefaultStep, "Progress step size in (0, 1] (e.g. 0.10 for 10%)")
	tolerance := fs.Float64("tolerance", config.DefaultTolerance, "Max allowed |progress - checkpoint| to accept a match")
	headKPs := fs.String("head-kps", strings.Join(config.EmptyRunConfig().GetHeadKeypoints(), ","), "Comma-separated head keypoints used for motion tracking")
	kpConf := fs.Float64("kp-conf", config.DefaultKeypointConfidence, "Keypoint confidence threshold for head tracking")
	headMethod := fs.String("head-method", config.DefaultHeadMethod, fmt.Sprintf("Head aggregation method (%s)", align.ValidMethodsString()))
	configPath := fs.String("config", "", "Optional JSON config file (flags override file values)")
	chart := fs.String("chart", "", "Optional HTML progress chart path")
	plotPath := fs.String("plot", "", "Optional PNG progress plot path")
	runDB := fs.String("db", "", "Optional sqlite database to record run history")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, fmt.Errorf("expected exactly 2 keypoints CSV arguments, got %d", fs.NArg())
	}

	cfg := config.EmptyRunConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadRunConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	// Config file first, then any explicitly set flag on top.
	params := align.Params{
		Step:               cfg.GetStep(),
		Tolerance:          cfg.GetTolerance(),
		HeadKeypoints:      cfg.GetHeadKeypoints(),
		KeypointConfidence: cfg.GetKeypointConfidence(),
		HeadMethod:         cfg.GetHeadMethod(),
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "step":
			params.Step = *step
		case "tolerance":
			params.Tolerance = *tolerance
		case "head-kps":
			params.HeadKeypoints = config.SplitKeypointList(*headKPs)
		case "kp-conf":
			params.KeypointConfidence = *kpConf
		case "head-method":
			params.HeadMethod = *headMethod
		}
	})

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Options{
		Source1: fs.Arg(0),
		Source2: fs.Arg(1),
		Out:     *out,
		Chart:   *chart,
		Plot:    *plotPath,
		RunDB:   *runDB,
		Params:  params,
	}, nil
}

func printSummary(opts *Options, res *align.Result) {
	fmt.Printf("Wrote aligned CSV: %s\n", opts.Out)
	fmt.Println("Notes:")
	fmt.Printf("  Checkpoints: %s\n", formatCheckpoints(res.Checkpoints))
	for i, label := range []string{"File1", "File2"} {
		src := &res.Sources[i]
		fmt.Printf("  %s head_x range: [%.3f, %.3f], matched %d/%d checkpoints\n",
			label, src.Series.XMin, src.Series.XMax, src.MatchedCount(), len(res.Checkpoints))
	}
	fmt.Println("Any checkpoint with no match within tolerance has empty cells for that file.")
}

func formatCheckpoints(checkpoints []float64) string {
	parts := make([]string, len(checkpoints))
	for i, cp := range checkpoints {
		parts[i] = fmt.Sprintf("%g", cp)
	}
	return strings.Join(parts, ", ")
}
