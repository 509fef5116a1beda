package align

import (
	"fmt"

	"github.com/rowlytics/strokealign/internal/pose"
)

// Params holds the alignment run parameters.
type Params struct {
	Step               float64
	Tolerance          float64
	HeadKeypoints      []string
	KeypointConfidence float64
	HeadMethod         string
}

// Validate checks the parameters before any file I/O happens.
func (p Params) Validate() error {
	if p.Step <= 0 || p.Step > 1 {
		return fmt.Errorf("step must be in (0, 1], got %g", p.Step)
	}
	if p.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0, got %g", p.Tolerance)
	}
	if p.KeypointConfidence < 0 || p.KeypointConfidence > 1 {
		return fmt.Errorf("keypoint confidence threshold must be in [0, 1], got %g", p.KeypointConfidence)
	}
	if len(p.HeadKeypoints) == 0 {
		return fmt.Errorf("no head keypoints configured")
	}
	if !IsValidMethod(p.HeadMethod) {
		return fmt.Errorf("unknown head method %q (valid: %s)", p.HeadMethod, ValidMethodsString())
	}
	return nil
}

// SourceResult holds one source's intermediate pipeline state, kept for the
// run summary, diagnostics and the run log.
type SourceResult struct {
	Path    string
	Frames  []pose.Frame
	Series  *ProgressSeries
	Matches []Match
}

// MatchedCount returns how many checkpoints found a second within tolerance.
func (s *SourceResult) MatchedCount() int {
	n := 0
	for _, m := range s.Matches {
		if m.OK {
			n++
		}
	}
	return n
}

// Result is the outcome of a full alignment run.
type Result struct {
	Checkpoints []float64
	Sources     [2]SourceResult
	Rows        []AlignedRow
}

// Run executes the whole pipeline over two keypoints CSVs: load, pivot,
// head series, progress, checkpoint matching, and the cross-source join.
// Any fatal condition aborts before output is produced; there is no partial
// success.
func Run(path1, path2 string, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	checkpoints, err := Checkpoints(p.Step)
	if err != nil {
		return nil, err
	}

	res := &Result{Checkpoints: checkpoints}
	for i, path := range []string{path1, path2} {
		src, err := runSource(path, checkpoints, p)
		if err != nil {
			return nil, err
		}
		res.Sources[i] = *src
	}

	rows, err := Emit(checkpoints,
		EmitSource{Frames: res.Sources[0].Frames, Series: res.Sources[0].Series, Matches: res.Sources[0].Matches},
		EmitSource{Frames: res.Sources[1].Frames, Series: res.Sources[1].Series, Matches: res.Sources[1].Matches},
	)
	if err != nil {
		return nil, err
	}
	res.Rows = rows

	return res, nil
}

func runSource(path string, checkpoints []float64, p Params) (*SourceResult, error) {
	obs, err := pose.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	frames := pose.Wide(obs)

	head, err := HeadSeries(frames, p.HeadKeypoints, p.KeypointConfidence, p.HeadMethod)
	if err != nil {
		return nil, err
	}
	series, err := Progress(head)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &SourceResult{
		Path:    path,
		Frames:  frames,
		Series:  series,
		Matches: MatchCheckpoints(series, checkpoints, p.Tolerance),
	}, nil
}
