package align

import (
	"fmt"
	"math"
)

// Checkpoints builds the progress grid {0, step, 2*step, ...} with 1.0
// appended when the multiples do not land on it exactly. Values are rounded
// to 10 decimal places so repeated float addition cannot produce near-duplicate
// grid points. Step must be in (0, 1].
func Checkpoints(step float64) ([]float64, error) {
	if step <= 0 || step > 1 {
		return nil, fmt.Errorf("step must be in (0, 1], got %g", step)
	}

	n := int(math.Round(1.0 / step))
	grid := make([]float64, 0, n+2)
	for i := 0; i <= n; i++ {
		v := roundTo(float64(i)*step, 10)
		if v > 1 {
			break
		}
		grid = append(grid, v)
	}
	if grid[len(grid)-1] != 1.0 {
		grid = append(grid, 1.0)
	}
	return grid, nil
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Match is the outcome of matching one checkpoint against one source's
// progress curve. When OK is false no second came within tolerance (or the
// curve had no valid values at all) and the checkpoint is left unmatched.
type Match struct {
	Second int
	HeadX  float64
	Diff   float64
	OK     bool
}

// MatchCheckpoints selects, for each checkpoint, the second whose progress
// value lies closest to it. Ties go to the lowest second (first occurrence in
// the ascending series). Invalid progress samples are never selected. A best
// distance beyond tolerance leaves the checkpoint unmatched rather than
// forcing a poor match.
func MatchCheckpoints(ps *ProgressSeries, checkpoints []float64, tolerance float64) []Match {
	matches := make([]Match, len(checkpoints))
	for ci, cp := range checkpoints {
		best := -1
		bestDiff := math.Inf(1)
		for si, s := range ps.Samples {
			if !s.Valid {
				continue
			}
			if d := math.Abs(s.Value - cp); d < bestDiff {
				bestDiff = d
				best = si
			}
		}
		if best >= 0 && bestDiff <= tolerance {
			matches[ci] = Match{
				Second: ps.Samples[best].Second,
				HeadX:  ps.Samples[best].HeadX,
				Diff:   bestDiff,
				OK:     true,
			}
		}
	}
	return matches
}
