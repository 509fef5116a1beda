package align

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckpoints(t *testing.T) {
	tests := []struct {
		name string
		step float64
		want []float64
	}{
		{"default step 0.1", 0.1, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}},
		{"step 0.5", 0.5, []float64{0, 0.5, 1}},
		{"step 0.25", 0.25, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"step 1", 1, []float64{0, 1}},
		{"step 0.3 appends 1.0", 0.3, []float64{0, 0.3, 0.6, 0.9, 1}},
		{"step 0.6 stays within [0,1]", 0.6, []float64{0, 0.6, 1}},
		{"step 0.7 appends 1.0", 0.7, []float64{0, 0.7, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Checkpoints(tt.step)
			if err != nil {
				t.Fatalf("Checkpoints(%v) returned error: %v", tt.step, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Checkpoints(%v) mismatch (-want +got):\n%s", tt.step, diff)
			}
		})
	}
}

func TestCheckpointsInvalidStep(t *testing.T) {
	for _, step := range []float64{0, -0.1, 1.5} {
		if _, err := Checkpoints(step); err == nil {
			t.Errorf("Checkpoints(%v) should fail", step)
		}
	}
}

func progressSeries(values ...float64) *ProgressSeries {
	ps := &ProgressSeries{XMin: 0, XMax: 1}
	for i, v := range values {
		ps.Samples = append(ps.Samples, ProgressSample{Second: i, HeadX: v, Value: v, Valid: true})
	}
	return ps
}

func TestMatchCheckpointsNearest(t *testing.T) {
	ps := progressSeries(0, 0.26, 0.52, 0.77, 1.0)

	matches := MatchCheckpoints(ps, []float64{0, 0.25, 0.5, 0.75, 1}, 0.05)

	wantSeconds := []int{0, 1, 2, 3, 4}
	for i, m := range matches {
		if !m.OK {
			t.Fatalf("checkpoint %d unmatched", i)
		}
		if m.Second != wantSeconds[i] {
			t.Errorf("checkpoint %d matched second %d, want %d", i, m.Second, wantSeconds[i])
		}
	}
}

func TestMatchCheckpointsBeyondTolerance(t *testing.T) {
	// Only two samples: nothing sits near progress 0.5.
	ps := progressSeries(0, 1)

	matches := MatchCheckpoints(ps, []float64{0, 0.5, 1}, 0.05)

	if !matches[0].OK || !matches[2].OK {
		t.Fatal("endpoints should match exactly")
	}
	if matches[1].OK {
		t.Error("checkpoint 0.5 should be unmatched with tolerance 0.05")
	}
}

func TestMatchCheckpointsTolerantEnough(t *testing.T) {
	ps := progressSeries(0, 1)

	matches := MatchCheckpoints(ps, []float64{0.5}, 0.5)

	if !matches[0].OK {
		t.Fatal("checkpoint 0.5 should match with tolerance 0.5")
	}
	// Both samples are 0.5 away; tie goes to the lowest second.
	if matches[0].Second != 0 {
		t.Errorf("tie should break to lowest second, got %d", matches[0].Second)
	}
}

func TestMatchCheckpointsSkipsInvalidSamples(t *testing.T) {
	ps := &ProgressSeries{
		Samples: []ProgressSample{
			{Second: 0, Value: 0.1, Valid: false}, // closest, but invalid
			{Second: 1, Value: 0.3, Valid: true},
		},
	}

	matches := MatchCheckpoints(ps, []float64{0.1}, 0.25)
	if !matches[0].OK {
		t.Fatal("expected a match from the valid sample")
	}
	if matches[0].Second != 1 {
		t.Errorf("invalid sample must never be selected, got second %d", matches[0].Second)
	}
}

func TestMatchCheckpointsAllInvalid(t *testing.T) {
	ps := &ProgressSeries{
		Samples: []ProgressSample{
			{Second: 0, Valid: false},
			{Second: 1, Valid: false},
		},
	}

	matches := MatchCheckpoints(ps, []float64{0, 0.5, 1}, 10)
	for i, m := range matches {
		if m.OK {
			t.Errorf("checkpoint %d should be unmatched when every sample is invalid", i)
		}
	}
}

func TestMatchCheckpointsZeroTolerance(t *testing.T) {
	ps := progressSeries(0, 0.5, 1)

	matches := MatchCheckpoints(ps, []float64{0, 0.5, 0.6, 1}, 0)

	if !matches[0].OK || !matches[1].OK || !matches[3].OK {
		t.Error("exact hits should match even with zero tolerance")
	}
	if matches[2].OK {
		t.Error("checkpoint 0.6 has no exact hit and must be unmatched")
	}
}

// Increasing tolerance never decreases the number of matched checkpoints.
func TestMatchCheckpointsToleranceMonotonicity(t *testing.T) {
	ps := progressSeries(0, 0.13, 0.42, 0.58, 0.81, 1.0)
	checkpoints, err := Checkpoints(0.1)
	if err != nil {
		t.Fatal(err)
	}

	prev := -1
	for _, tol := range []float64{0, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1} {
		matched := 0
		for _, m := range MatchCheckpoints(ps, checkpoints, tol) {
			if m.OK {
				matched++
			}
		}
		if matched < prev {
			t.Fatalf("matched count decreased from %d to %d at tolerance %v", prev, matched, tol)
		}
		prev = matched
	}
}

func TestMatchCarriesHeadXAndDiff(t *testing.T) {
	ps := &ProgressSeries{
		Samples: []ProgressSample{
			{Second: 3, HeadX: 142.5, Value: 0.48, Valid: true},
		},
	}

	matches := MatchCheckpoints(ps, []float64{0.5}, 0.05)
	if !matches[0].OK {
		t.Fatal("expected match")
	}
	if matches[0].HeadX != 142.5 {
		t.Errorf("HeadX = %v, want 142.5", matches[0].HeadX)
	}
	if diff := matches[0].Diff; diff < 0.0199 || diff > 0.0201 {
		t.Errorf("Diff = %v, want ~0.02", diff)
	}
}
