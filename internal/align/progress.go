package align

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ProgressSample is one second's normalized position within the observed head
// motion range. Valid mirrors the underlying head sample: seconds without a
// usable head position carry no progress value.
type ProgressSample struct {
	Second int
	HeadX  float64
	Value  float64
	Valid  bool
}

// ProgressSeries holds one source's normalized progress curve together with
// the extremes used for normalization.
type ProgressSeries struct {
	Samples []ProgressSample
	XMin    float64
	XMax    float64
}

// DegenerateRangeError reports a head motion signal with no usable range:
// either no valid head positions at all, or extremes equal within floating
// point tolerance. Progress cannot be normalized against such a signal.
type DegenerateRangeError struct {
	XMin       float64
	XMax       float64
	ValidCount int
}

func (e *DegenerateRangeError) Error() string {
	if e.ValidCount == 0 {
		return "no valid head positions after confidence filtering; cannot compute extremes"
	}
	return fmt.Sprintf("head movement range is ~0 (x_min=%.6f, x_max=%.6f); cannot compute progress", e.XMin, e.XMax)
}

// nearlyEqual reports whether a and b are equal within floating point
// tolerance (relative 1e-5, absolute 1e-8).
func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-8+1e-5*math.Abs(b)
}

// Progress normalizes a head position series into [0,1] using the observed
// extremes: progress = (x - x_min) / (x_max - x_min). Invalid head samples
// propagate as invalid progress samples. A series with no valid samples, or
// whose extremes coincide within tolerance, is a *DegenerateRangeError.
func Progress(head []HeadSample) (*ProgressSeries, error) {
	var valid []float64
	for _, h := range head {
		if h.Valid {
			valid = append(valid, h.X)
		}
	}
	if len(valid) == 0 {
		return nil, &DegenerateRangeError{}
	}

	xMin := floats.Min(valid)
	xMax := floats.Max(valid)
	if nearlyEqual(xMax, xMin) {
		return nil, &DegenerateRangeError{XMin: xMin, XMax: xMax, ValidCount: len(valid)}
	}

	samples := make([]ProgressSample, len(head))
	for i, h := range head {
		samples[i] = ProgressSample{Second: h.Second, HeadX: h.X, Valid: h.Valid}
		if h.Valid {
			samples[i].Value = (h.X - xMin) / (xMax - xMin)
		}
	}

	return &ProgressSeries{Samples: samples, XMin: xMin, XMax: xMax}, nil
}
