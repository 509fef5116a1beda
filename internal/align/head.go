// Package align implements the head-progress alignment pipeline: it derives a
// scalar horizontal head position per second from wide pose frames, normalizes
// it to a [0,1] progress coordinate, matches a checkpoint grid against each
// source's progress curve, and joins both sources into aligned output rows.
package align

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/rowlytics/strokealign/internal/pose"
)

// Head aggregation methods.
const (
	MethodConfWeightedAvg = "conf_weighted_avg"
	MethodSimpleAvg       = "simple_avg"
	MethodNose            = "nose"
)

// ValidMethods contains all valid head aggregation methods.
var ValidMethods = []string{MethodConfWeightedAvg, MethodSimpleAvg, MethodNose}

// IsValidMethod checks if the given method is in the list of valid methods.
func IsValidMethod(method string) bool {
	for _, m := range ValidMethods {
		if method == m {
			return true
		}
	}
	return false
}

// ValidMethodsString returns a comma-separated string of valid methods for
// error messages.
func ValidMethodsString() string {
	return strings.Join(ValidMethods, ", ")
}

// HeadSample is the aggregated horizontal head position at one second. Valid
// is false when no configured head keypoint met the confidence threshold.
type HeadSample struct {
	Second int
	X      float64
	Valid  bool
}

// HeadSeries computes one horizontal head position per frame.
//
// Methods:
//   - conf_weighted_avg: mean of qualifying head keypoint x values weighted by
//     their confidences
//   - simple_avg: unweighted mean of qualifying head keypoint x values
//   - nose: the nose x value alone where its confidence qualifies
//
// A keypoint qualifies at a second when it was observed there with confidence
// >= confThreshold. Seconds with no qualifying keypoint yield an invalid
// sample rather than a zero. An unknown method is a configuration error.
func HeadSeries(frames []pose.Frame, headKPs []string, confThreshold float64, method string) ([]HeadSample, error) {
	if !IsValidMethod(method) {
		return nil, fmt.Errorf("unknown head method %q (valid: %s)", method, ValidMethodsString())
	}

	series := make([]HeadSample, len(frames))
	for i, f := range frames {
		series[i] = HeadSample{Second: f.Second}

		switch method {
		case MethodNose:
			if kp, ok := f.Keypoint("nose"); ok && kp.Conf >= confThreshold {
				series[i].X = kp.X
				series[i].Valid = true
			}

		case MethodSimpleAvg, MethodConfWeightedAvg:
			var xs, ws []float64
			for _, name := range headKPs {
				kp, ok := f.Keypoint(name)
				if !ok || kp.Conf < confThreshold {
					continue
				}
				xs = append(xs, kp.X)
				ws = append(ws, kp.Conf)
			}
			if len(xs) == 0 {
				continue
			}
			if method == MethodSimpleAvg {
				series[i].X = stat.Mean(xs, nil)
				series[i].Valid = true
				continue
			}
			var wsum float64
			for _, w := range ws {
				wsum += w
			}
			// All qualifying confidences can still sum to zero when the
			// threshold is zero; that denominator yields no estimate.
			if wsum > 0 {
				series[i].X = stat.Mean(xs, ws)
				series[i].Valid = true
			}
		}
	}

	return series, nil
}
