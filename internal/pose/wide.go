package pose

import "sort"

// Keypoint is one landmark's position and confidence at a given second.
type Keypoint struct {
	X    float64
	Y    float64
	Conf float64
}

// Frame is the wide form of one second: every keypoint observed at that
// second, keyed by name. A keypoint absent from the map was not observed at
// that second. Frames are built once and never mutated afterwards.
type Frame struct {
	Second              int
	PersonIndex         int
	DetectionConfidence float64
	Keypoints           map[string]Keypoint
}

// Keypoint returns the named keypoint at this second, if observed.
func (f *Frame) Keypoint(name string) (Keypoint, bool) {
	kp, ok := f.Keypoints[name]
	return kp, ok
}

// Wide pivots a long table into one Frame per distinct second, sorted
// ascending by second. The upstream extractor emits one representative person
// per second, so person_index and detection_confidence are taken from the
// first observation encountered for that second; likewise the first
// observation wins if a (second, keypoint) pair is duplicated.
func Wide(obs []Observation) []Frame {
	bySecond := make(map[int]*Frame)
	var seconds []int

	for _, o := range obs {
		f, ok := bySecond[o.Second]
		if !ok {
			f = &Frame{
				Second:              o.Second,
				PersonIndex:         o.PersonIndex,
				DetectionConfidence: o.DetectionConfidence,
				Keypoints:           make(map[string]Keypoint),
			}
			bySecond[o.Second] = f
			seconds = append(seconds, o.Second)
		}
		if _, dup := f.Keypoints[o.KeypointName]; !dup {
			f.Keypoints[o.KeypointName] = Keypoint{X: o.X, Y: o.Y, Conf: o.KeypointConfidence}
		}
	}

	sort.Ints(seconds)
	frames := make([]Frame, 0, len(seconds))
	for _, s := range seconds {
		frames = append(frames, *bySecond[s])
	}
	return frames
}
