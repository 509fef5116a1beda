// Package pose models the per-second keypoint tables produced by the upstream
// video extractor: the long-format observation rows read from CSV and the
// per-second wide frames the alignment pipeline operates on.
package pose

// CocoKeypointNames lists the COCO-17 keypoint names in model output order.
// The upstream extractor emits keypoint_index/keypoint_name pairs from this
// vocabulary.
var CocoKeypointNames = []string{
	"nose", "left_eye", "right_eye", "left_ear", "right_ear",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle",
}

// CocoSkeleton lists the keypoint index pairs joined when a skeleton is
// rendered (nose->eyes->ears, arms, torso, hips, legs).
var CocoSkeleton = [][2]int{
	{0, 1}, {0, 2}, {1, 3}, {2, 4},
	{5, 6},
	{5, 7}, {7, 9},
	{6, 8}, {8, 10},
	{5, 11}, {6, 12},
	{11, 12},
	{11, 13}, {13, 15},
	{12, 14}, {14, 16},
}

// DefaultHeadKeypoints are the landmarks used for head motion tracking.
var DefaultHeadKeypoints = []string{"nose", "left_eye", "right_eye", "left_ear", "right_ear"}
