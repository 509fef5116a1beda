package align

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rowlytics/strokealign/internal/pose"
)

// NoCommonKeypointsError reports that the two sources share no keypoint
// vocabulary, so no cross-source row can be built.
type NoCommonKeypointsError struct {
	Count1 int
	Count2 int
}

func (e *NoCommonKeypointsError) Error() string {
	return fmt.Sprintf("the two sources share no keypoint names in common (%d vs %d distinct names)", e.Count1, e.Count2)
}

// Side holds one source's cells of an aligned row. Matched is false for an
// unmatched checkpoint, in which case Second, HeadX and the keypoint cells are
// emitted as missing values; XMin/XMax are normalization constants for the
// whole source and always present. HasKeypoint is false when the checkpoint
// matched but this particular keypoint was not observed at the chosen second.
type Side struct {
	Matched     bool
	Second      int
	HeadX       float64
	XMin        float64
	XMax        float64
	HasKeypoint bool
	X           float64
	Y           float64
	Conf        float64
}

// AlignedRow is one output row: a (checkpoint, keypoint) pair with both
// sources' cells.
type AlignedRow struct {
	Checkpoint float64
	Keypoint   string
	File1      Side
	File2      Side
}

// EmitSource bundles everything the emitter needs from one source.
type EmitSource struct {
	Frames  []pose.Frame
	Series  *ProgressSeries
	Matches []Match
}

// Emit joins both sources at their matched seconds into one row per
// (checkpoint, keypoint). Only keypoints present in both sources are emitted;
// the grid is complete regardless of match success, so the output always has
// len(checkpoints) x len(common keypoints) rows in checkpoint-major,
// keypoint-name-ascending order.
func Emit(checkpoints []float64, src1, src2 EmitSource) ([]AlignedRow, error) {
	names1 := frameKeypointNames(src1.Frames)
	names2 := frameKeypointNames(src2.Frames)
	common := intersect(names1, names2)
	if len(common) == 0 {
		return nil, &NoCommonKeypointsError{Count1: len(names1), Count2: len(names2)}
	}

	frames1 := framesBySecond(src1.Frames)
	frames2 := framesBySecond(src2.Frames)

	rows := make([]AlignedRow, 0, len(checkpoints)*len(common))
	for ci, cp := range checkpoints {
		for _, name := range common {
			rows = append(rows, AlignedRow{
				Checkpoint: cp,
				Keypoint:   name,
				File1:      sideCells(src1, frames1, src1.Matches[ci], name),
				File2:      sideCells(src2, frames2, src2.Matches[ci], name),
			})
		}
	}
	return rows, nil
}

func sideCells(src EmitSource, frames map[int]pose.Frame, m Match, name string) Side {
	side := Side{XMin: src.Series.XMin, XMax: src.Series.XMax}
	if !m.OK {
		return side
	}
	side.Matched = true
	side.Second = m.Second
	side.HeadX = m.HeadX
	if f, ok := frames[m.Second]; ok {
		if kp, ok := f.Keypoint(name); ok {
			side.HasKeypoint = true
			side.X = kp.X
			side.Y = kp.Y
			side.Conf = kp.Conf
		}
	}
	return side
}

func frameKeypointNames(frames []pose.Frame) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range frames {
		for name := range f.Keypoints {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func intersect(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, name := range b {
		inB[name] = true
	}
	var out []string
	for _, name := range a {
		if inB[name] {
			out = append(out, name)
		}
	}
	return out
}

func framesBySecond(frames []pose.Frame) map[int]pose.Frame {
	m := make(map[int]pose.Frame, len(frames))
	for _, f := range frames {
		m[f.Second] = f
	}
	return m
}

// OutputHeader is the aligned CSV column order.
var OutputHeader = []string{
	"progress_step",
	"file1_second", "file1_head_x", "file1_xmin", "file1_xmax",
	"file1_kp", "file1_x", "file1_y", "file1_kp_conf",
	"file2_second", "file2_head_x", "file2_xmin", "file2_xmax",
	"file2_kp", "file2_x", "file2_y", "file2_kp_conf",
}

// WriteCSV writes the aligned rows with missing cells emitted as empty
// strings. Output is deterministic for identical inputs.
func WriteCSV(w io.Writer, rows []AlignedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutputHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{formatFloat(r.Checkpoint)}
		record = append(record, sideRecord(r.File1, r.Keypoint)...)
		record = append(record, sideRecord(r.File2, r.Keypoint)...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func sideRecord(s Side, keypoint string) []string {
	second, headX := "", ""
	if s.Matched {
		second = strconv.Itoa(s.Second)
		headX = formatFloat(s.HeadX)
	}
	x, y, conf := "", "", ""
	if s.Matched && s.HasKeypoint {
		x = formatFloat(s.X)
		y = formatFloat(s.Y)
		conf = formatFloat(s.Conf)
	}
	return []string{
		second, headX,
		formatFloat(s.XMin), formatFloat(s.XMax),
		keypoint, x, y, conf,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
