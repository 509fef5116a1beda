package pose

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// RequiredColumns is the header set every keypoints CSV must carry. Extra
// columns are tolerated and ignored.
var RequiredColumns = []string{
	"second",
	"person_index",
	"detection_confidence",
	"keypoint_index",
	"keypoint_name",
	"x",
	"y",
	"keypoint_confidence",
}

// Observation is one long-format row: a single keypoint of the representative
// person at a given second.
type Observation struct {
	Second              int
	PersonIndex         int
	DetectionConfidence float64
	KeypointIndex       int
	KeypointName        string
	X                   float64
	Y                   float64
	KeypointConfidence  float64
}

// SchemaError reports required columns missing from an input table header.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s is missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// ReadCSVFile loads a long-format keypoints CSV from disk.
func ReadCSVFile(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keypoints CSV: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, path)
}

// ReadCSV loads a long-format keypoints table. The header must contain every
// column in RequiredColumns; otherwise a *SchemaError naming the missing
// columns (sorted) is returned. Malformed numeric cells are row-level errors
// carrying the offending line number.
func ReadCSV(r io.Reader, name string) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Path: name, Missing: sortedCopy(RequiredColumns)}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Path: name, Missing: missing}
	}

	var obs []Observation
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read row: %w", name, err)
		}
		line++

		o, err := parseObservation(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		obs = append(obs, o)
	}

	return obs, nil
}

func parseObservation(record []string, cols map[string]int) (Observation, error) {
	var o Observation
	var err error

	if o.Second, err = parseIntField(record, cols, "second"); err != nil {
		return o, err
	}
	if o.PersonIndex, err = parseIntField(record, cols, "person_index"); err != nil {
		return o, err
	}
	if o.DetectionConfidence, err = parseFloatField(record, cols, "detection_confidence"); err != nil {
		return o, err
	}
	if o.KeypointIndex, err = parseIntField(record, cols, "keypoint_index"); err != nil {
		return o, err
	}
	o.KeypointName = strings.TrimSpace(record[cols["keypoint_name"]])
	if o.X, err = parseFloatField(record, cols, "x"); err != nil {
		return o, err
	}
	if o.Y, err = parseFloatField(record, cols, "y"); err != nil {
		return o, err
	}
	if o.KeypointConfidence, err = parseFloatField(record, cols, "keypoint_confidence"); err != nil {
		return o, err
	}

	return o, nil
}

func parseIntField(record []string, cols map[string]int, name string) (int, error) {
	raw := strings.TrimSpace(record[cols[name]])
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Extractors occasionally emit integer columns as floats ("3.0").
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("invalid %s %q", name, raw)
		}
		v = int(f)
	}
	return v, nil
}

func parseFloatField(record []string, cols map[string]int, name string) (float64, error) {
	raw := strings.TrimSpace(record[cols[name]])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// KeypointNames returns the sorted set of distinct keypoint names in the table.
func KeypointNames(obs []Observation) []string {
	seen := make(map[string]bool)
	var names []string
	for _, o := range obs {
		if !seen[o.KeypointName] {
			seen[o.KeypointName] = true
			names = append(names, o.KeypointName)
		}
	}
	sort.Strings(names)
	return names
}

func sortedCopy(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}
