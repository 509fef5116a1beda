package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rowlytics/strokealign/internal/align"
	"github.com/rowlytics/strokealign/internal/pose"
)

func TestParseCommandLineDefaults(t *testing.T) {
	opts, err := parseCommandLine([]string{"a.csv", "b.csv"})
	if err != nil {
		t.Fatalf("parseCommandLine returned error: %v", err)
	}

	if opts.Source1 != "a.csv" || opts.Source2 != "b.csv" {
		t.Errorf("sources = %q, %q", opts.Source1, opts.Source2)
	}
	if opts.Out != "aligned_head_progress.csv" {
		t.Errorf("out = %q", opts.Out)
	}

	want := align.Params{
		Step:               0.10,
		Tolerance:          0.05,
		HeadKeypoints:      pose.DefaultHeadKeypoints,
		KeypointConfidence: 0.25,
		HeadMethod:         align.MethodConfWeightedAvg,
	}
	if diff := cmp.Diff(want, opts.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommandLineFlags(t *testing.T) {
	opts, err := parseCommandLine([]string{
		"-out", "result.csv",
		"-step", "0.25",
		"-tolerance", "0.1",
		"-head-kps", "nose,left_ear",
		"-kp-conf", "0.5",
		"-head-method", "simple_avg",
		"a.csv", "b.csv",
	})
	if err != nil {
		t.Fatalf("parseCommandLine returned error: %v", err)
	}

	if opts.Out != "result.csv" {
		t.Errorf("out = %q", opts.Out)
	}
	if opts.Params.Step != 0.25 || opts.Params.Tolerance != 0.1 {
		t.Errorf("step/tolerance = %v/%v", opts.Params.Step, opts.Params.Tolerance)
	}
	if diff := cmp.Diff([]string{"nose", "left_ear"}, opts.Params.HeadKeypoints); diff != "" {
		t.Errorf("head keypoints mismatch (-want +got):\n%s", diff)
	}
	if opts.Params.HeadMethod != align.MethodSimpleAvg {
		t.Errorf("head method = %q", opts.Params.HeadMethod)
	}
}

func TestParseCommandLineArgCount(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"only-one.csv"},
		{"a.csv", "b.csv", "c.csv"},
	} {
		if _, err := parseCommandLine(args); err == nil {
			t.Errorf("parseCommandLine(%v) should fail", args)
		}
	}
}

func TestParseCommandLineRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad method", []string{"-head-method", "median", "a.csv", "b.csv"}},
		{"step out of range", []string{"-step", "1.5", "a.csv", "b.csv"}},
		{"negative tolerance", []string{"-tolerance", "-0.1", "a.csv", "b.csv"}},
		{"empty head keypoints", []string{"-head-kps", " , ", "a.csv", "b.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCommandLine(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseCommandLineConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(`{"step": 0.2, "tolerance": 0.08}`), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := parseCommandLine([]string{"-config", path, "a.csv", "b.csv"})
	if err != nil {
		t.Fatalf("parseCommandLine returned error: %v", err)
	}
	if opts.Params.Step != 0.2 || opts.Params.Tolerance != 0.08 {
		t.Errorf("config file values not applied: %+v", opts.Params)
	}
}

func TestParseCommandLineFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(`{"step": 0.2, "head_method": "nose"}`), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := parseCommandLine([]string{"-config", path, "-step", "0.5", "a.csv", "b.csv"})
	if err != nil {
		t.Fatalf("parseCommandLine returned error: %v", err)
	}
	if opts.Params.Step != 0.5 {
		t.Errorf("explicit flag should win over config file, step = %v", opts.Params.Step)
	}
	if opts.Params.HeadMethod != align.MethodNose {
		t.Errorf("config value without a flag should survive, method = %q", opts.Params.HeadMethod)
	}
}

func TestFormatCheckpoints(t *testing.T) {
	got := formatCheckpoints([]float64{0, 0.1, 0.5, 1})
	if got != "0, 0.1, 0.5, 1" {
		t.Errorf("formatCheckpoints = %q", got)
	}
}

func TestParseCommandLineMissingConfigFile(t *testing.T) {
	args := []string{"-config", filepath.Join(t.TempDir(), "absent.json"), "a.csv", "b.csv"}
	if _, err := parseCommandLine(args); err == nil || !strings.Contains(err.Error(), "config") {
		t.Errorf("expected config file error, got %v", err)
	}
}
