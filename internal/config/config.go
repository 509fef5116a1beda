// Package config loads optional JSON run configuration for the alignment
// pipeline. Fields omitted from the file keep their defaults, so partial
// configs are safe; command-line flags override file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rowlytics/strokealign/internal/align"
	"github.com/rowlytics/strokealign/internal/pose"
)

// Defaults for the alignment parameters.
const (
	DefaultStep               = 0.10
	DefaultTolerance          = 0.05
	DefaultKeypointConfidence = 0.25
	DefaultHeadMethod         = align.MethodConfWeightedAvg
)

// RunConfig represents the JSON run configuration. All fields are optional.
type RunConfig struct {
	Step               *float64 `json:"step,omitempty"`
	Tolerance          *float64 `json:"tolerance,omitempty"`
	HeadKeypoints      *string  `json:"head_keypoints,omitempty"` // comma-separated names
	KeypointConfidence *float64 `json:"keypoint_confidence,omitempty"`
	HeadMethod         *string  `json:"head_method,omitempty"`
}

// EmptyRunConfig returns a RunConfig with all fields unset; the Get* methods
// supply defaults for anything missing.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// LoadRunConfig loads a RunConfig from a JSON file. The file must have a
// .json extension and be under the max file size.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *RunConfig) Validate() error {
	if c.Step != nil {
		if *c.Step <= 0 || *c.Step > 1 {
			return fmt.Errorf("step must be in (0, 1], got %g", *c.Step)
		}
	}
	if c.Tolerance != nil {
		if *c.Tolerance < 0 {
			return fmt.Errorf("tolerance must be >= 0, got %g", *c.Tolerance)
		}
	}
	if c.KeypointConfidence != nil {
		if *c.KeypointConfidence < 0 || *c.KeypointConfidence > 1 {
			return fmt.Errorf("keypoint_confidence must be between 0 and 1, got %g", *c.KeypointConfidence)
		}
	}
	if c.HeadMethod != nil {
		if !align.IsValidMethod(*c.HeadMethod) {
			return fmt.Errorf("unknown head_method %q (valid: %s)", *c.HeadMethod, align.ValidMethodsString())
		}
	}
	if c.HeadKeypoints != nil {
		if len(SplitKeypointList(*c.HeadKeypoints)) == 0 {
			return fmt.Errorf("head_keypoints must name at least one keypoint")
		}
	}
	return nil
}

// GetStep returns the step value or the default.
func (c *RunConfig) GetStep() float64 {
	if c.Step == nil {
		return DefaultStep
	}
	return *c.Step
}

// GetTolerance returns the tolerance value or the default.
func (c *RunConfig) GetTolerance() float64 {
	if c.Tolerance == nil {
		return DefaultTolerance
	}
	return *c.Tolerance
}

// GetHeadKeypoints returns the head keypoint names or the default set.
func (c *RunConfig) GetHeadKeypoints() []string {
	if c.HeadKeypoints == nil {
		return append([]string(nil), pose.DefaultHeadKeypoints...)
	}
	return SplitKeypointList(*c.HeadKeypoints)
}

// GetKeypointConfidence returns the confidence threshold or the default.
func (c *RunConfig) GetKeypointConfidence() float64 {
	if c.KeypointConfidence == nil {
		return DefaultKeypointConfidence
	}
	return *c.KeypointConfidence
}

// GetHeadMethod returns the head aggregation method or the default.
func (c *RunConfig) GetHeadMethod() string {
	if c.HeadMethod == nil {
		return DefaultHeadMethod
	}
	return *c.HeadMethod
}

// SplitKeypointList parses a comma-separated keypoint name list, dropping
// empty entries.
func SplitKeypointList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
