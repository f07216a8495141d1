// Package config loads bout extraction parameters from JSON files. Fields
// omitted from the file keep their documented defaults, so partial configs
// are safe; the Get* accessors resolve the effective values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/swimbouts/internal/bout"
	"github.com/banshee-data/swimbouts/internal/segment"
)

// ExtractionConfig mirrors the bout extraction parameters as an optional
// JSON document. Pointer fields distinguish "absent" from "zero".
type ExtractionConfig struct {
	MaxInterpolate *int     `json:"max_interpolate,omitempty"`
	WindowSize     *int     `json:"window_size,omitempty"`
	RecalculateVel *bool    `json:"recalculate_vel,omitempty"`
	MedianVel      *bool    `json:"median_vel,omitempty"`
	ScaleMM        *float64 `json:"scale_mm,omitempty"`
	ThresholdMMPS  *float64 `json:"threshold_mmps,omitempty"`

	// Segment extractor policy
	MinDuration *int `json:"min_duration,omitempty"`
	PadBefore   *int `json:"pad_before,omitempty"`
	PadAfter    *int `json:"pad_after,omitempty"`
	MaxFrames   *int `json:"max_frames,omitempty"`
}

// Load reads an ExtractionConfig from a JSON file. The path must have a
// .json extension and the file must be under 1MB.
func Load(path string) (*ExtractionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &ExtractionConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the set fields for invalid values. Full cross-field
// validation happens again in bout.Config.Validate once defaults are
// resolved.
func (c *ExtractionConfig) Validate() error {
	if c.MaxInterpolate != nil && *c.MaxInterpolate < 0 {
		return fmt.Errorf("max_interpolate must be non-negative, got %d", *c.MaxInterpolate)
	}
	if c.WindowSize != nil && *c.WindowSize < 2 {
		return fmt.Errorf("window_size must be at least 2, got %d", *c.WindowSize)
	}
	if c.ScaleMM != nil && *c.ScaleMM <= 0 {
		return fmt.Errorf("scale_mm must be positive, got %f", *c.ScaleMM)
	}
	if c.ThresholdMMPS != nil && *c.ThresholdMMPS <= 0 {
		return fmt.Errorf("threshold_mmps must be positive, got %f", *c.ThresholdMMPS)
	}
	for _, f := range []struct {
		name string
		val  *int
	}{
		{"min_duration", c.MinDuration},
		{"pad_before", c.PadBefore},
		{"pad_after", c.PadAfter},
		{"max_frames", c.MaxFrames},
	} {
		if f.val != nil && *f.val < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", f.name, *f.val)
		}
	}
	return nil
}

// GetMaxInterpolate returns the max_interpolate value or the default.
func (c *ExtractionConfig) GetMaxInterpolate() int {
	if c.MaxInterpolate == nil {
		return 2 // default
	}
	return *c.MaxInterpolate
}

// GetWindowSize returns the window_size value or the default.
func (c *ExtractionConfig) GetWindowSize() int {
	if c.WindowSize == nil {
		return 7 // default
	}
	return *c.WindowSize
}

// GetRecalculateVel returns the recalculate_vel value or the default.
func (c *ExtractionConfig) GetRecalculateVel() bool {
	if c.RecalculateVel == nil {
		return false // default
	}
	return *c.RecalculateVel
}

// GetMedianVel returns the median_vel value or the default.
func (c *ExtractionConfig) GetMedianVel() bool {
	if c.MedianVel == nil {
		return false // default
	}
	return *c.MedianVel
}

// GetScaleMM returns the scale_mm value, or zero meaning "derive from
// calibration".
func (c *ExtractionConfig) GetScaleMM() float64 {
	if c.ScaleMM == nil {
		return 0
	}
	return *c.ScaleMM
}

// GetThresholdMMPS returns the threshold_mmps value or the default.
func (c *ExtractionConfig) GetThresholdMMPS() float64 {
	if c.ThresholdMMPS == nil {
		return 1 // default
	}
	return *c.ThresholdMMPS
}

// GetSegmentOptions resolves the segment extractor policy, defaulting to
// segment.DefaultOptions for unset fields.
func (c *ExtractionConfig) GetSegmentOptions() segment.Options {
	opts := segment.DefaultOptions()
	if c.MinDuration != nil {
		opts.MinDuration = *c.MinDuration
	}
	if c.PadBefore != nil {
		opts.PadBefore = *c.PadBefore
	}
	if c.PadAfter != nil {
		opts.PadAfter = *c.PadAfter
	}
	if c.MaxFrames != nil {
		opts.MaxFrames = *c.MaxFrames
	}
	return opts
}

// BoutConfig resolves the document into the bout extraction config.
func (c *ExtractionConfig) BoutConfig() bout.Config {
	return bout.Config{
		MaxInterpolate: c.GetMaxInterpolate(),
		WindowSize:     c.GetWindowSize(),
		RecalculateVel: c.GetRecalculateVel(),
		MedianVel:      c.GetMedianVel(),
		ScaleMM:        c.GetScaleMM(),
		ThresholdMMPS:  c.GetThresholdMMPS(),
		Segment:        c.GetSegmentOptions(),
	}
}
