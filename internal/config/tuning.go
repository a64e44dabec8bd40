// Package config loads fit tuning parameters from JSON files. Fields
// omitted from the file keep their defaults, so partial configs are
// safe to ship.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flaxengeo/lidartraj/internal/traj"
)

// TuningConfig overrides individual fit parameters. Nil fields leave
// the default untouched.
type TuningConfig struct {
	// Solver weights
	PositionWeight   *float64 `json:"position_weight,omitempty"`
	VelocityWeight   *float64 `json:"velocity_weight,omitempty"`
	ConstraintWeight *float64 `json:"constraint_weight,omitempty"`

	// Missing-node handling
	MissingPolicy *string `json:"missing_policy,omitempty"` // "clamp" or "acceljump"
	LinearFill    *bool   `json:"linear_fill,omitempty"`

	// Convergence
	GradientTolerance *float64 `json:"gradient_tolerance,omitempty"`
	MaxIterations     *int     `json:"max_iterations,omitempty"`

	// Block grid timing
	BlockDuration *float64 `json:"block_duration,omitempty"`
	StartTime     *float64 `json:"start_time,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path is
// validated to have a .json extension and be under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
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

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the solver cannot use.
func (c *TuningConfig) Validate() error {
	if c.PositionWeight != nil && *c.PositionWeight < 0 {
		return fmt.Errorf("position_weight must be non-negative, got %g", *c.PositionWeight)
	}
	if c.VelocityWeight != nil && *c.VelocityWeight < 0 {
		return fmt.Errorf("velocity_weight must be non-negative, got %g", *c.VelocityWeight)
	}
	if c.ConstraintWeight != nil && *c.ConstraintWeight <= 0 {
		return fmt.Errorf("constraint_weight must be positive, got %g", *c.ConstraintWeight)
	}
	if c.MissingPolicy != nil {
		if _, err := traj.ParseMissingPolicy(*c.MissingPolicy); err != nil {
			return fmt.Errorf("missing_policy must be \"clamp\" or \"acceljump\", got %q", *c.MissingPolicy)
		}
	}
	if c.GradientTolerance != nil && *c.GradientTolerance <= 0 {
		return fmt.Errorf("gradient_tolerance must be positive, got %g", *c.GradientTolerance)
	}
	if c.MaxIterations != nil && *c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", *c.MaxIterations)
	}
	if c.BlockDuration != nil && *c.BlockDuration <= 0 {
		return fmt.Errorf("block_duration must be positive, got %g", *c.BlockDuration)
	}
	return nil
}

// Apply overlays the non-nil overrides onto cfg.
func (c *TuningConfig) Apply(cfg *traj.FitConfig) {
	if c.PositionWeight != nil {
		cfg.PositionWeight = *c.PositionWeight
	}
	if c.VelocityWeight != nil {
		cfg.VelocityWeight = *c.VelocityWeight
	}
	if c.ConstraintWeight != nil {
		cfg.ConstraintWeight = *c.ConstraintWeight
	}
	if c.MissingPolicy != nil {
		if p, err := traj.ParseMissingPolicy(*c.MissingPolicy); err == nil {
			cfg.MissingPolicy = p
		}
	}
	if c.GradientTolerance != nil {
		cfg.GradientTolerance = *c.GradientTolerance
	}
	if c.MaxIterations != nil {
		cfg.MaxIterations = *c.MaxIterations
	}
}
