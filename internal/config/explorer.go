package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical explorer defaults file.
const DefaultConfigPath = "config/explorer.defaults.json"

// ExplorerConfig is the root configuration for the frontier service and the
// exploration simulator. Every field is optional; the Get* accessors supply
// defaults for anything the file omits.
type ExplorerConfig struct {
	// Service params
	RequestTimeout  *string `json:"request_timeout,omitempty"`  // duration string like "2s"
	ShutdownTimeout *string `json:"shutdown_timeout,omitempty"` // duration string like "5s"
	MaxGridCells    *int    `json:"max_grid_cells,omitempty"`
	RecordQueries   *bool   `json:"record_queries,omitempty"`

	// Simulation params
	RevealRadius    *int     `json:"reveal_radius,omitempty"`
	MaxSteps        *int     `json:"max_steps,omitempty"`
	StepInterval    *string  `json:"step_interval,omitempty"` // duration string like "800ms"
	FrameSizeInches *float64 `json:"frame_size_inches,omitempty"`
}

// Defaults used when a field is absent.
const (
	defaultRequestTimeout  = 2 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultMaxGridCells    = 1 << 20
	defaultRecordQueries   = true
	defaultRevealRadius    = 1
	defaultMaxSteps        = 10
	defaultStepInterval    = 800 * time.Millisecond
	defaultFrameSizeInches = 6.0
)

// EmptyConfig returns an ExplorerConfig with all fields unset.
func EmptyConfig() *ExplorerConfig {
	return &ExplorerConfig{}
}

// LoadConfig loads an ExplorerConfig from a JSON file.
// The file must have a .json extension and be at most 1MB. Omitted fields
// keep their defaults, so partial configs are safe.
func LoadConfig(path string) (*ExplorerConfig, error) {
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

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *ExplorerConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/<binary>/
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *ExplorerConfig) Validate() error {
	for name, v := range map[string]*string{
		"request_timeout":  c.RequestTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
		"step_interval":    c.StepInterval,
	} {
		if v == nil || *v == "" {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %s", name, *v)
		}
	}

	if c.MaxGridCells != nil && *c.MaxGridCells < 9 {
		return fmt.Errorf("max_grid_cells must be at least 9, got %d", *c.MaxGridCells)
	}
	if c.RevealRadius != nil && *c.RevealRadius < 0 {
		return fmt.Errorf("reveal_radius must be non-negative, got %d", *c.RevealRadius)
	}
	if c.MaxSteps != nil && *c.MaxSteps < 1 {
		return fmt.Errorf("max_steps must be at least 1, got %d", *c.MaxSteps)
	}
	if c.FrameSizeInches != nil && *c.FrameSizeInches <= 0 {
		return fmt.Errorf("frame_size_inches must be positive, got %f", *c.FrameSizeInches)
	}
	return nil
}

func parseDurationOr(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def // default on parse error
	}
	return d
}

// GetRequestTimeout returns the per-request deadline applied by the service.
func (c *ExplorerConfig) GetRequestTimeout() time.Duration {
	return parseDurationOr(c.RequestTimeout, defaultRequestTimeout)
}

// GetShutdownTimeout returns how long the service waits for in-flight
// requests on shutdown.
func (c *ExplorerConfig) GetShutdownTimeout() time.Duration {
	return parseDurationOr(c.ShutdownTimeout, defaultShutdownTimeout)
}

// GetMaxGridCells returns the largest grid (width×height) accepted by /update.
func (c *ExplorerConfig) GetMaxGridCells() int {
	if c.MaxGridCells == nil {
		return defaultMaxGridCells
	}
	return *c.MaxGridCells
}

// GetRecordQueries reports whether target queries are persisted.
func (c *ExplorerConfig) GetRecordQueries() bool {
	if c.RecordQueries == nil {
		return defaultRecordQueries
	}
	return *c.RecordQueries
}

// GetRevealRadius returns the half-width of the square revealed after each
// simulated move. 1 reveals the 3×3 block around the robot.
func (c *ExplorerConfig) GetRevealRadius() int {
	if c.RevealRadius == nil {
		return defaultRevealRadius
	}
	return *c.RevealRadius
}

// GetMaxSteps returns the simulation step cap.
func (c *ExplorerConfig) GetMaxSteps() int {
	if c.MaxSteps == nil {
		return defaultMaxSteps
	}
	return *c.MaxSteps
}

// GetStepInterval returns the pause between simulation steps.
func (c *ExplorerConfig) GetStepInterval() time.Duration {
	return parseDurationOr(c.StepInterval, defaultStepInterval)
}

// GetFrameSizeInches returns the side length of rendered frame images.
func (c *ExplorerConfig) GetFrameSizeInches() float64 {
	if c.FrameSizeInches == nil {
		return defaultFrameSizeInches
	}
	return *c.FrameSizeInches
}
