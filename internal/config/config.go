// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for phylobench.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given.
const DefaultConfigFile = "phylobench.toml"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete phylobench configuration.
type Config struct {
	Sample SampleConfig `toml:"sample"`
	Sweep  SweepConfig  `toml:"sweep"`
	Plot   PlotConfig   `toml:"plot"`
	Store  StoreConfig  `toml:"store"`
}

// SampleConfig controls random taxon subsampling.
type SampleConfig struct {
	// Universe is the number of synthetic tip labels to draw from.
	Universe int `toml:"universe"`
	// Size is the subsample size. 0 means Universe/2.
	Size int `toml:"size"`
	// LabelPrefix is prepended to the drawn index ("Tip" gives "Tip17").
	LabelPrefix string `toml:"label_prefix"`
}

// SweepConfig controls the batch sweep over simulated tree pairs.
type SweepConfig struct {
	// Input is a file with one tab-separated tree pair per line.
	Input string `toml:"input"`
	// Iterations is how many timed trials are averaged per tree.
	Iterations int `toml:"iterations"`
	// Prefix names the output files: <prefix>-contract-times.csv etc.
	Prefix string `toml:"prefix"`
	// OutDir is where the CSVs are written.
	OutDir string `toml:"out_dir"`
	// LabelPrefix for the sweep subsamples. Simulated trees use bare indexes.
	LabelPrefix string `toml:"label_prefix"`
}

// PlotConfig controls chart rendering.
type PlotConfig struct {
	MemoryCSV  string  `toml:"memory_csv"`
	RuntimeCSV string  `toml:"runtime_csv"`
	MemoryPNG  string  `toml:"memory_png"`
	RuntimePNG string  `toml:"runtime_png"`
	WidthIn    float64 `toml:"width_in"`
	HeightIn   float64 `toml:"height_in"`
	DPI        int     `toml:"dpi"`
}

// StoreConfig locates the SQLite results ledger.
type StoreConfig struct {
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sample: SampleConfig{
			Universe:    200,
			LabelPrefix: "Tip",
		},
		Sweep: SweepConfig{
			Input:      "sim_trees",
			Iterations: 100,
			Prefix:     "gotree",
			OutDir:     ".",
		},
		Plot: PlotConfig{
			MemoryCSV:  "./mem-util.csv",
			RuntimeCSV: "./runtimes.csv",
			MemoryPNG:  "memory-scalability.png",
			RuntimePNG: "runtime-scalability.png",
			WidthIn:    10,
			HeightIn:   8,
			DPI:        300,
		},
		Store: StoreConfig{
			Path: "phylobench.db",
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load builds the configuration from defaults, the TOML file at path and the
// environment. An empty path means DefaultConfigFile, which may be absent.
// An explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// SetDefaults fills derived values.
func (c *Config) SetDefaults() {
	if c.Sample.Size == 0 {
		c.Sample.Size = c.Sample.Universe / 2
	}
	if c.Sweep.OutDir == "" {
		c.Sweep.OutDir = "."
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Sample.Universe <= 0 {
		errs = append(errs, ValidationError{
			Field:   "sample.universe",
			Message: fmt.Sprintf("must be positive, got %d", c.Sample.Universe),
		})
	}
	if c.Sample.Size < 0 || c.Sample.Size > c.Sample.Universe {
		errs = append(errs, ValidationError{
			Field:   "sample.size",
			Message: fmt.Sprintf("must be within 0-%d, got %d", c.Sample.Universe, c.Sample.Size),
		})
	}

	if c.Sweep.Iterations <= 0 {
		errs = append(errs, ValidationError{
			Field:   "sweep.iterations",
			Message: fmt.Sprintf("must be positive, got %d", c.Sweep.Iterations),
		})
	}
	if c.Sweep.Prefix == "" {
		errs = append(errs, ValidationError{Field: "sweep.prefix", Message: "cannot be empty"})
	}

	if c.Plot.WidthIn <= 0 || c.Plot.HeightIn <= 0 {
		errs = append(errs, ValidationError{
			Field:   "plot.width_in/height_in",
			Message: fmt.Sprintf("must be positive, got %gx%g", c.Plot.WidthIn, c.Plot.HeightIn),
		})
	}
	if c.Plot.DPI <= 0 || c.Plot.DPI > 1200 {
		errs = append(errs, ValidationError{
			Field:   "plot.dpi",
			Message: fmt.Sprintf("must be 1-1200, got %d", c.Plot.DPI),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ErrBadEnv is returned when a numeric environment override does not parse.
var ErrBadEnv = errors.New("invalid environment override")

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PHYLOBENCH_SAMPLE_UNIVERSE, PHYLOBENCH_SAMPLE_SIZE
//   - PHYLOBENCH_LABEL_PREFIX
//   - PHYLOBENCH_SWEEP_INPUT, PHYLOBENCH_SWEEP_ITERATIONS
//   - PHYLOBENCH_SWEEP_PREFIX, PHYLOBENCH_SWEEP_OUT_DIR
//   - PHYLOBENCH_PLOT_DPI
//   - PHYLOBENCH_DB
func (c *Config) ApplyEnvOverrides() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"PHYLOBENCH_SAMPLE_UNIVERSE", &c.Sample.Universe},
		{"PHYLOBENCH_SAMPLE_SIZE", &c.Sample.Size},
		{"PHYLOBENCH_SWEEP_ITERATIONS", &c.Sweep.Iterations},
		{"PHYLOBENCH_PLOT_DPI", &c.Plot.DPI},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnv, e.key, v)
		}
		*e.dst = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"PHYLOBENCH_LABEL_PREFIX", &c.Sample.LabelPrefix},
		{"PHYLOBENCH_SWEEP_INPUT", &c.Sweep.Input},
		{"PHYLOBENCH_SWEEP_PREFIX", &c.Sweep.Prefix},
		{"PHYLOBENCH_SWEEP_OUT_DIR", &c.Sweep.OutDir},
		{"PHYLOBENCH_DB", &c.Store.Path},
	}
	for _, e := range strs {
		if v, ok := os.LookupEnv(e.key); ok {
			*e.dst = v
		}
	}
	return nil
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the configuration installed with SetGlobal, or the
// defaults if none was set.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg == nil {
		return Default()
	}
	return cfg
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}
