// Package config loads the toggle set that governs a run of the
// pipeline: whether the diagnostic sink surfaces every diagnostic or
// just the first, whether the type checker rejects Unknown-typed
// parameters, and an optional evaluator step ceiling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the toggle set read by cmd/minilang and the REPL. Default()
// returns the defaults (diagnostics surface first-only, strict type
// annotations are required, no step ceiling); the zero value differs
// from them in having StrictTypes off.
type Config struct {
	AllErrors  bool `yaml:"all_errors"`
	StrictTypes bool `yaml:"strict_types"`
	MaxSteps   *int `yaml:"max_steps"`
}

// Default returns the configuration a run starts from absent a file:
// strict type annotations on, first-diagnostic-only, no step ceiling.
func Default() Config {
	return Config{
		AllErrors:   false,
		StrictTypes: true,
		MaxSteps:    nil,
	}
}

// Load reads a YAML config file, overlaying it on Default(). A missing
// field keeps its default value rather than zeroing it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var overlay struct {
		AllErrors   *bool `yaml:"all_errors"`
		StrictTypes *bool `yaml:"strict_types"`
		MaxSteps    *int  `yaml:"max_steps"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if overlay.AllErrors != nil {
		cfg.AllErrors = *overlay.AllErrors
	}
	if overlay.StrictTypes != nil {
		cfg.StrictTypes = *overlay.StrictTypes
	}
	if overlay.MaxSteps != nil {
		cfg.MaxSteps = overlay.MaxSteps
	}

	return cfg, nil
}

// StepCeiling returns the configured MaxSteps, or 0 (no ceiling) when
// unset.
func (c Config) StepCeiling() int {
	if c.MaxSteps == nil {
		return 0
	}
	return *c.MaxSteps
}
