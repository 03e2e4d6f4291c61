package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the planner's service configuration.
type Config struct {
	CatalogPath string `yaml:"catalog_path"`

	SampleIntervalSeconds     int     `yaml:"sample_interval_seconds"`
	TransitionDurationMinutes int     `yaml:"transition_duration_minutes"`
	SwapDurationMinutes       int     `yaml:"swap_duration_minutes"`
	MinElevationDeg           float64 `yaml:"min_elevation_deg"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns sensible defaults in case no configuration file
// is provided.
func DefaultConfig() Config {
	return Config{
		CatalogPath:               "configs/catalog.json",
		SampleIntervalSeconds:     60,
		TransitionDurationMinutes: 10,
		SwapDurationMinutes:       5,
		MinElevationDeg:           5,
		LogLevel:                  "info",
		LogFormat:                 "text",
	}
}

// Load reads configuration from a YAML file. A missing file falls back
// to defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.SampleIntervalSeconds <= 0 {
		cfg.SampleIntervalSeconds = DefaultConfig().SampleIntervalSeconds
	}
	if cfg.TransitionDurationMinutes <= 0 {
		cfg.TransitionDurationMinutes = DefaultConfig().TransitionDurationMinutes
	}
	if cfg.SwapDurationMinutes <= 0 {
		cfg.SwapDurationMinutes = DefaultConfig().SwapDurationMinutes
	}
	if cfg.MinElevationDeg <= 0 {
		cfg.MinElevationDeg = DefaultConfig().MinElevationDeg
	}
	return cfg, nil
}
