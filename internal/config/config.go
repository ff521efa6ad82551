// Package config handles tool configuration loading and management.
package config

import (
	"fmt"

	"github.com/printlab/dotforge/pkg/mesh"
	"github.com/printlab/dotforge/pkg/quality"
	"github.com/printlab/dotforge/pkg/raster"
)

// Config holds all dotforge settings.
type Config struct {
	Conversion raster.Params  `yaml:"conversion"`
	Model      mesh.Params    `yaml:"model"`
	Quality    quality.Config `yaml:"quality"`
	Jobs       JobsConfig     `yaml:"jobs"`
	Logging    LoggingConfig  `yaml:"logging"`
}

// JobsConfig bounds the background job coordinator.
type JobsConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	BatchSize     int `yaml:"batch_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config carrying each package's defaults.
func Default() *Config {
	return &Config{
		Conversion: raster.DefaultParams(),
		Model:      mesh.DefaultParams(),
		Quality:    quality.DefaultConfig(),
		Jobs: JobsConfig{
			MaxConcurrent: 4,
			BatchSize:     8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.Conversion.Err(); err != nil {
		return fmt.Errorf("conversion: %w", err)
	}
	if err := c.Model.Err(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if c.Jobs.MaxConcurrent < 1 {
		return fmt.Errorf("jobs: max_concurrent must be at least 1, have %d", c.Jobs.MaxConcurrent)
	}
	if c.Jobs.BatchSize < 1 {
		return fmt.Errorf("jobs: batch_size must be at least 1, have %d", c.Jobs.BatchSize)
	}
	return nil
}
