// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/segment-reader/internal/detection"
	"github.com/ironsheep/segment-reader/internal/reader"
)

// Environment variables read by LoadFromEnv.
const (
	EnvLogLevel         = "SEGMENT_READER_LOG_LEVEL"
	EnvLayout           = "SEGMENT_READER_LAYOUT"
	EnvThreshold        = "SEGMENT_READER_THRESHOLD"
	EnvKernel           = "SEGMENT_READER_KERNEL"
	EnvDilateIterations = "SEGMENT_READER_DILATE_ITERATIONS"
)

// Config holds the runtime settings of the reader. The three preprocessing
// fields feed detection.Options; their defaults reproduce the pipeline the
// digit patterns were tuned against.
type Config struct {
	// LogLevel is one of debug, info, warn or error. It is the only place
	// the log level is read from the environment.
	LogLevel string

	// LayoutPath is an optional YAML layout file. Empty means DefaultLayout.
	LayoutPath string

	Threshold        int
	KernelSize       int
	DilateIterations int
}

// LoadFromEnv reads the configuration from the environment, applying defaults
// for unset or unparsable values, and validates the result.
func LoadFromEnv() (*Config, error) {
	defaults := detection.DefaultOptions()
	cfg := &Config{
		LogLevel:         getEnvOrDefault(EnvLogLevel, "info"),
		LayoutPath:       strings.TrimSpace(os.Getenv(EnvLayout)),
		Threshold:        parseIntOrDefault(EnvThreshold, int(defaults.Cutoff)),
		KernelSize:       parseIntOrDefault(EnvKernel, defaults.KernelSize),
		DilateIterations: parseIntOrDefault(EnvDilateIterations, defaults.Iterations),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ranges of the preprocessing settings.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("%s must be in [0, 255] (got %d)", EnvThreshold, c.Threshold)
	}
	if c.KernelSize < 1 || c.KernelSize%2 == 0 {
		return fmt.Errorf("%s must be a positive odd number (got %d)", EnvKernel, c.KernelSize)
	}
	if c.DilateIterations < 0 {
		return fmt.Errorf("%s must be >= 0 (got %d)", EnvDilateIterations, c.DilateIterations)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%s must be one of debug, info, warn, error (got %q)", EnvLogLevel, c.LogLevel)
	}
	return nil
}

// DetectorOptions returns the line detector preprocessing options.
func (c *Config) DetectorOptions() detection.Options {
	return detection.Options{
		Cutoff:     uint8(c.Threshold),
		KernelSize: c.KernelSize,
		Iterations: c.DilateIterations,
	}
}

// Layout loads LayoutPath, or returns the default layout when it is empty.
func (c *Config) Layout() (reader.Layout, error) {
	if c.LayoutPath == "" {
		return reader.DefaultLayout(), nil
	}
	return reader.LoadLayout(c.LayoutPath)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}
