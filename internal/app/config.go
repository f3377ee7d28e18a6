package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GraphPath is a single .hcl graph file or a directory of them.
	GraphPath string
	// TuningPath is an optional knob file; empty means strategy defaults.
	TuningPath string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a raw config value.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
