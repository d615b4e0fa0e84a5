package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	MissionPath string
	EnvFile     string

	// TimeoutSeconds overrides the system default per-step timeout when
	// positive. Mission and step level timeouts still take precedence.
	TimeoutSeconds int

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.MissionPath == "" {
		return nil, errors.New("MissionPath is a required configuration field and cannot be empty")
	}
	if cfg.TimeoutSeconds < 0 {
		return nil, errors.New("TimeoutSeconds must not be negative")
	}
	return &cfg, nil
}
