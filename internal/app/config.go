package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // hcl declaration file or directory
	OutDir       string // empty: artifacts go to stdout

	Provider         string
	Project          string
	Region           string
	StateBucket      string
	TerraformVersion string
	ServiceAccount   string
	AutoApprove      bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a config value.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
