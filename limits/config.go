package limits

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML shape of a limits file. Unset fields fall back to the
// Default values, so a partial file is valid.
//
// Example:
//
//	max_iterations: 60
//	max_revision_cycles: 2
//	max_api_calls: 120
//	max_duration: 8m
//	early_termination: true
type Config struct {
	MaxIterations     int    `yaml:"max_iterations,omitempty"`
	MaxRevisionCycles int    `yaml:"max_revision_cycles,omitempty"`
	MaxAPICalls       int    `yaml:"max_api_calls,omitempty"`
	MaxDuration       string `yaml:"max_duration,omitempty"`
	EarlyTermination  *bool  `yaml:"early_termination,omitempty"`
}

// Limits converts the config to a Limits value, applying defaults for any
// field left unset.
func (c *Config) Limits() (Limits, error) {
	l := Default()
	if c.MaxIterations > 0 {
		l.MaxIterations = c.MaxIterations
	}
	if c.MaxRevisionCycles > 0 {
		l.MaxRevisionCycles = c.MaxRevisionCycles
	}
	if c.MaxAPICalls > 0 {
		l.MaxAPICalls = c.MaxAPICalls
	}
	if c.MaxDuration != "" {
		d, err := time.ParseDuration(c.MaxDuration)
		if err != nil {
			return Limits{}, fmt.Errorf("limits: invalid max_duration %q: %w", c.MaxDuration, err)
		}
		l.MaxDuration = d
	}
	if c.EarlyTermination != nil {
		l.EarlyTermination = *c.EarlyTermination
	}
	return l, nil
}

// Load reads a limits YAML file and converts it, applying defaults for any
// field the file omits.
func Load(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("limits: failed to read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Limits{}, fmt.Errorf("limits: failed to parse config %s: %w", path, err)
	}
	return cfg.Limits()
}
