package roles

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML representation of a hand-off graph.
type Config struct {
	// Root names the entry role. Defaults to GeneralResearch when empty.
	Root string `yaml:"root"`

	// Roles lists the role specs. Required.
	Roles []Spec `yaml:"roles"`
}

// Graph validates the configured specs and builds a graph from them.
func (c *Config) Graph() (*Graph, error) {
	root := c.Root
	if root == "" {
		root = GeneralResearch
	}
	return NewGraph(root, c.Roles)
}

// Load reads a graph configuration from a YAML file and validates it.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roles: failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("roles: failed to parse config: %w", err)
	}
	return cfg.Graph()
}
