package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the budget catalog from a YAML file at the specified path.
// It applies default values, validates the catalog, and returns any
// errors before a single accountant is built.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read budget catalog %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse budget catalog %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("budget catalog validation failed: %w", err)
	}

	return &cfg, nil
}
