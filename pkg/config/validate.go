package config

import (
	"fmt"
	"math"

	"github.com/robfig/cron/v3"
)

// Validate checks the catalog for malformed budget declarations.
// The constraints mirror accountant construction: a catalog that
// validates here will build without errors.
func Validate(cfg *Config) error {
	for name, acc := range cfg.Accountants {
		if err := validateAccountant(name, acc); err != nil {
			return err
		}
	}

	if cfg.Default != "" {
		if _, ok := cfg.Accountants[cfg.Default]; !ok {
			return fmt.Errorf("default accountant %q is not declared in the catalog", cfg.Default)
		}
	}

	if cfg.Reporting.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Reporting.Schedule); err != nil {
			return fmt.Errorf("invalid reporting schedule %q: %w", cfg.Reporting.Schedule, err)
		}
	}

	return nil
}

// validateAccountant checks a single budget declaration.
func validateAccountant(name string, acc AccountantConfig) error {
	if acc.Epsilon < 0 || math.IsNaN(acc.Epsilon) {
		return fmt.Errorf("accountant %q: epsilon %v must be non-negative", name, acc.Epsilon)
	}
	if acc.Delta < 0 || acc.Delta >= 1 || math.IsNaN(acc.Delta) {
		return fmt.Errorf("accountant %q: delta %v must be in [0, 1)", name, acc.Delta)
	}
	if acc.Slack < 0 || acc.Slack > acc.Delta || math.IsNaN(acc.Slack) {
		return fmt.Errorf("accountant %q: slack %v must be in [0, delta]", name, acc.Slack)
	}
	return nil
}
