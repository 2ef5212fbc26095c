package config

// Config is the root of the budget catalog.
type Config struct {
	// Accountants maps accountant names to their budget declarations.
	Accountants map[string]AccountantConfig `yaml:"accountants"`

	// Default names the accountant to install as the shared default.
	// Empty means no default is installed.
	Default string `yaml:"default"`

	// Reporting configures scheduled gauge refresh.
	Reporting ReportingConfig `yaml:"reporting"`
}

// AccountantConfig declares one privacy budget.
type AccountantConfig struct {
	// Epsilon is the total epsilon budget. Must be non-negative.
	Epsilon float64 `yaml:"epsilon"`

	// Delta is the total delta budget. Must be in [0, 1).
	// Default: 0
	Delta float64 `yaml:"delta"`

	// Slack is the delta set aside for advanced composition. Must be in
	// [0, Delta].
	// Default: 0
	Slack float64 `yaml:"slack"`
}

// ReportingConfig configures the scheduled metrics reporter.
type ReportingConfig struct {
	// Schedule is a cron expression (standard five-field syntax or
	// "@every <duration>"). Empty disables scheduled reporting.
	Schedule string `yaml:"schedule"`
}
