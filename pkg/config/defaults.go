package config

// ApplyDefaults fills in default values for unset catalog fields.
// Budget fields default to zero, which reads as a pure-epsilon budget
// with no slack; there is nothing to invent for them.
func ApplyDefaults(cfg *Config) {
	if cfg.Accountants == nil {
		cfg.Accountants = make(map[string]AccountantConfig)
	}
}
