// Package config loads the budget catalog: a YAML file declaring named
// privacy budgets, the default accountant, and the reporting schedule.
//
// # Catalog format
//
//	accountants:
//	  pipeline:
//	    epsilon: 5.0
//	    delta: 1.0e-6
//	    slack: 1.0e-7
//	  adhoc:
//	    epsilon: 1.0
//	default: pipeline
//	reporting:
//	  schedule: "@every 1m"
//
// # Loading sequence
//
// Load reads the file, parses YAML, applies defaults, and validates.
// Validation failures are returned before any accountant is built;
// budgets are never silently clamped.
//
// # Hot reload
//
// Watcher watches the catalog file with fsnotify and invokes a reload
// callback after a debounce interval. Reloading only ever introduces new
// budget names - accountants already built are immutable and keep the
// budget they were constructed with.
package config
