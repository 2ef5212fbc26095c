package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "budgets.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	return path
}

func TestLoad_ValidCatalog(t *testing.T) {
	path := writeCatalog(t, `
accountants:
  pipeline:
    epsilon: 5.0
    delta: 1.0e-6
    slack: 1.0e-7
  adhoc:
    epsilon: 1.0
default: pipeline
reporting:
  schedule: "@every 1m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	if len(cfg.Accountants) != 2 {
		t.Errorf("Expected 2 accountants, got %d", len(cfg.Accountants))
	}

	pipeline := cfg.Accountants["pipeline"]
	if pipeline.Epsilon != 5 || pipeline.Delta != 1e-6 || pipeline.Slack != 1e-7 {
		t.Errorf("Pipeline budget parsed incorrectly: %+v", pipeline)
	}

	adhoc := cfg.Accountants["adhoc"]
	if adhoc.Delta != 0 || adhoc.Slack != 0 {
		t.Errorf("Expected delta and slack to default to 0, got %+v", adhoc)
	}

	if cfg.Default != "pipeline" {
		t.Errorf("Expected default %q, got %q", "pipeline", cfg.Default)
	}
	if cfg.Reporting.Schedule != "@every 1m" {
		t.Errorf("Expected schedule %q, got %q", "@every 1m", cfg.Reporting.Schedule)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeCatalog(t, "accountants: [not: a: map")

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeCatalog(t, `
accountants:
  broken:
    epsilon: -1.0
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Expected validation error for negative epsilon")
	}
}

func TestLoad_EmptyCatalog(t *testing.T) {
	path := writeCatalog(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected empty catalog to load, got %v", err)
	}
	if cfg.Accountants == nil {
		t.Error("Expected defaults to initialize the accountants map")
	}
}
