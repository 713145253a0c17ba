package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overseer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if time.Duration(cfg.Tick) != time.Second {
		t.Errorf("Tick = %v, want 1s", time.Duration(cfg.Tick))
	}
	if !cfg.AlertsEnabled {
		t.Error("alerts should default to enabled")
	}
	if cfg.Store.Backend != "json" {
		t.Errorf("Store.Backend = %q, want json", cfg.Store.Backend)
	}
	if len(cfg.AutoOpenURLs) == 0 {
		t.Error("AutoOpenURLs should have a default escalation target")
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: sqlite
  path: /tmp/overseer.db
tick: 250ms
alerts_enabled: false
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "/tmp/overseer.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if time.Duration(cfg.Tick) != 250*time.Millisecond {
		t.Errorf("Tick = %v, want 250ms", time.Duration(cfg.Tick))
	}
	if cfg.AlertsEnabled {
		t.Error("alerts_enabled: false not applied")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	// Unset keys keep their defaults.
	if len(cfg.AutoOpenURLs) == 0 {
		t.Error("default AutoOpenURLs lost in overlay")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, "tick: fast\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable tick")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: etcd\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown store backend")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
