// Package config defines the Overseer session configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "1s" or "500ms"
// parse directly.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the top-level Overseer configuration.
type Config struct {
	Store         StoreConfig `json:"store" yaml:"store"`
	Tick          Duration    `json:"tick" yaml:"tick"` // evaluation cadence
	AlertsEnabled bool        `json:"alerts_enabled" yaml:"alerts_enabled"`
	AutoOpenURLs  []string    `json:"auto_open_urls" yaml:"auto_open_urls"` // Force-level escalation targets
	LogLevel      string      `json:"log_level" yaml:"log_level"`
}

// StoreConfig selects and locates the durability backend.
type StoreConfig struct {
	Backend string `json:"backend" yaml:"backend"` // "sqlite" or "json"
	Path    string `json:"path" yaml:"path"`
}

const defaultForceURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "json",
			Path:    "tasks.json",
		},
		Tick:          Duration(time.Second),
		AlertsEnabled: true,
		AutoOpenURLs:  []string{defaultForceURL},
		LogLevel:      "info",
	}
}

// Load reads a YAML config file and returns the parsed configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Tick <= 0 {
		return nil, fmt.Errorf("config %s: tick must be positive", path)
	}
	switch cfg.Store.Backend {
	case "sqlite", "json":
	default:
		return nil, fmt.Errorf("config %s: unknown store backend %q", path, cfg.Store.Backend)
	}
	return cfg, nil
}
