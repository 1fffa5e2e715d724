// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-05

// Package config handles the repository config file and the step inputs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultStatusContext is the commit status context used by assert-link.
	DefaultStatusContext = "asana-link-presence"

	// DefaultStatusDescription is the commit status description used by assert-link.
	DefaultStatusDescription = "asana link not found"

	// DefaultRequestTimeout bounds each external API call.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// Config is the optional repository config file. Every value is a default
// that step inputs override.
type Config struct {
	// TriggerPhrase is the literal prefix required before a task URL.
	TriggerPhrase string `yaml:"trigger_phrase,omitempty"`

	// Targets is the YAML form of the targets input.
	Targets []interface{} `yaml:"targets,omitempty"`

	// Status configures the assert-link commit status.
	Status StatusConfig `yaml:"status"`

	// RequestTimeout bounds each API call (e.g. "30s").
	RequestTimeout string `yaml:"request_timeout,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// StatusConfig holds commit status settings.
type StatusConfig struct {
	Context     string `yaml:"context"`
	Description string `yaml:"description"`
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseRaw(data)
}

func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return nil, fmt.Errorf("invalid request_timeout %q: %w", cfg.RequestTimeout, err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/asana-link.yaml",
		".github/asana-link.yml",
		".asana-link.yaml",
		".asana-link.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// TargetsJSON renders the file targets in the JSON form of the targets input.
// It returns an empty string when the file has no targets.
func (c *Config) TargetsJSON() (string, error) {
	if len(c.Targets) == 0 {
		return "", nil
	}
	data, err := json.Marshal(c.Targets)
	if err != nil {
		return "", fmt.Errorf("encoding targets from config file: %w", err)
	}
	return string(data), nil
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Status.Context == "" {
		c.Status.Context = DefaultStatusContext
	}
	if c.Status.Description == "" {
		c.Status.Description = DefaultStatusDescription
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = DefaultRequestTimeout.String()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
