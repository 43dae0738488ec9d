package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrUnknownKey is returned by Get and Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the driftwatch configuration
type Config struct {
	LogLevel   string `json:"log_level"`   // zerolog level name: debug, info, warn, error
	DebounceMs int    `json:"debounce_ms"` // quiet period before a file event settles
	Theme      string `json:"theme"`       // TUI color theme: dark or light
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		DebounceMs: 400,
		Theme:      "dark",
	}
}

// Debounce returns the settle window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Load builds the effective configuration: defaults, overlaid by the global
// file, overlaid by the project-local file.
func Load(projectRoot string) (*Config, error) {
	cfg := DefaultConfig()

	globalCfg, err := loadGlobalConfig()
	if err == nil {
		mergeCfg(cfg, globalCfg)
	}

	localCfg, err := loadLocalConfig(projectRoot)
	if err == nil {
		mergeCfg(cfg, localCfg)
	}

	return cfg, nil
}

// Keys lists every settable configuration key.
func Keys() []string {
	return []string{"log_level", "debounce_ms", "theme"}
}

// Get retrieves a configuration value by key
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case "log_level":
		return c.LogLevel, nil
	case "debounce_ms":
		return c.DebounceMs, nil
	case "theme":
		return c.Theme, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set updates a configuration value by key. Values arrive as strings from
// the CLI.
func (c *Config) Set(key, value string) error {
	switch key {
	case "log_level":
		c.LogLevel = value
		return nil
	case "debounce_ms":
		ms, err := strconv.Atoi(value)
		if err != nil || ms <= 0 {
			return fmt.Errorf("expected positive integer for debounce_ms, got: %s", value)
		}
		c.DebounceMs = ms
		return nil
	case "theme":
		if value != "dark" && value != "light" {
			return fmt.Errorf("expected 'dark' or 'light' for theme, got: %s", value)
		}
		c.Theme = value
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// loadGlobalConfig loads configuration from ~/.driftwatch/config.json
func loadGlobalConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return loadConfigFromFile(filepath.Join(homeDir, ".driftwatch", "config.json"))
}

// loadLocalConfig loads configuration from <root>/.driftwatch/config.json
func loadLocalConfig(projectRoot string) (*Config, error) {
	return loadConfigFromFile(filepath.Join(projectRoot, ".driftwatch", "config.json"))
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveLocal writes configuration to <root>/.driftwatch/config.json
func SaveLocal(projectRoot string, cfg *Config) error {
	dir := filepath.Join(projectRoot, ".driftwatch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// mergeCfg merges source config into destination config
func mergeCfg(dst, src *Config) {
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.DebounceMs > 0 {
		dst.DebounceMs = src.DebounceMs
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
}
