package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.DebounceMs != 400 {
		t.Errorf("Expected default debounce 400ms, got %d", cfg.DebounceMs)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Expected default theme 'dark', got '%s'", cfg.Theme)
	}
}

func TestDebounceDuration(t *testing.T) {
	cfg := &Config{DebounceMs: 250}

	if got := cfg.Debounce(); got != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", got)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := &Config{
		LogLevel:   "debug",
		DebounceMs: 100,
		Theme:      "light",
	}

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"log_level", "debug"},
		{"debounce_ms", 100},
		{"theme", "light"},
	}

	for _, test := range tests {
		value, err := cfg.Get(test.key)
		if err != nil {
			t.Errorf("Unexpected error for key '%s': %v", test.key, err)
			continue
		}
		if value != test.expected {
			t.Errorf("For key '%s', expected %v, got %v", test.key, test.expected, value)
		}
	}

	// Test unknown key
	_, err := cfg.Get("unknown_key")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
}

func TestConfigSet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key   string
		value string
	}{
		{"log_level", "debug"},
		{"debounce_ms", "150"},
		{"theme", "light"},
	}

	for _, test := range tests {
		if err := cfg.Set(test.key, test.value); err != nil {
			t.Errorf("Unexpected error for key '%s': %v", test.key, err)
		}
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.DebounceMs != 150 {
		t.Errorf("Expected debounce 150, got %d", cfg.DebounceMs)
	}
	if cfg.Theme != "light" {
		t.Errorf("Expected theme 'light', got '%s'", cfg.Theme)
	}
}

func TestConfigSetValidation(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("unknown_key", "value"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
	if err := cfg.Set("debounce_ms", "not-a-number"); err == nil {
		t.Error("Expected error for non-numeric debounce_ms")
	}
	if err := cfg.Set("debounce_ms", "-5"); err == nil {
		t.Error("Expected error for negative debounce_ms")
	}
	if err := cfg.Set("theme", "sepia"); err == nil {
		t.Error("Expected error for unknown theme")
	}
}

func TestLoadDefaultsWhenNoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	projectRoot := t.TempDir()

	cfg, err := Load(projectRoot)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	expected := DefaultConfig()
	if cfg.LogLevel != expected.LogLevel || cfg.DebounceMs != expected.DebounceMs || cfg.Theme != expected.Theme {
		t.Errorf("Expected defaults %+v, got %+v", expected, cfg)
	}
}

func TestLoadMergePrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	projectRoot := t.TempDir()

	// global sets log_level and theme
	globalDir := filepath.Join(home, ".driftwatch")
	if err := os.MkdirAll(globalDir, 0755); err != nil {
		t.Fatalf("Failed to create global config dir: %v", err)
	}
	global := []byte(`{"log_level": "debug", "theme": "light"}`)
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), global, 0644); err != nil {
		t.Fatalf("Failed to write global config: %v", err)
	}

	// local overrides log_level only
	if err := SaveLocal(projectRoot, &Config{LogLevel: "warn"}); err != nil {
		t.Fatalf("Failed to save local config: %v", err)
	}

	cfg, err := Load(projectRoot)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Expected local log_level 'warn' to win, got '%s'", cfg.LogLevel)
	}
	if cfg.Theme != "light" {
		t.Errorf("Expected global theme 'light' to apply, got '%s'", cfg.Theme)
	}
	if cfg.DebounceMs != 400 {
		t.Errorf("Expected default debounce to survive, got %d", cfg.DebounceMs)
	}
}

func TestSaveLocalRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	projectRoot := t.TempDir()

	cfg := &Config{LogLevel: "error", DebounceMs: 900, Theme: "light"}
	if err := SaveLocal(projectRoot, cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := Load(projectRoot)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.LogLevel != "error" || loaded.DebounceMs != 900 || loaded.Theme != "light" {
		t.Errorf("Expected saved values to round-trip, got %+v", loaded)
	}
}
