package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every override so the host environment cannot leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MARKOVGEN_LOG_LEVEL",
		"MARKOVGEN_DATABASE_PATH",
		"MARKOVGEN_ORDER",
		"MARKOVGEN_MAX_ATTEMPTS",
		"MARKOVGEN_MAX_LENGTH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "markovgen.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults %+v", cfg, DefaultConfig())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config file was not written: %v", err)
	}
	var written Config
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("default config file is not valid JSON: %v", err)
	}
	if written != *DefaultConfig() {
		t.Errorf("written config = %+v, want %+v", written, DefaultConfig())
	}
}

func TestLoadConfig_MergesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "markovgen.json")
	if err := os.WriteFile(path, []byte(`{"order": 3, "log_level": "debug"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Order != 3 || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.DatabasePath != DefaultConfig().DatabasePath || cfg.MaxAttempts != DefaultConfig().MaxAttempts {
		t.Errorf("missing values did not keep their defaults: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "markovgen.json")
	if err := os.WriteFile(path, []byte(`{"order": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MARKOVGEN_ORDER", "5")
	t.Setenv("MARKOVGEN_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("MARKOVGEN_MAX_ATTEMPTS", "not-a-number")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Order != 5 {
		t.Errorf("Order = %d, want 5", cfg.Order)
	}
	if cfg.DatabasePath != "/tmp/other.db" {
		t.Errorf("DatabasePath = %q, want /tmp/other.db", cfg.DatabasePath)
	}
	if cfg.MaxAttempts != DefaultConfig().MaxAttempts {
		t.Errorf("unparsable override changed MaxAttempts to %d", cfg.MaxAttempts)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	testCases := []struct {
		name    string
		content string
	}{
		{name: "Malformed JSON", content: `{"order": `},
		{name: "Zero order", content: `{"order": 0}`},
		{name: "Negative attempts", content: `{"max_attempts": -1}`},
		{name: "Negative length", content: `{"max_length": -2}`},
		{name: "Unknown level", content: `{"log_level": "loud"}`},
		{name: "Empty database path", content: `{"database_path": ""}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "markovgen.json")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("LoadConfig() with %s succeeded, want an error", tc.content)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
	}
	for _, tc := range testCases {
		got, err := parseLogLevel(tc.input)
		if err != nil {
			t.Errorf("parseLogLevel(%q) error = %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
	if _, err := parseLogLevel("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
