package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/CTAG07/markovgen/pkg/markov"
	"github.com/natefinch/atomic"
)

// defaultOrder is the chain order used when neither the config nor a flag sets one.
const defaultOrder = 8

// Config holds the settings shared by all commands.
type Config struct {
	LogLevel     string `json:"log_level"`
	DatabasePath string `json:"database_path"`
	Order        int    `json:"order"`
	MaxAttempts  int    `json:"max_attempts"`
	MaxLength    int    `json:"max_length"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		DatabasePath: "./data/markovgen.db",
		Order:        defaultOrder,
		MaxAttempts:  markov.DefaultMaxAttempts,
		MaxLength:    0,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values. Environment
// variables prefixed with MARKOVGEN_ override values from the file.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = json.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// If the file doesn't exist, create it with the default config.
		var data []byte
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			// Defaults are still usable without the file.
			fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
		}
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnv()
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnv overrides config values with MARKOVGEN_* environment variables.
func (c *Config) applyEnv() {
	c.LogLevel = getEnv("MARKOVGEN_LOG_LEVEL", c.LogLevel)
	c.DatabasePath = getEnv("MARKOVGEN_DATABASE_PATH", c.DatabasePath)
	c.Order = getEnvInt("MARKOVGEN_ORDER", c.Order)
	c.MaxAttempts = getEnvInt("MARKOVGEN_MAX_ATTEMPTS", c.MaxAttempts)
	c.MaxLength = getEnvInt("MARKOVGEN_MAX_LENGTH", c.MaxLength)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Order <= 0 {
		return fmt.Errorf("order must be positive, got %d", c.Order)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative, got %d", c.MaxAttempts)
	}
	if c.MaxLength < 0 {
		return fmt.Errorf("max_length must not be negative, got %d", c.MaxLength)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", level)
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
