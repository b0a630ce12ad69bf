package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

const (
	EnvLoggingLevel  = "PROMPTDECK_LOG_LEVEL"
	EnvLoggingFormat = "PROMPTDECK_LOG_FORMAT"

	FormatText = "text"
	FormatJSON = "json"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LoggingConfig selects the root logger level and output format.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SlogLevel returns the slog.Level for Level, defaulting to info.
func (c *LoggingConfig) SlogLevel() slog.Level {
	if level, ok := levels[c.Level]; ok {
		return level
	}
	return slog.LevelInfo
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LoggingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

func (c *LoggingConfig) loadDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

func (c *LoggingConfig) loadEnv() {
	if v := os.Getenv(EnvLoggingLevel); v != "" {
		c.Level = v
	}
	if v := os.Getenv(EnvLoggingFormat); v != "" {
		c.Format = v
	}
	c.Level = strings.ToLower(c.Level)
	c.Format = strings.ToLower(c.Format)
}

func (c *LoggingConfig) validate() error {
	if _, ok := levels[c.Level]; !ok {
		return fmt.Errorf("invalid level: %s", c.Level)
	}
	if !slices.Contains([]string{FormatText, FormatJSON}, c.Format) {
		return fmt.Errorf("invalid format: %s", c.Format)
	}
	return nil
}
