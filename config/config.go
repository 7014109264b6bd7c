// Package config resolves the f4r runtime configuration: where the
// profile tables live and how chatty the codec warning sink is. The
// codec itself only ever sees the parsed catalog objects.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpablobr/f4r/profile"
)

// ProfileDirEnv overrides the configured profile table directory.
const ProfileDirEnv = "F4R_PROFILE_DIR"

// Config is the top-level structure of f4r.yaml.
type Config struct {
	// ProfileDir points at a directory of profile CSV tables. Empty
	// means the tables embedded in the profile package.
	ProfileDir string  `yaml:"profile_dir"`
	Logging    Logging `yaml:"logging"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a configuration that uses the embedded profile
// tables and info-level logging.
func DefaultConfig() *Config {
	return &Config{
		Logging: Logging{Level: "info"},
	}
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ResolveProfileDir applies the environment override on top of the
// configured directory.
func (c *Config) ResolveProfileDir() string {
	if dir := os.Getenv(ProfileDirEnv); dir != "" {
		return dir
	}
	return c.ProfileDir
}

// Catalog loads the profile catalog named by the configuration: the
// resolved directory when set, otherwise the embedded tables.
func (c *Config) Catalog() (*profile.Catalog, error) {
	dir := c.ResolveProfileDir()
	if dir == "" {
		return profile.Default(), nil
	}
	cat, err := profile.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load profile tables from %s: %w", dir, err)
	}
	return cat, nil
}

// LogLevel maps the configured level name onto a slog level; unknown
// names fall back to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
