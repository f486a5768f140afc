package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcdonaldj/zipkit/zipper"
)

// Config holds the defaults applied to every archive session.
type Config struct {
	SkipMode    string `yaml:"skip_mode"`
	Mask        string `yaml:"mask"`
	Compression string `yaml:"compression"`
	LogLevel    string `yaml:"log_level"`
	// ExtractDir is where the browser extracts archives; ~ is expanded.
	ExtractDir string `yaml:"extract_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		SkipMode:    string(zipper.SkipNone),
		Mask:        "0644",
		Compression: "DEFLATE",
		LogLevel:    "warn",
		ExtractDir:  ".",
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".zipkit", "config.yaml")
}

func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it does not exist.
// Keys missing from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that every value can be applied to a session.
func (c *Config) Validate() error {
	if _, err := zipper.ParseSkipMode(c.SkipMode); err != nil {
		return fmt.Errorf("skip_mode: %w", err)
	}
	if _, err := zipper.ParseMask(c.Mask); err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	if _, err := zipper.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ParseLogLevel maps debug, info, warn or error to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return 0, err
	}
	return l, nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return unexpanded if home unavailable
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
