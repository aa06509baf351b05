// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/xonecas/livemark/internal/constants"
)

// Config is the root configuration structure.
type Config struct {
	UI     UIConfig     `toml:"ui"`
	Engine EngineConfig `toml:"engine"`
}

// UIConfig holds viewer settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma theme used for fenced code blocks.
	SyntaxTheme string `toml:"syntax_theme"`

	ShowLineNumbers bool `toml:"show_line_numbers"`
}

// SyntaxThemeOrDefault returns the configured theme or the default.
func (u UIConfig) SyntaxThemeOrDefault() string {
	if u.SyntaxTheme == "" {
		return constants.SyntaxTheme
	}
	return u.SyntaxTheme
}

// EngineConfig holds decoration engine settings.
type EngineConfig struct {
	// Rescan selects how multi-line state is derived at the top of a
	// visible window: "window" (fast heuristic resumption, default) or
	// "document" (exact, rescans from offset 0).
	Rescan string `toml:"rescan"`
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. A missing file is not an error: the viewer runs
// on defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		UI: UIConfig{ShowLineNumbers: true},
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Engine.Rescan {
	case "", "window", "document":
	default:
		errs = append(errs, fmt.Errorf("engine.rescan=%q must be \"window\" or \"document\"", c.Engine.Rescan))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"LIVEMARK_THEME", func(v string) {
			if v != "" {
				cfg.UI.SyntaxTheme = v
			}
		}},
		{"LIVEMARK_RESCAN", func(v string) {
			if v != "" {
				cfg.Engine.Rescan = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the livemark data directory (~/.config/livemark).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "livemark"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultPath returns the default config file path inside DataDir.
func DefaultPath() string {
	dir, err := DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "livemark.toml")
}
