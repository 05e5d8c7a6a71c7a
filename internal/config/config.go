// Package config loads the dj configuration file.
//
// Path: $XDG_CONFIG_HOME/dj/config.yaml (see Path). Every field is
// optional; missing fields keep their defaults and command line flags
// override whatever the file says.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Interrupt policies for Ctrl+C while editing.
const (
	InterruptExit  = "exit"
	InterruptAbort = "abort"
)

// Accumulation policies. They mirror repl.Policy names.
const (
	PolicyAppendAll   = "append-all"
	PolicyCutAtCursor = "cut-at-cursor"
)

// Config is the dj configuration file.
type Config struct {
	Prompt            string        `yaml:"prompt"`
	MaxWidth          int           `yaml:"max_width"`
	Margin            int           `yaml:"margin"`
	Policy            string        `yaml:"policy"`
	Interrupt         string        `yaml:"interrupt"`
	InterruptExitCode int           `yaml:"interrupt_exit_code"`
	History           HistoryConfig `yaml:"history"`
	LogLevel          string        `yaml:"log_level"`
}

// HistoryConfig selects where submitted expressions are persisted.
type HistoryConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Limit   int    `yaml:"limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Prompt:    "> ",
		MaxWidth:  50,
		Margin:    2,
		Policy:    PolicyAppendAll,
		Interrupt: InterruptExit,
		History: HistoryConfig{
			Backend: "sqlite",
			Path:    defaultHistoryPath(),
			Limit:   1000,
		},
		LogLevel: "warn",
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", errors.New("cannot determine config directory")
		}
		base = home
	}
	return filepath.Join(base, "dj", "config.yaml"), nil
}

func defaultHistoryPath() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "dj", "history.db")
}

// Load reads the config at path on top of Default. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Policy = strings.ToLower(strings.TrimSpace(c.Policy))
	c.Interrupt = strings.ToLower(strings.TrimSpace(c.Interrupt))
	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if strings.HasPrefix(c.History.Path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.History.Path = filepath.Join(home, c.History.Path[2:])
		}
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.MaxWidth < 1:
		return fmt.Errorf("max_width must be positive, got %d", c.MaxWidth)
	case c.Margin < 0 || c.Margin >= c.MaxWidth:
		return fmt.Errorf("margin must be in [0, max_width), got %d", c.Margin)
	case c.History.Limit < 0:
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	switch c.Policy {
	case PolicyAppendAll, PolicyCutAtCursor:
	default:
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	switch c.Interrupt {
	case InterruptExit, InterruptAbort:
	default:
		return fmt.Errorf("unknown interrupt policy %q", c.Interrupt)
	}
	switch c.History.Backend {
	case "memory", "sqlite", "bolt", "bbolt":
	default:
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
