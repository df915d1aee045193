// Package config loads tinysh settings.
//
// Settings come from, in order of precedence:
//   - environment variables (TINYSH_*)
//   - the file given with -c, or $TINYSH_CONFIG
//   - ~/.tinysh/config.toml
//   - built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/Neev4n/tinysh/pkg/shell"
)

const (
	dirName  = ".tinysh"
	fileName = "config.toml"
	histName = "history"

	EnvConfig  = "TINYSH_CONFIG"
	EnvPrompt  = "TINYSH_PROMPT"
	EnvMaxArgs = "TINYSH_MAX_ARGS"
	EnvVerbose = "TINYSH_VERBOSE"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Prompt      string   `toml:"prompt"`
	Color       bool     `toml:"color"`
	MaxArgs     int      `toml:"max_args"`
	MaxLine     int      `toml:"max_line"`
	HistoryFile string   `toml:"history_file"`
	Disabled    []string `toml:"disabled"`
	Verbose     bool     `toml:"verbose"`
}

func Default() *Config {
	return &Config{
		Prompt:  shell.DefaultPrompt,
		MaxArgs: shell.DefaultMaxArgs,
		MaxLine: shell.DefaultMaxLine,
	}
}

// Dir returns ~/.tinysh.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, dirName), nil
}

// Load reads path, or the default location when path is empty, then applies
// environment overrides. A missing default file is not an error; a missing
// explicit one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	explicit := path != ""
	if !explicit {
		if dir, err := Dir(); err == nil {
			path = filepath.Join(dir, fileName)
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.HistoryFile == "" {
		if dir, err := Dir(); err == nil {
			cfg.HistoryFile = filepath.Join(dir, histName)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvPrompt); ok {
		c.Prompt = v
	}

	if v := os.Getenv(EnvMaxArgs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, EnvMaxArgs, v)
		}
		c.MaxArgs = n
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvVerbose, v)
		}
		c.Verbose = b
	}

	return nil
}

func (c *Config) Validate() error {
	if c.MaxArgs < 1 {
		return fmt.Errorf("%w: max_args must be at least 1, got %d", ErrInvalid, c.MaxArgs)
	}

	if c.MaxLine < 1 {
		return fmt.Errorf("%w: max_line must be at least 1, got %d", ErrInvalid, c.MaxLine)
	}

	return nil
}
