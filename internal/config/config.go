// Package config loads client configuration from ~/.sqlpilot/config.yaml
// with SQLPILOT_* environment overrides. The file is read once at startup;
// there is nothing to hot-reload in a client whose state lives on the server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration.
type Config struct {
	// APIURL is the base URL of the Text-to-SQL service.
	APIURL string `yaml:"api_url"`

	// RequestTimeout bounds every HTTP round-trip. Zero disables the
	// client-side timeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Theme selects the TUI color scheme ("light", "dark" or "" for
	// auto-detect).
	Theme string `yaml:"theme,omitempty"`

	// Debug enables file logging under the state directory.
	Debug bool `yaml:"debug,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         "http://127.0.0.1:8000",
		RequestTimeout: 30 * time.Second,
	}
}

// StateDir is where the session store, logs and config live.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sqlpilot"
	}
	return filepath.Join(home, ".sqlpilot")
}

// DefaultPath is the default config file location.
func DefaultPath() string {
	return filepath.Join(StateDir(), "config.yaml")
}

// Load reads the config at path, layering file values over defaults and env
// overrides over both. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults + env only.
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to path, creating the state directory as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SQLPILOT_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("SQLPILOT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("SQLPILOT_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("SQLPILOT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}
