// Package config loads client settings from defaults, ~/.tada/config.toml,
// .env and TADA_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultServer   = "http://localhost:8000/api"
	DefaultTimeout  = 10 * time.Second
	DefaultToastTTL = 3 * time.Second
	DefaultTheme    = "classic"

	dirName        = ".tada"
	configFileName = "config.toml"
)

// Duration wraps time.Duration so TOML can carry "10s" style strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the resolved client configuration.
type Config struct {
	Server          string   `toml:"server"`
	Timeout         Duration `toml:"timeout"`
	Theme           string   `toml:"theme"`
	ToastTTL        Duration `toml:"toast_ttl"`
	LogFile         string   `toml:"log_file"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
	CredentialsFile string   `toml:"credentials_file"`

	// Path is the config file that was read, empty if none existed.
	Path string `toml:"-"`
}

// Dir returns ~/.tada.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Server:    DefaultServer,
		Timeout:   Duration{DefaultTimeout},
		Theme:     DefaultTheme,
		ToastTTL:  Duration{DefaultToastTTL},
		LogLevel:  "info",
		LogFormat: "text",
	}
	if dir, err := Dir(); err == nil {
		cfg.LogFile = filepath.Join(dir, "tada.log")
		cfg.CredentialsFile = filepath.Join(dir, "credentials.json")
	}
	return cfg
}

// Load resolves the configuration. An empty path means ~/.tada/config.toml;
// a missing default file is not an error, a missing explicit one is.
// Callers apply flag overrides and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err == nil {
			path = filepath.Join(dir, configFileName)
		}
	}
	if path != "" {
		if err := cfg.loadFile(path, explicit); err != nil {
			return nil, err
		}
	}

	// .env only fills variables the environment does not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	cfg.Server = strings.TrimRight(strings.TrimSpace(cfg.Server), "/")
	return cfg, nil
}

func (c *Config) loadFile(path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Path = path
	return nil
}

// LoadFromEnvironment applies TADA_* overrides.
func (c *Config) LoadFromEnvironment() error {
	if v := os.Getenv("TADA_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("TADA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TADA_TIMEOUT: %w", err)
		}
		c.Timeout = Duration{d}
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("TADA_TOAST_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TADA_TOAST_TTL: %w", err)
		}
		c.ToastTTL = Duration{d}
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("TADA_CREDENTIALS"); v != "" {
		c.CredentialsFile = v
	}
	return nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	c.Server = strings.TrimRight(strings.TrimSpace(c.Server), "/")
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server must be an http(s) URL, got %q", c.Server)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout.Duration)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", c.Theme)
	}
	if c.ToastTTL.Duration < 3*time.Second || c.ToastTTL.Duration > 4*time.Second {
		return fmt.Errorf("toast_ttl must be between 3s and 4s, got %s", c.ToastTTL.Duration)
	}
	return nil
}
