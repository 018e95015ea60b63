// Package config loads and saves the LumiSpec settings file.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvAPIURL     = "LUMISPEC_API_URL"
	EnvLogLevel   = "LUMISPEC_LOG_LEVEL"
	EnvConfigPath = "LUMISPEC_CONFIG_PATH"
)

// MaxRecentProducts bounds Config.RecentProducts.
const MaxRecentProducts = 10

// Duration is a time.Duration written as "30s" in config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// Config holds user preferences that persist across sessions.
type Config struct {
	APIBaseURL     string   `json:"apiBaseUrl" yaml:"api_base_url"`
	Timeout        Duration `json:"timeout" yaml:"timeout"`
	LogLevel       string   `json:"logLevel" yaml:"log_level"`
	Theme          string   `json:"theme" yaml:"theme"` // "light", "dark" or "system"
	ExportDir      string   `json:"exportDir,omitempty" yaml:"export_dir,omitempty"`
	RecentProducts []string `json:"recentProducts" yaml:"recent_products"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:     "http://localhost:3333/",
		Timeout:        Duration(30 * time.Second),
		LogLevel:       "info",
		Theme:          "system",
		RecentProducts: []string{},
	}
}

// DefaultDir returns ~/.lumispec.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".lumispec")
}

// DefaultPath returns the default settings file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.json")
}

// ResolvePath picks the settings file: the flag, then the environment, then
// the default.
func ResolvePath(flag string, getenv func(string) string) string {
	if flag != "" {
		return flag
	}
	if p := getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath()
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads the settings at path. A missing file yields Default with no
// error; fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.RecentProducts == nil {
		cfg.RecentProducts = []string{}
	}
	return cfg, nil
}

// Save writes cfg to path, creating missing parent directories. The format
// follows the file extension.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides cfg with the LUMISPEC_* variables that are set.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIBaseURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return c
}

// Validate checks the fields a session cannot start without.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", time.Duration(c.Timeout))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.Theme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("invalid theme %q", c.Theme)
	}
	return nil
}

// AddRecentProduct moves id to the front of the recent list.
func (c *Config) AddRecentProduct(id string) {
	if id == "" {
		return
	}
	out := []string{id}
	for _, v := range c.RecentProducts {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) > MaxRecentProducts {
		out = out[:MaxRecentProducts]
	}
	c.RecentProducts = out
}

// RemoveRecentProduct drops id from the recent list.
func (c *Config) RemoveRecentProduct(id string) {
	out := c.RecentProducts[:0]
	for _, v := range c.RecentProducts {
		if v != id {
			out = append(out, v)
		}
	}
	c.RecentProducts = out
}
