package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultBaseURL       = "https://api.github.com"
	DefaultPageLimit     = 50
	MaxPageLimit         = 50 // per_page cap of the notifications API
	DefaultTimeoutSec    = 30
	DefaultMoreThreshold = 5
	DefaultLogLevel      = "info"
)

// GitHubConfig holds settings for the notification source.
type GitHubConfig struct {
	// BaseURL is the API root (https://api.github.com or a GHES /api/v3 URL).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PageLimit is the page size requested from the API. A page of exactly
	// this many records means more data is probably available.
	PageLimit int `mapstructure:"page_limit" yaml:"page_limit"`

	// TimeoutSec bounds a single page fetch.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// DefaultFilter is the filter requested on startup.
	DefaultFilter string `mapstructure:"default_filter" yaml:"default_filter"`

	// MoreThreshold is how many rows from the end of the list the cursor
	// must reach before the next page is requested.
	MoreThreshold int `mapstructure:"more_threshold" yaml:"more_threshold"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// StoreConfig locates the fetch journal database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	GitHub  GitHubConfig  `mapstructure:"github" yaml:"github"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
}

// ConfigDir returns ~/.config/notifeed, falling back to the working
// directory when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "notifeed")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/notifeed/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		GitHub: GitHubConfig{
			BaseURL:    DefaultBaseURL,
			PageLimit:  DefaultPageLimit,
			TimeoutSec: DefaultTimeoutSec,
		},
		Display: DisplayConfig{
			DefaultFilter: string(FilterUnread),
			MoreThreshold: DefaultMoreThreshold,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			File:  filepath.Join(dir, "notifeed.log"),
		},
		Store: StoreConfig{
			Path: filepath.Join(dir, "journal.db"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("github.base_url", defaults.GitHub.BaseURL)
	v.SetDefault("github.page_limit", defaults.GitHub.PageLimit)
	v.SetDefault("github.timeout_sec", defaults.GitHub.TimeoutSec)
	v.SetDefault("display.default_filter", defaults.Display.DefaultFilter)
	v.SetDefault("display.more_threshold", defaults.Display.MoreThreshold)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("store.path", defaults.Store.Path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.GitHub.BaseURL = strings.TrimRight(cfg.GitHub.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise break the feed at runtime.
func (c *AppConfig) Validate() error {
	if c.GitHub.PageLimit < 1 || c.GitHub.PageLimit > MaxPageLimit {
		return fmt.Errorf("github.page_limit must be between 1 and %d, got %d", MaxPageLimit, c.GitHub.PageLimit)
	}
	if c.GitHub.TimeoutSec < 1 {
		return fmt.Errorf("github.timeout_sec must be positive, got %d", c.GitHub.TimeoutSec)
	}
	if c.Display.MoreThreshold < 0 {
		return fmt.Errorf("display.more_threshold must not be negative, got %d", c.Display.MoreThreshold)
	}
	if _, err := ParseFilter(c.Display.DefaultFilter); err != nil {
		return fmt.Errorf("display.default_filter: %w", err)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("github", cfg.GitHub)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("store", cfg.Store)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
