// Package config loads the server configuration from YAML, environment
// variables and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/tracker/internal/models"
)

// Environment variables consulted by Load.
const (
	EnvConfigFile = "TRACKER_CONFIG"
	EnvAddr       = "TRACKER_ADDR"
	EnvDBPath     = "TRACKER_DB_PATH"
	EnvLogLevel   = "TRACKER_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Pagination PaginationConfig `yaml:"pagination"`
	Theme      ColorScheme      `yaml:"theme"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path            string        `yaml:"path"`
	BusyTimeoutMS   int           `yaml:"busy_timeout_ms"`
	RetryMaxElapsed time.Duration `yaml:"retry_max_elapsed"`
}

// LogConfig configures the slog handler. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// PaginationConfig bounds collection pages.
type PaginationConfig struct {
	DefaultSize int `yaml:"default_size"`
	MaxSize     int `yaml:"max_size"`
}

// ColorScheme holds the hex colors used for human CLI output.
type ColorScheme struct {
	Accent string `yaml:"accent"`
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"`
	Normal string `yaml:"normal"`
	InfoFg string `yaml:"info_fg"`
	InfoBg string `yaml:"info_bg"`
}

// DefaultColorScheme returns the default color scheme (purple theme)
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		Accent: "#874BFD",
		Title:  "#D75FD7",
		Subtle: "#585858",
		Normal: "#D0D0D0",
		InfoFg: "#00AFFF",
		InfoBg: "#00005F",
	}
}

// MergeFrom copies every non-empty color of other onto c.
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Accent != "" {
		c.Accent = other.Accent
	}
	if other.Title != "" {
		c.Title = other.Title
	}
	if other.Subtle != "" {
		c.Subtle = other.Subtle
	}
	if other.Normal != "" {
		c.Normal = other.Normal
	}
	if other.InfoFg != "" {
		c.InfoFg = other.InfoFg
	}
	if other.InfoBg != "" {
		c.InfoBg = other.InfoBg
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:            defaultDBPath(),
			BusyTimeoutMS:   5000,
			RetryMaxElapsed: 10 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Pagination: PaginationConfig{
			DefaultSize: models.DefaultPageSize,
			MaxSize:     models.MaxPageSize,
		},
		Theme: DefaultColorScheme(),
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults. Environment overrides are
// applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	config := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	config.applyEnv()
	config.applyDefaults()
	return config, nil
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tracker", "config.yaml")
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "tracker", "config.yaml")
}

// BusyTimeout returns the SQLite busy timeout as a duration.
func (d DatabaseConfig) BusyTimeout() time.Duration {
	return time.Duration(d.BusyTimeoutMS) * time.Millisecond
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// applyDefaults fills in zero values a partial file may leave behind
func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = d.Server.IdleTimeout
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.Database.BusyTimeoutMS <= 0 {
		c.Database.BusyTimeoutMS = d.Database.BusyTimeoutMS
	}
	if c.Database.RetryMaxElapsed <= 0 {
		c.Database.RetryMaxElapsed = d.Database.RetryMaxElapsed
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Pagination.DefaultSize <= 0 {
		c.Pagination.DefaultSize = d.Pagination.DefaultSize
	}
	if c.Pagination.MaxSize <= 0 {
		c.Pagination.MaxSize = d.Pagination.MaxSize
	}
	if c.Pagination.DefaultSize > c.Pagination.MaxSize {
		c.Pagination.DefaultSize = c.Pagination.MaxSize
	}
	theme := d.Theme
	theme.MergeFrom(c.Theme)
	c.Theme = theme
}

// defaultDBPath places the database under the XDG data directory.
func defaultDBPath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "tracker", "tracker.db")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "tracker.db"
	}
	return filepath.Join(homeDir, ".local", "share", "tracker", "tracker.db")
}
