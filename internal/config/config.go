// Package config handles the XDG configuration directory and settings.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional YAML settings filename.
	ConfigFile = "config.yaml"

	// LocalDBFile is the default SQLite file for the local backend.
	LocalDBFile = "local.db"

	// DefaultBaseURL is the task API root used when none is configured.
	DefaultBaseURL = "http://localhost:8000/tasks/v1"
)

// Backend names.
const (
	BackendHTTP  = "http"
	BackendLocal = "local"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the task store: "http" or "local".
	Backend string

	// API configures the HTTP backend.
	API APIConfig

	// Local configures the local backend.
	Local LocalConfig

	// Log is set by the dispatcher before a command runs.
	Log *zap.Logger
}

// APIConfig configures the remote task service.
type APIConfig struct {
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each request. Zero leaves the transport default.
	Timeout time.Duration `koanf:"timeout"`
}

// LocalConfig configures the local store.
type LocalConfig struct {
	// Path is the SQLite file. Empty means <Dir>/local.db.
	Path string `koanf:"path"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		Backend: BackendHTTP,
		API:     APIConfig{BaseURL: DefaultBaseURL},
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the YAML settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LocalPath returns the SQLite file used by the local backend.
func (c *Config) LocalPath() string {
	if c.Local.Path != "" {
		return c.Local.Path
	}
	return filepath.Join(c.Dir, LocalDBFile)
}

// Logger returns the configured logger, or a no-op logger.
func (c *Config) Logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP, BackendLocal:
	default:
		return fmt.Errorf("unknown backend: %s (want %s or %s)", c.Backend, BackendHTTP, BackendLocal)
	}

	if c.Backend == BackendHTTP {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid api.base_url: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid api.base_url: %s", c.API.BaseURL)
		}
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative: %s", c.API.Timeout)
	}
	return nil
}
