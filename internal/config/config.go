// Package config handles the XDG configuration directory and the optional
// config.yaml read from it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "bizdesk"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// LogFile receives logs while the interactive UI owns the terminal.
	LogFile = "bizdesk.log"

	// DefaultBaseURL is the backend root every endpoint path is appended to.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultCellWidth is the logical pixel width assumed for one terminal column.
	DefaultCellWidth = 8
)

// Environment overrides, applied after the config file.
const (
	EnvBaseURL = "BIZDESK_BASE_URL"
	EnvToken   = "BIZDESK_TOKEN"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// BaseURL is the backend API root.
	BaseURL string

	// Token is an optional bearer token sent with every request.
	Token string

	// Timeout bounds a single request. Zero leaves the HTTP client default.
	Timeout time.Duration

	// CellWidth converts terminal columns to logical pixels.
	CellWidth int

	// LogToFile routes logs to LogPath instead of stderr.
	LogToFile bool
}

// fileSettings mirrors config.yaml.
type fileSettings struct {
	BaseURL   string `yaml:"base_url"`
	Token     string `yaml:"token"`
	Timeout   string `yaml:"timeout"`
	CellWidth int    `yaml:"cell_width"`
}

// New creates a new Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/bizdesk or $HOME/.config/bizdesk.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		BaseURL:   DefaultBaseURL,
		CellWidth: DefaultCellWidth,
	}, nil
}

// Load creates a Config like New, then applies config.yaml (if present) and
// environment overrides.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
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

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the log file used by the interactive UI.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasFile checks if config.yaml exists.
func (c *Config) HasFile() bool {
	_, err := os.Stat(c.FilePath())
	return err == nil
}

func (c *Config) readFile() error {
	data, err := os.ReadFile(c.FilePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fs.BaseURL != "" {
		c.BaseURL = fs.BaseURL
	}
	if fs.Token != "" {
		c.Token = fs.Token
	}
	if fs.Timeout != "" {
		d, err := time.ParseDuration(fs.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s: timeout: %q", ConfigFile, fs.Timeout)
		}
		c.Timeout = d
	}
	if fs.CellWidth < 0 {
		return fmt.Errorf("invalid %s: cell_width: %d", ConfigFile, fs.CellWidth)
	}
	if fs.CellWidth > 0 {
		c.CellWidth = fs.CellWidth
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Token = v
	}
}
