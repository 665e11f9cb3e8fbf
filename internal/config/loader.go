package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
	explicit   bool
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithConfigFile makes the loader read path instead of searching the
// default locations. A missing explicit file is an error.
func (l *Loader) WithConfigFile(path string) *Loader {
	if path != "" {
		l.configFile = path
		l.explicit = true
	}
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file, if any
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	path, explicit := l.resolveConfigFile()
	if path != "" {
		if err := loadConfigFile(l.config, path, explicit); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolveConfigFile picks the config file: the explicit one, then
// TODO_CONFIG, then the user config directory.
func (l *Loader) resolveConfigFile() (string, bool) {
	if l.explicit {
		return l.configFile, true
	}
	if path := os.Getenv("TODO_CONFIG"); path != "" {
		return path, true
	}
	return DefaultConfigFile(), false
}

// DefaultConfigFile returns the user-level config file location
func DefaultConfigFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todo", "config.toml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "todo", "config.toml")
}

// loadConfigFile decodes TOML from path over cfg. Keys not present in the
// file keep their current values; unknown keys are rejected.
func loadConfigFile(cfg *Config, path string, required bool) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return &ConfigError{Field: undecoded[0].String(), Message: "unknown key in " + path}
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// API overrides
	APIBaseURL     *string
	RequestTimeout *time.Duration

	// Store overrides
	RefreshOnMutate *bool

	// Server overrides
	ServerAddr   *string
	DBDir        *string
	DBFilename   *string
	QueryTimeout *time.Duration
	WriteTimeout *time.Duration

	// Log overrides
	LogLevel  *string
	LogFormat *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.APIBaseURL != nil {
		config.API.BaseURL = *overrides.APIBaseURL
	}
	if overrides.RequestTimeout != nil {
		config.API.RequestTimeout = *overrides.RequestTimeout
	}

	if overrides.RefreshOnMutate != nil {
		config.Store.RefreshOnMutate = *overrides.RefreshOnMutate
	}

	if overrides.ServerAddr != nil {
		config.Server.Addr = *overrides.ServerAddr
	}
	if overrides.DBDir != nil {
		config.Server.DBDir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Server.DBFilename = *overrides.DBFilename
	}
	if overrides.QueryTimeout != nil {
		config.Server.QueryTimeout = *overrides.QueryTimeout
	}
	if overrides.WriteTimeout != nil {
		config.Server.WriteTimeout = *overrides.WriteTimeout
	}

	if overrides.LogLevel != nil {
		config.Log.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Log.Format = *overrides.LogFormat
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}
