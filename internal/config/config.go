package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration options for the todo client and server
type Config struct {
	API         APIConfig         `toml:"api"`
	Store       StoreConfig       `toml:"store"`
	Server      ServerConfig      `toml:"server"`
	Validation  ValidationConfig  `toml:"validation"`
	Log         LogConfig         `toml:"log"`
	Application ApplicationConfig `toml:"application"`
}

// APIConfig describes the remote task API the client talks to
type APIConfig struct {
	BaseURL        string        `toml:"base_url" env:"TODO_API_BASE_URL"`
	RequestTimeout time.Duration `toml:"request_timeout" env:"TODO_API_REQUEST_TIMEOUT"`
}

// StoreConfig holds task store behaviour switches
type StoreConfig struct {
	RefreshOnMutate bool `toml:"refresh_on_mutate" env:"TODO_STORE_REFRESH_ON_MUTATE"`
}

// ServerConfig holds reference server and database configuration
type ServerConfig struct {
	Addr            string        `toml:"addr" env:"TODO_SERVER_ADDR"`
	DBDir           string        `toml:"db_dir" env:"TODO_DB_DIR"`
	DBFilename      string        `toml:"db_filename" env:"TODO_DB_FILENAME"`
	DirPermissions  uint32        `toml:"dir_permissions" env:"TODO_DB_DIR_PERMISSIONS"`
	QueryTimeout    time.Duration `toml:"query_timeout" env:"TODO_DB_QUERY_TIMEOUT"`
	WriteTimeout    time.Duration `toml:"write_timeout" env:"TODO_DB_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"TODO_SERVER_SHUTDOWN_TIMEOUT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength       int `toml:"title_max_length" env:"TODO_VALIDATION_TITLE_MAX"`
	DescriptionMaxLength int `toml:"description_max_length" env:"TODO_VALIDATION_DESCRIPTION_MAX"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `toml:"level" env:"TODO_LOG_LEVEL"`
	Format string `toml:"format" env:"TODO_LOG_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `toml:"timeout" env:"TODO_APP_TIMEOUT"`
	Verbose bool          `toml:"verbose" env:"TODO_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".todo")

	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:3000",
			RequestTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			RefreshOnMutate: false,
		},
		Server: ServerConfig{
			Addr:            ":3000",
			DBDir:           defaultDBDir,
			DBFilename:      "todo.db",
			DirPermissions:  0755,
			QueryTimeout:    10 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Validation: ValidationConfig{
			TitleMaxLength:       200,
			DescriptionMaxLength: 2000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file.
// ":memory:" is passed through untouched.
func (c *Config) GetDatabasePath() string {
	if c.Server.DBFilename == ":memory:" {
		return c.Server.DBFilename
	}
	return filepath.Join(c.Server.DBDir, c.Server.DBFilename)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// API configuration
	if baseURL := os.Getenv("TODO_API_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if timeout := os.Getenv("TODO_API_REQUEST_TIMEOUT"); timeout != "" {
		c.API.RequestTimeout = ParseDurationWithFallback(timeout, c.API.RequestTimeout)
	}

	// Store configuration
	if refresh := os.Getenv("TODO_STORE_REFRESH_ON_MUTATE"); refresh != "" {
		c.Store.RefreshOnMutate = ParseBoolWithFallback(refresh, c.Store.RefreshOnMutate)
	}

	// Server configuration
	if addr := os.Getenv("TODO_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if dir := os.Getenv("TODO_DB_DIR"); dir != "" {
		c.Server.DBDir = dir
	}
	if filename := os.Getenv("TODO_DB_FILENAME"); filename != "" {
		c.Server.DBFilename = filename
	}
	if perms := os.Getenv("TODO_DB_DIR_PERMISSIONS"); perms != "" {
		c.Server.DirPermissions = ParseUint32WithFallback(perms, 8, c.Server.DirPermissions)
	}
	if timeout := os.Getenv("TODO_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Server.QueryTimeout = ParseDurationWithFallback(timeout, c.Server.QueryTimeout)
	}
	if timeout := os.Getenv("TODO_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(timeout, c.Server.WriteTimeout)
	}
	if timeout := os.Getenv("TODO_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}

	// Validation configuration
	if maxLen := os.Getenv("TODO_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}
	if maxLen := os.Getenv("TODO_VALIDATION_DESCRIPTION_MAX"); maxLen != "" {
		c.Validation.DescriptionMaxLength = ParseIntWithFallback(maxLen, c.Validation.DescriptionMaxLength)
	}

	// Log configuration
	if level := os.Getenv("TODO_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	if format := os.Getenv("TODO_LOG_FORMAT"); format != "" {
		c.Log.Format = strings.ToLower(format)
	}

	// Application configuration
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TODO_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// API configuration
	if c.API.BaseURL == "" {
		return &ConfigError{Field: "api.base_url", Message: "base URL cannot be empty"}
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "api.base_url", Message: "base URL must be an absolute http(s) URL"}
	}
	if c.API.RequestTimeout < 0 {
		return &ConfigError{Field: "api.request_timeout", Message: "request timeout cannot be negative"}
	}

	// Server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.DBFilename == "" {
		return &ConfigError{Field: "server.db_filename", Message: "database filename cannot be empty"}
	}
	if c.Server.DBDir == "" && c.Server.DBFilename != ":memory:" {
		return &ConfigError{Field: "server.db_dir", Message: "database directory cannot be empty"}
	}
	if c.Server.QueryTimeout <= 0 {
		return &ConfigError{Field: "server.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validation configuration
	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.DescriptionMaxLength < 0 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length cannot be negative"}
	}

	// Log configuration
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return &ConfigError{Field: "log.level", Message: "log level must be one of debug, info, warn, error, fatal"}
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return &ConfigError{Field: "log.format", Message: "log format must be one of text, json, logfmt"}
	}

	// Application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
