// Package logging builds the structured loggers shared by the client and server.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/config"
)

// Options configures a logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	Prefix          string
	ReportTimestamp bool
}

// DefaultOptions returns info-level text logging with timestamps.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
	}
}

// New creates a logger writing to w. TODO_DEBUG forces debug level.
func New(w io.Writer, opts Options) *log.Logger {
	level := opts.Level
	if DebugEnabled() {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       opts.Formatter,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

// FromConfig creates a logger from the log section of the configuration.
func FromConfig(w io.Writer, cfg config.LogConfig, prefix string) *log.Logger {
	opts := DefaultOptions()
	opts.Level = ParseLevel(cfg.Level)
	opts.Formatter = ParseFormatter(cfg.Format)
	opts.Prefix = prefix
	return New(w, opts)
}

// Discard returns a logger that drops everything. Used by tests and as
// the fallback when a component is built without a logger.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a string log level. Unknown values mean info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name. Unknown values mean text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
