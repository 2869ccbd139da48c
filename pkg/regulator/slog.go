package regulator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
//
// Example:
//
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	opts := regulator.DefaultOptions()
//	opts.Logger = regulator.NewSlogAdapter(slog.New(handler))
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger adapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug logs a debug-level message with optional key-value pairs.
func (s *SlogAdapter) Debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

// Info logs an info-level message with optional key-value pairs.
func (s *SlogAdapter) Info(msg string, args ...any) {
	s.logger.Info(msg, args...)
}

// Warn logs a warning-level message with optional key-value pairs.
func (s *SlogAdapter) Warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
}

// Error logs an error-level message with optional key-value pairs.
func (s *SlogAdapter) Error(msg string, args ...any) {
	s.logger.Error(msg, args...)
}

// With returns an adapter that adds args to every record, for example
// the configuration source of one of several regulators.
func (s *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// Slog returns the wrapped logger.
func (s *SlogAdapter) Slog() *slog.Logger {
	return s.logger
}

// LogFormat selects the slog handler NewLogger builds.
type LogFormat int

const (
	// LogFormatText writes key=value lines.
	LogFormatText LogFormat = iota
	// LogFormatJSON writes one JSON object per record, for log aggregation.
	LogFormatJSON
)

// NewLogger returns a Logger writing records at level or above to w in the
// given format. A nil w writes to stderr. Debug level adds source
// locations.
func NewLogger(w io.Writer, level slog.Level, format LogFormat) Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if format == LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &SlogAdapter{logger: slog.New(handler)}
}

// DefaultLogger returns a text Logger on stderr at Info level.
func DefaultLogger() Logger {
	return NewLogger(os.Stderr, slog.LevelInfo, LogFormatText)
}

// DebugLogger returns a text Logger on stderr at Debug level.
func DebugLogger() Logger {
	return NewLogger(os.Stderr, slog.LevelDebug, LogFormatText)
}

// ParseLogLevel parses "debug", "info", "warn" or "error", ignoring case.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// NopLogger returns a Logger that discards all log messages.
func NopLogger() Logger {
	return nopLogger{}
}

// nopLogger implements Logger but discards all messages.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
