package regulator

import (
	"time"
)

const (
	// DefaultShutdownTimeout bounds how long Stop waits for the update
	// loop and the window to exit.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultSnapshotSupersample is the oversampling factor Snapshot uses
	// when Options.Supersample is zero.
	DefaultSnapshotSupersample = 2
)

// Options tunes a Regulator without touching its configuration file.
// Overrides are re-applied on every reload and restart, so a dial started
// with Size 200 stays 200 pixels wide even if the file says otherwise.
type Options struct {
	// UpdateInterval replaces update_interval when non-zero.
	UpdateInterval time.Duration

	// WindowTitle replaces the configured title when non-empty.
	WindowTitle string

	// Size replaces the configured dial diameter when positive.
	Size int

	// Headless steps the dial without opening a window. Snapshot still
	// works.
	Headless bool

	// Supersample is the oversampling factor for Snapshot.
	Supersample int

	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger receives lifecycle and dial messages. Nil disables logging.
	Logger Logger

	// Metrics defaults to DefaultMetrics(). Call RegisterExpvar on it to
	// publish the counters under /debug/vars.
	Metrics *Metrics

	// ErrorTracker defaults to a tracker built from
	// DefaultErrorTrackerConfig.
	ErrorTracker *ErrorTracker

	// WatchConfig reloads the dial when its Lua file changes on disk.
	// It has no effect on instances that were not created with New.
	WatchConfig bool

	// WatchDebounce collapses bursts of file events into one reload.
	// Zero means DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// DefaultOptions returns the zero Options: a windowed dial that uses its
// configuration file as is.
func DefaultOptions() Options {
	return Options{}
}

// Logger is the slog-style logging interface the Regulator writes to.
// *SlogAdapter and NopLogger satisfy it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
