package regulator

import (
	"fmt"
	"image"
	"io"
	"io/fs"

	"github.com/opd-ai/go-regulator/internal/config"
	"github.com/opd-ai/go-regulator/internal/dial"
)

// Regulator represents an embedded go-regulator instance with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Regulator interface {
	// Start begins the update loop and, unless headless, opens the dial window.
	// It returns immediately; the loop runs in background goroutines.
	// Returns an error if already running or if initialization fails.
	Start() error

	// Stop gracefully shuts down the instance.
	// It waits for all goroutines to complete before returning.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// Restart performs a stop followed by a start.
	// Configuration is reloaded from its source and the dial is
	// reset to the configured target and current values.
	Restart() error

	// ReloadConfig reloads the configuration in-place without stopping.
	// The live target and current values are kept, clamped to the new
	// bounds. Returns an error if configuration reload fails; the previous
	// config remains active.
	ReloadConfig() error

	// IsRunning returns true if the instance is currently running.
	IsRunning() bool

	// Status returns detailed status information about the instance.
	Status() Status

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously; panics in it are recovered.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle and dial events.
	SetEventHandler(handler EventHandler)

	// Health returns a health check result for the instance.
	Health() HealthCheck

	// Metrics returns the metrics collector for this instance.
	Metrics() *Metrics

	// Errors returns the error tracker for this instance.
	Errors() *ErrorTracker

	// SetTarget sets the value the dial is turned to, clamped to the bounds.
	SetTarget(v float64)

	// SetCurrent reports the measured value, clamped to the bounds.
	SetCurrent(v float64)

	// State returns the dial state currently drawn. A reload replaces it.
	State() *dial.State

	// Config returns a copy of the active configuration.
	Config() config.Config

	// Snapshot renders the dial into a size x size image without a window.
	// Non-positive sizes use the configured window size.
	Snapshot(size int) (*image.NRGBA, error)
}

// New creates a new Regulator instance from a Lua configuration file on disk.
// The instance is created but not started; call Start() to begin operation.
//
// Example:
//
//	r, err := regulator.New("/home/user/.config/thermostat.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Stop()
//	if err := r.Start(); err != nil {
//		log.Fatal(err)
//	}
func New(configPath string, opts *Options) (Regulator, error) {
	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, fmt.Errorf("parser init: %w", err)
		}
		defer p.Close()
		return p.ParseFile(configPath)
	}

	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return newRegulator(cfg, opts, source{
		name:   configPath,
		loader: loader,
		watch:  configPath,
	})
}

// NewFromFS creates a new Regulator instance using configuration from an
// embedded filesystem. Embedded configurations cannot be watched.
//
// Example:
//
//	//go:embed configs/*
//	var configFS embed.FS
//
//	r, err := regulator.NewFromFS(configFS, "configs/thermostat.lua", nil)
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (Regulator, error) {
	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, fmt.Errorf("parser init: %w", err)
		}
		defer p.Close()
		return p.ParseFromFS(fsys, configPath)
	}

	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config from FS: %w", err)
	}

	return newRegulator(cfg, opts, source{
		name:   "embedded:" + configPath,
		loader: loader,
	})
}

// NewFromReader creates a new Regulator instance from Lua configuration
// content provided as an io.Reader. The content is read once and kept for
// reloads.
//
// Example:
//
//	cfg := strings.NewReader(`regulator.config = { max_value = 30, unit = "°C" }`)
//	r, err := regulator.NewFromReader(cfg, nil)
func NewFromReader(rd io.Reader, opts *Options) (Regulator, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, fmt.Errorf("parser init: %w", err)
		}
		defer p.Close()
		return p.Parse(content)
	}

	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return newRegulator(cfg, opts, source{
		name:   "reader",
		loader: loader,
	})
}

// NewDefault creates a new Regulator instance with the built-in defaults:
// a 0-40 degree dial over a 280 degree sweep.
func NewDefault(opts *Options) (Regulator, error) {
	loader := func() (*config.Config, error) {
		cfg := config.DefaultConfig()
		return &cfg, nil
	}
	cfg, _ := loader()

	return newRegulator(cfg, opts, source{
		name:   "default",
		loader: loader,
	})
}
