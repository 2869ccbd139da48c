// Package profiling backs the regulator's -cpuprofile and -memprofile flags
// and labels raster work so CPU profiles can be split by component.
package profiling

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Profiler manages one CPU profiling session and the heap profile written
// when it stops.
type Profiler struct {
	config  Config
	cpuFile *os.File
	running bool
	mu      sync.Mutex
}

// Config holds configuration for the profiler.
type Config struct {
	// CPUProfilePath is the file path for CPU profile output.
	// If empty, CPU profiling is disabled.
	CPUProfilePath string

	// MemProfilePath is the file path for the heap profile written by Stop.
	// If empty, memory profiling is disabled.
	MemProfilePath string
}

// Enabled returns true if any profiling is configured.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// New creates a new Profiler with the given configuration.
// The profiler is not started automatically; call Start to begin profiling.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Start begins CPU profiling if a CPU profile path was configured.
// It returns an error if profiling is already running or if the file cannot be created.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler is already running")
	}

	if p.config.CPUProfilePath != "" {
		f, err := os.Create(p.config.CPUProfilePath)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile if configured.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return errors.New("profiler is not running")
	}
	p.running = false

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close CPU profile file: %w", err))
		}
		p.cpuFile = nil
	}

	if p.config.MemProfilePath != "" {
		if err := WriteHeapProfile(p.config.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IsRunning returns true if the profiler is currently running.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile writes a heap profile to path after a forced collection,
// so the profile shows live objects only.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create memory profile file: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	return nil
}

// ComponentLabel is the pprof label key set by Do.
const ComponentLabel = "component"

// Do runs fn with the pprof label component=name attached to ctx and to
// the goroutine, so samples taken inside fn can be filtered with
// `go tool pprof -tagfocus component=name`.
func Do(ctx context.Context, name string, fn func(context.Context)) {
	if ctx == nil {
		ctx = context.Background()
	}
	pprof.Do(ctx, pprof.Labels(ComponentLabel, name), fn)
}
