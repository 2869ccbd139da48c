package regulator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-regulator/internal/config"
	"github.com/opd-ai/go-regulator/internal/dial"
	"github.com/opd-ai/go-regulator/internal/profiling"
	"github.com/opd-ai/go-regulator/internal/render"
)

// source describes where a configuration comes from and how to read it
// again on Restart and ReloadConfig.
// window is what the lifecycle code needs from an open dial window.
// *render.Game implements it; noebiten builds never create one.
type window interface {
	IsRunning() bool
	FrameStats() *render.FrameStats
}

type source struct {
	name   string
	loader func() (*config.Config, error)
	// watch is the file to watch for changes; empty disables watching.
	watch string
}

// regulatorImpl is the private implementation of the Regulator interface.
type regulatorImpl struct {
	// Configuration
	cfg  *config.Config
	opts Options
	src  source

	// Components
	state   *dial.State
	game    window // set while the window is open
	metrics *Metrics
	tracker *ErrorTracker

	// State
	running     atomic.Bool
	startTime   time.Time
	lastStep    time.Time
	updateCount atomic.Uint64
	lastError   atomic.Pointer[CategorizedError]

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Synchronization
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Verify interface implementation at compile time.
var (
	_ Regulator           = (*regulatorImpl)(nil)
	_ render.DataProvider = (*regulatorImpl)(nil)
)

// newRegulator validates cfg and builds an instance around it.
func newRegulator(cfg *config.Config, opts *Options, src source) (Regulator, error) {
	if cfg == nil {
		return nil, errors.New("configuration is nil")
	}

	r := &regulatorImpl{src: src}
	if opts != nil {
		r.opts = *opts
	}

	r.metrics = r.opts.Metrics
	if r.metrics == nil {
		r.metrics = DefaultMetrics()
	}
	r.tracker = r.opts.ErrorTracker
	if r.tracker == nil {
		r.tracker = NewErrorTracker(DefaultErrorTrackerConfig())
	}

	if err := r.prepare(cfg); err != nil {
		return nil, err
	}
	r.cfg = cfg
	r.state = r.newState(cfg)

	r.logInfo("regulator created", "source", src.name,
		"min", cfg.Dial.Min, "max", cfg.Dial.Max, "sweep", cfg.Dial.SweepRange)
	return r, nil
}

// prepare applies the option overrides to a freshly loaded configuration
// and validates the result. Warnings are logged; errors are returned.
func (r *regulatorImpl) prepare(cfg *config.Config) error {
	if r.opts.UpdateInterval > 0 {
		cfg.Window.UpdateInterval = r.opts.UpdateInterval
	}
	if r.opts.WindowTitle != "" {
		cfg.Window.Title = r.opts.WindowTitle
	}
	if r.opts.Size > 0 {
		cfg.Window.Size = r.opts.Size
	}

	result := config.NewValidator().Validate(cfg)
	for _, w := range result.Warnings {
		r.logWarn("configuration warning", "field", w.Field, "message", w.Message)
	}
	if !result.IsValid() {
		return fmt.Errorf("invalid configuration: %w", result.Error())
	}
	return nil
}

// buildState turns a configuration into a dial state. No handlers are
// installed, so setting the initial values is silent.
func buildState(cfg *config.Config) *dial.State {
	dc := cfg.Dial
	m := dial.NewMapperWithGeometry(dc.Min, dc.Max, dc.SweepStart, dc.SweepRange)
	if dc.DeadZoneClamp != 0 || dc.DeadZoneSnap != 0 {
		dz := dial.DefaultDeadZone(m.SweepRange())
		if dc.DeadZoneClamp != 0 {
			dz.ClampFrom = dc.DeadZoneClamp
		}
		if dc.DeadZoneSnap != 0 {
			dz.SnapFrom = dc.DeadZoneSnap
		}
		m.SetDeadZone(dz)
	}

	s := dial.NewState(m)
	s.SetDecimals(dc.Decimals)
	s.SetUnit(dc.Unit)
	s.SetGradientStops(cfg.Gradient.Stops)
	table := s.Gradient().Stops()
	table.SetDirection(cfg.Gradient.Direction)
	table.RecalculateWithAngle(cfg.Gradient.Rotation + m.SweepRotation())
	s.SetTarget(dc.Target)
	s.SetCurrent(dc.Current)
	return s
}

// newState builds a state for cfg and wires its notifications into the
// instance.
func (r *regulatorImpl) newState(cfg *config.Config) *dial.State {
	s := buildState(cfg)
	r.installHooks(s)
	return s
}

func (r *regulatorImpl) installHooks(s *dial.State) {
	s.SetOnAdjusting(func(ev dial.Event) { r.dialEvent(EventAdjusting, ev) })
	s.SetOnAdjusted(func(ev dial.Event) { r.dialEvent(EventAdjusted, ev) })
	s.Gradient().SetRenderHook(r.metrics.RecordRaster)
}

// dialEvent forwards a dial notification to the event handler.
func (r *regulatorImpl) dialEvent(t EventType, ev dial.Event) {
	r.metrics.RecordAdjusting(t == EventAdjusting)
	r.logDebug("dial "+t.String(), "target", ev.Target, "current", ev.Current)
	r.dispatchSync(Event{
		Type:      t,
		Timestamp: time.Now(),
		Message:   fmt.Sprintf("target %g, current %g", ev.Target, ev.Current),
		Target:    ev.Target,
		Current:   ev.Current,
	})
}

// Start begins the update loop and, unless headless, opens the window.
func (r *regulatorImpl) Start() error {
	r.mu.Lock()

	if r.running.Load() {
		r.mu.Unlock()
		return errors.New("regulator instance already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.ctx, r.cancel = ctx, cancel

	// Set running state BEFORE starting goroutine to avoid race
	r.running.Store(true)
	r.startTime = time.Now()
	r.lastStep = time.Time{}
	r.mu.Unlock()

	r.metrics.IncrementStarts()
	r.metrics.SetRunning(true)

	watcher := r.startWatcher()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Store(false)
		defer r.metrics.SetRunning(false)
		defer func() {
			if watcher != nil {
				watcher.Stop()
			}
		}()

		if r.opts.Headless {
			r.runHeadless(ctx)
		} else {
			r.runRenderLoop(ctx)
			// Closing the window ends the instance as well.
			cancel()
		}

		r.emitEvent(EventStopped, "Instance stopped")
	}()

	r.logInfo("regulator started", "headless", r.opts.Headless, "interval", r.interval())
	r.emitEvent(EventStarted, "Instance started")
	return nil
}

// startWatcher starts a file watcher when enabled and the source is a file.
func (r *regulatorImpl) startWatcher() *configWatcher {
	if !r.opts.WatchConfig || r.src.watch == "" {
		return nil
	}
	// ReloadConfig reports its own failures.
	w, err := newConfigWatcher(r.src.watch, r.opts.WatchDebounce, func() { _ = r.ReloadConfig() }, func(err error) {
		r.notifyError(ErrorCategoryWatch, SeverityWarning, fmt.Errorf("config watch: %w", err))
	})
	if err != nil {
		r.notifyError(ErrorCategoryWatch, SeverityError, fmt.Errorf("start config watcher: %w", err))
		return nil
	}
	w.Start()
	r.logDebug("watching configuration", "path", r.src.watch)
	return w
}

// runHeadless advances the dial on a ticker until ctx is cancelled.
func (r *regulatorImpl) runHeadless(ctx context.Context) {
	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			profiling.Do(ctx, "update", func(context.Context) {
				if err := r.Update(); err != nil {
					r.notifyError(ErrorCategoryUnknown, SeverityWarning, err)
				}
			})
		}
	}
}

// interval returns the configured update interval.
func (r *regulatorImpl) interval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cfg.Window.UpdateInterval > 0 {
		return r.cfg.Window.UpdateInterval
	}
	return config.DefaultUpdateInterval
}

// Update advances the simulated current value toward the target at the
// configured adjust rate. The render loop calls it once per update
// interval; headless instances call it from a ticker.
func (r *regulatorImpl) Update() error {
	start := time.Now()

	r.mu.Lock()
	state := r.state
	rate := r.cfg.Dial.AdjustRate
	var elapsed time.Duration
	if !r.lastStep.IsZero() {
		elapsed = start.Sub(r.lastStep)
	}
	r.lastStep = start
	game := r.game
	r.mu.Unlock()

	// The state lock is not held here: dial handlers re-enter the instance.
	cur := state.Current()
	if next := approach(cur, state.Target(), rate*elapsed.Seconds()); next != cur {
		state.SetCurrent(next)
	}

	r.updateCount.Add(1)
	r.metrics.RecordUpdate(time.Since(start))
	if game != nil {
		r.metrics.SetFPS(game.FrameStats().FPS())
	}
	return nil
}

// approach moves current toward target by at most maxDelta.
func approach(current, target, maxDelta float64) float64 {
	if maxDelta <= 0 || math.IsNaN(maxDelta) {
		return current
	}
	d := target - current
	if math.Abs(d) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, d)
}

// Stop gracefully shuts down the instance.
func (r *regulatorImpl) Stop() error {
	if !r.running.Load() {
		return nil // Already stopped
	}

	// Signal stop
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	// Wait for goroutines with timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	timeout := r.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		r.metrics.IncrementStops()
		r.logInfo("regulator stopped")
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: some goroutines did not stop", timeout)
		r.notifyError(ErrorCategoryUnknown, SeverityCritical, err)
		return err
	}
}

// Restart stops the instance, reloads the configuration from its source,
// resets the dial and starts again.
func (r *regulatorImpl) Restart() error {
	if err := r.Stop(); err != nil {
		wrappedErr := fmt.Errorf("stop failed: %w", err)
		r.notifyError(ErrorCategoryUnknown, SeverityError, wrappedErr)
		return wrappedErr
	}

	cfg, err := r.load()
	if err != nil {
		r.notifyError(loadCategory(err), SeverityError, err)
		return err
	}
	state := r.newState(cfg)

	r.mu.Lock()
	r.cfg = cfg
	r.state = state
	r.mu.Unlock()
	r.emitEvent(EventConfigReloaded, "Configuration reloaded")

	if err := r.Start(); err != nil {
		wrappedErr := fmt.Errorf("start failed: %w", err)
		r.notifyError(ErrorCategoryUnknown, SeverityError, wrappedErr)
		return wrappedErr
	}

	r.metrics.IncrementRestarts()
	r.emitEvent(EventRestarted, "Instance restarted")
	return nil
}

// load reads the configuration again and prepares it.
func (r *regulatorImpl) load() (*config.Config, error) {
	if r.src.loader == nil {
		return nil, errors.New("no config loader available")
	}
	cfg, err := r.src.loader()
	if err != nil {
		return nil, fmt.Errorf("config reload failed: %w", err)
	}
	if err := r.prepare(cfg); err != nil {
		return nil, fmt.Errorf("config reload failed: %w", err)
	}
	return cfg, nil
}

// loadCategory tells script failures apart from bad values.
func loadCategory(err error) ErrorCategory {
	if errors.Is(err, config.ErrLuaScript) {
		return ErrorCategoryLua
	}
	return ErrorCategoryConfig
}

// ReloadConfig reloads the configuration in-place without stopping. The
// dial is rebuilt for the new geometry and keeps its target and current
// values, clamped to the new bounds.
func (r *regulatorImpl) ReloadConfig() error {
	if !r.running.Load() {
		return errors.New("regulator instance not running")
	}

	newCfg, err := r.load()
	if err != nil {
		r.notifyError(loadCategory(err), SeverityError, err)
		return err
	}

	state := buildState(newCfg)

	r.mu.Lock()
	old := r.state
	state.SetTarget(old.Target())
	state.SetCurrent(old.Current())
	oldCfg := r.cfg
	r.cfg = newCfg
	r.state = state
	game := r.game
	r.mu.Unlock()

	r.installHooks(state)
	if game != nil {
		r.applyConfigToWindow(game, state, newCfg, oldCfg)
	}

	r.metrics.IncrementConfigReloads()
	r.logInfo("configuration reloaded", "source", r.src.name)
	r.emitEvent(EventConfigReloaded, "Configuration reloaded in-place")
	return nil
}

// IsRunning returns true if the instance is currently running.
func (r *regulatorImpl) IsRunning() bool {
	return r.running.Load()
}

// Status returns detailed status information about the instance.
func (r *regulatorImpl) Status() Status {
	r.mu.RLock()
	startTime := r.startTime
	state := r.state
	r.mu.RUnlock()

	return Status{
		Running:      r.running.Load(),
		StartTime:    startTime,
		UpdateCount:  r.updateCount.Load(),
		LastError:    r.getError(),
		ConfigSource: r.src.name,
		Target:       state.Target(),
		Current:      state.Current(),
		Adjusting:    state.TargetVisible(),
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (r *regulatorImpl) SetErrorHandler(handler ErrorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle and dial events.
func (r *regulatorImpl) SetEventHandler(handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventHandler = handler
}

// SetTarget sets the value the dial is turned to.
func (r *regulatorImpl) SetTarget(v float64) {
	r.State().SetTarget(v)
}

// SetCurrent reports the measured value.
func (r *regulatorImpl) SetCurrent(v float64) {
	r.State().SetCurrent(v)
}

// State returns the dial state currently drawn.
func (r *regulatorImpl) State() *dial.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Config returns a copy of the active configuration.
func (r *regulatorImpl) Config() config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg := *r.cfg
	cfg.Window.Hints = append([]config.WindowHint(nil), r.cfg.Window.Hints...)
	cfg.Gradient.Stops = append([]render.ColorStop(nil), r.cfg.Gradient.Stops...)
	return cfg
}

// Snapshot renders the dial without a window.
func (r *regulatorImpl) Snapshot(size int) (*image.NRGBA, error) {
	r.mu.RLock()
	state := r.state
	win := r.cfg.Window
	ctx := r.ctx
	r.mu.RUnlock()

	if size <= 0 {
		size = win.Size
	}
	supersample := r.opts.Supersample
	if supersample <= 0 {
		supersample = DefaultSnapshotSupersample
	}

	font, err := render.LoadFont(win.Font)
	if err != nil {
		r.notifyError(ErrorCategoryIO, SeverityWarning, err)
	}

	f := state.Frame(size)
	f.Background = win.FaceColour
	f.TextColor = win.TextColour
	f.Font = font

	var img *image.NRGBA
	profiling.Do(ctx, "snapshot", func(context.Context) {
		img, err = render.RenderDial(f, supersample)
	})
	if err != nil {
		err = fmt.Errorf("render snapshot: %w", err)
		r.notifyError(ErrorCategoryRender, SeverityError, err)
		return nil, err
	}
	r.metrics.IncrementSnapshots()
	return img, nil
}

// getError retrieves the last error.
func (r *regulatorImpl) getError() error {
	if ce := r.lastError.Load(); ce != nil {
		return ce
	}
	return nil
}

// notifyError records an error with the tracker and invokes the error
// handler if registered.
func (r *regulatorImpl) notifyError(category ErrorCategory, severity ErrorSeverity, err error) {
	ce := NewCategorizedError(err, category, severity)
	r.lastError.Store(ce)
	r.tracker.Record(ce)
	r.metrics.IncrementErrors()

	r.mu.RLock()
	handler := r.errorHandler
	r.mu.RUnlock()

	r.logError("regulator error", "category", category, "severity", severity, "error", err)

	if handler != nil {
		go func() {
			defer func() {
				if p := recover(); p != nil {
					r.logError("error handler panicked", "panic", p, "original_error", err)
				}
			}()
			handler(ce)
		}()
	}

	r.emitEvent(EventError, err.Error())
}

// emitEvent sends a lifecycle event to the event handler if configured.
func (r *regulatorImpl) emitEvent(eventType EventType, message string) {
	r.dispatch(Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Message:   message,
	})
}

// dispatch delivers a lifecycle event on its own goroutine.
func (r *regulatorImpl) dispatch(ev Event) {
	if handler, errHandler := r.eventHandlers(); handler != nil {
		go deliver(handler, errHandler, ev)
	}
}

// dispatchSync delivers a dial event before returning, so a handler sees
// adjusting and adjusted in the order the dial produced them.
func (r *regulatorImpl) dispatchSync(ev Event) {
	if handler, errHandler := r.eventHandlers(); handler != nil {
		deliver(handler, errHandler, ev)
	}
}

func (r *regulatorImpl) eventHandlers() (EventHandler, ErrorHandler) {
	r.metrics.IncrementEventsEmitted()

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.eventHandler, r.errorHandler
}

// deliver calls handler, reporting a panic to errHandler.
func deliver(handler EventHandler, errHandler ErrorHandler, ev Event) {
	defer func() {
		if p := recover(); p != nil && errHandler != nil {
			if err, ok := p.(error); ok {
				errHandler(fmt.Errorf("panic in event handler: %w", err))
			} else {
				errHandler(fmt.Errorf("panic in event handler: %v", p))
			}
		}
	}()
	handler(ev)
}

// Health returns a health check result for the instance.
func (r *regulatorImpl) Health() HealthCheck {
	now := time.Now()
	running := r.running.Load()

	r.mu.RLock()
	var uptime time.Duration
	if running && !r.startTime.IsZero() {
		uptime = now.Sub(r.startTime)
	}
	state := r.state
	game := r.game
	r.mu.RUnlock()

	components := map[string]ComponentHealth{
		"instance": instanceHealth(running, now),
		"dial":     dialHealth(state, r.updateCount.Load(), now),
		"render":   renderHealth(running, r.opts.Headless || !windowSupported, game, now),
		"errors":   errorHealth(r.getError(), r.tracker.ErrorRate(time.Minute)*60, now),
	}

	return summarize(running, uptime, now, components)
}

// Metrics returns the metrics collector for this instance.
func (r *regulatorImpl) Metrics() *Metrics {
	return r.metrics
}

// Errors returns the error tracker for this instance.
func (r *regulatorImpl) Errors() *ErrorTracker {
	return r.tracker
}

func (r *regulatorImpl) logDebug(msg string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Debug(msg, args...)
	}
}

func (r *regulatorImpl) logInfo(msg string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Info(msg, args...)
	}
}

func (r *regulatorImpl) logWarn(msg string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Warn(msg, args...)
	}
}

func (r *regulatorImpl) logError(msg string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Error(msg, args...)
	}
}
