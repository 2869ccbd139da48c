package regulator

import (
	"expvar"
	"math"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-regulator/internal/render"
)

// Metrics provides application-level metrics collection for go-regulator.
// It uses Go's expvar package for exposition, which can be accessed via the
// /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := regulator.NewMetrics()
//	metrics.RegisterExpvar()
//	opts := regulator.Options{Metrics: metrics}
type Metrics struct {
	// Lifecycle counters
	starts        atomic.Int64
	stops         atomic.Int64
	restarts      atomic.Int64
	configReloads atomic.Int64
	updateCycles  atomic.Int64
	errorsTotal   atomic.Int64
	eventsEmitted atomic.Int64

	// Dial counters
	adjusting     atomic.Int64
	adjusted      atomic.Int64
	rasterRenders atomic.Int64
	rasterHits    atomic.Int64
	snapshots     atomic.Int64

	// Latency tracking (stored as nanoseconds)
	updateLatencyNs    atomic.Int64
	updateLatencyCount atomic.Int64
	rasterLatencyNs    atomic.Int64
	rasterLatencyCount atomic.Int64

	// Current state gauges
	currentlyRunning atomic.Int32
	fpsBits          atomic.Uint64

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// Metric names are global, so only one Metrics per process may register;
// later calls on the same instance are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	counters := map[string]*atomic.Int64{
		"regulator_starts_total":            &m.starts,
		"regulator_stops_total":             &m.stops,
		"regulator_restarts_total":          &m.restarts,
		"regulator_config_reloads_total":    &m.configReloads,
		"regulator_update_cycles_total":     &m.updateCycles,
		"regulator_errors_total":            &m.errorsTotal,
		"regulator_events_emitted_total":    &m.eventsEmitted,
		"regulator_adjusting_total":         &m.adjusting,
		"regulator_adjusted_total":          &m.adjusted,
		"regulator_raster_renders_total":    &m.rasterRenders,
		"regulator_raster_cache_hits_total": &m.rasterHits,
		"regulator_snapshots_total":         &m.snapshots,
	}
	for name, c := range counters {
		expvar.Publish(name, expvar.Func(func() any { return c.Load() }))
	}

	expvar.Publish("regulator_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))
	expvar.Publish("regulator_fps", expvar.Func(func() any { return m.FPS() }))

	// Latency averages (milliseconds)
	expvar.Publish("regulator_update_latency_avg_ms", expvar.Func(func() any {
		return avgMillis(m.updateLatencyNs.Load(), m.updateLatencyCount.Load())
	}))
	expvar.Publish("regulator_raster_latency_avg_ms", expvar.Func(func() any {
		return avgMillis(m.rasterLatencyNs.Load(), m.rasterLatencyCount.Load())
	}))
}

func avgMillis(totalNs, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNs) / float64(count) / 1e6
}

// Snapshot returns a point-in-time copy of all metrics.
// Useful for testing or custom metric exposition.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Starts:          m.starts.Load(),
		Stops:           m.stops.Load(),
		Restarts:        m.restarts.Load(),
		ConfigReloads:   m.configReloads.Load(),
		UpdateCycles:    m.updateCycles.Load(),
		ErrorsTotal:     m.errorsTotal.Load(),
		EventsEmitted:   m.eventsEmitted.Load(),
		Adjusting:       m.adjusting.Load(),
		Adjusted:        m.adjusted.Load(),
		RasterRenders:   m.rasterRenders.Load(),
		RasterCacheHits: m.rasterHits.Load(),
		Snapshots:       m.snapshots.Load(),

		Running: m.currentlyRunning.Load() > 0,
		FPS:     m.FPS(),

		UpdateLatencyAvg: safeDivide(m.updateLatencyNs.Load(), m.updateLatencyCount.Load()),
		RasterLatencyAvg: safeDivide(m.rasterLatencyNs.Load(), m.rasterLatencyCount.Load()),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Lifecycle counters
	Starts        int64
	Stops         int64
	Restarts      int64
	ConfigReloads int64
	UpdateCycles  int64
	ErrorsTotal   int64
	EventsEmitted int64

	// Dial counters
	Adjusting       int64
	Adjusted        int64
	RasterRenders   int64
	RasterCacheHits int64
	Snapshots       int64

	// Gauges
	Running bool
	FPS     float64

	// Latency averages
	UpdateLatencyAvg time.Duration
	RasterLatencyAvg time.Duration
}

// CacheHitRatio returns the share of raster requests served from cache.
func (s MetricsSnapshot) CacheHitRatio() float64 {
	total := s.RasterRenders + s.RasterCacheHits
	if total == 0 {
		return 0
	}
	return float64(s.RasterCacheHits) / float64(total)
}

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() { m.starts.Add(1) }

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() { m.stops.Add(1) }

// IncrementRestarts records a restart operation.
func (m *Metrics) IncrementRestarts() { m.restarts.Add(1) }

// IncrementConfigReloads records a configuration reload.
func (m *Metrics) IncrementConfigReloads() { m.configReloads.Add(1) }

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() { m.errorsTotal.Add(1) }

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() { m.eventsEmitted.Add(1) }

// IncrementSnapshots records a headless dial render.
func (m *Metrics) IncrementSnapshots() { m.snapshots.Add(1) }

// RecordAdjusting counts a dial notification; adjusting false means the
// dial settled.
func (m *Metrics) RecordAdjusting(adjusting bool) {
	if adjusting {
		m.adjusting.Add(1)
	} else {
		m.adjusted.Add(1)
	}
}

// RecordUpdate records one update cycle and its duration.
func (m *Metrics) RecordUpdate(d time.Duration) {
	m.updateCycles.Add(1)
	m.updateLatencyNs.Add(d.Nanoseconds())
	m.updateLatencyCount.Add(1)
}

// RecordRaster records a gradient raster request. Cache hits are counted
// separately and do not contribute to the latency average.
func (m *Metrics) RecordRaster(info render.RenderInfo) {
	if info.Cached {
		m.rasterHits.Add(1)
		return
	}
	m.rasterRenders.Add(1)
	m.rasterLatencyNs.Add(info.Duration.Nanoseconds())
	m.rasterLatencyCount.Add(1)
}

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// SetFPS updates the frame rate gauge.
func (m *Metrics) SetFPS(fps float64) {
	m.fpsBits.Store(math.Float64bits(fps))
}

// FPS returns the last frame rate reported by the window.
func (m *Metrics) FPS() float64 {
	return math.Float64frombits(m.fpsBits.Load())
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.starts, &m.stops, &m.restarts, &m.configReloads, &m.updateCycles,
		&m.errorsTotal, &m.eventsEmitted, &m.adjusting, &m.adjusted,
		&m.rasterRenders, &m.rasterHits, &m.snapshots,
		&m.updateLatencyNs, &m.updateLatencyCount, &m.rasterLatencyNs, &m.rasterLatencyCount,
	} {
		c.Store(0)
	}
	m.currentlyRunning.Store(0)
	m.fpsBits.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
// This can be used when a single application-wide metrics collector is sufficient.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
