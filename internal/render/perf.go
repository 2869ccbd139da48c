package render

import (
	"sync/atomic"
	"time"
)

// FrameStats tracks how long dial frames take to draw and how often they
// are drawn. All methods are safe for concurrent use.
type FrameStats struct {
	frames      atomic.Int64
	periodCount atomic.Int64
	lastFPS     atomic.Int64 // FPS * 1000
	lastFrame   atomic.Int64 // nanoseconds
	maxFrame    atomic.Int64 // nanoseconds
	totalTime   atomic.Int64 // nanoseconds
	periodStart atomic.Int64 // Unix nano
	period      time.Duration
}

// NewFrameStats creates stats that recompute FPS once per period
// (default: 1 second).
func NewFrameStats(period time.Duration) *FrameStats {
	if period <= 0 {
		period = time.Second
	}
	fs := &FrameStats{period: period}
	fs.periodStart.Store(time.Now().UnixNano())
	return fs
}

// Record adds one drawn frame that took d.
func (fs *FrameStats) Record(d time.Duration) {
	nanos := d.Nanoseconds()
	fs.frames.Add(1)
	fs.periodCount.Add(1)
	fs.lastFrame.Store(nanos)
	fs.totalTime.Add(nanos)
	for {
		cur := fs.maxFrame.Load()
		if nanos <= cur || fs.maxFrame.CompareAndSwap(cur, nanos) {
			break
		}
	}

	now := time.Now().UnixNano()
	start := fs.periodStart.Load()
	elapsed := time.Duration(now - start)
	if elapsed >= fs.period && fs.periodStart.CompareAndSwap(start, now) {
		n := fs.periodCount.Swap(0)
		fs.lastFPS.Store(int64(float64(n) / elapsed.Seconds() * 1000))
	}
}

// Frames returns the number of frames recorded.
func (fs *FrameStats) Frames() int64 {
	return fs.frames.Load()
}

// FPS returns the frame rate over the last completed period.
func (fs *FrameStats) FPS() float64 {
	return float64(fs.lastFPS.Load()) / 1000
}

// LastFrameTime returns the duration of the last frame.
func (fs *FrameStats) LastFrameTime() time.Duration {
	return time.Duration(fs.lastFrame.Load())
}

// MaxFrameTime returns the slowest frame recorded.
func (fs *FrameStats) MaxFrameTime() time.Duration {
	return time.Duration(fs.maxFrame.Load())
}

// AverageFrameTime returns the mean frame time.
func (fs *FrameStats) AverageFrameTime() time.Duration {
	n := fs.frames.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(fs.totalTime.Load() / n)
}
