// This file implements heap snapshots used to spot raster and texture
// cache growth across a session.

package profiling

import (
	"fmt"
	"runtime"
	"time"
)

// Byte size constants for memory formatting
const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// DefaultGrowthThreshold is the heap growth per second above which
// MemoryGrowth flags a likely leak.
const DefaultGrowthThreshold = 64 * KB

// MemorySnapshot represents a point-in-time memory measurement.
type MemorySnapshot struct {
	Timestamp      time.Time
	HeapAlloc      uint64
	HeapObjects    uint64
	GoroutineCount int
	NumGC          uint32
}

// TakeSnapshot captures the current memory state.
func TakeSnapshot() MemorySnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return MemorySnapshot{
		Timestamp:      time.Now(),
		HeapAlloc:      ms.HeapAlloc,
		HeapObjects:    ms.HeapObjects,
		GoroutineCount: runtime.NumGoroutine(),
		NumGC:          ms.NumGC,
	}
}

// MemoryGrowth is the difference between two snapshots.
type MemoryGrowth struct {
	Duration         time.Duration
	HeapAllocDelta   int64
	GoroutineDelta   int
	GrowthRatePerSec float64
	PotentialLeak    bool
}

// Growth compares s to an earlier snapshot. Heap growth faster than
// threshold bytes per second, or any goroutine gained, marks a potential
// leak; a regulator session runs a fixed set of goroutines.
func (s MemorySnapshot) Growth(since MemorySnapshot, threshold uint64) MemoryGrowth {
	g := MemoryGrowth{
		Duration:       s.Timestamp.Sub(since.Timestamp),
		HeapAllocDelta: int64(s.HeapAlloc) - int64(since.HeapAlloc),
		GoroutineDelta: s.GoroutineCount - since.GoroutineCount,
	}
	if g.Duration > 0 {
		g.GrowthRatePerSec = float64(g.HeapAllocDelta) / g.Duration.Seconds()
	}
	g.PotentialLeak = g.GrowthRatePerSec > float64(threshold) || g.GoroutineDelta > 0
	return g
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes uint64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// String returns a one-line summary of the growth.
func (g MemoryGrowth) String() string {
	sign := "+"
	delta := g.HeapAllocDelta
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	return fmt.Sprintf("heap %s%s over %s (%.2f KB/s), goroutines %+d",
		sign, FormatBytes(uint64(delta)), g.Duration.Round(time.Millisecond),
		g.GrowthRatePerSec/KB, g.GoroutineDelta)
}
