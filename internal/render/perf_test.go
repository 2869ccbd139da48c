package render

import (
	"sync"
	"testing"
	"time"
)

func TestNewFrameStatsPeriod(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
		want   time.Duration
	}{
		{"custom", 500 * time.Millisecond, 500 * time.Millisecond},
		{"zero defaults", 0, time.Second},
		{"negative defaults", -time.Second, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFrameStats(tt.period).period; got != tt.want {
				t.Errorf("period = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameStatsRecord(t *testing.T) {
	fs := NewFrameStats(time.Hour)
	fs.Record(2 * time.Millisecond)
	fs.Record(6 * time.Millisecond)
	fs.Record(4 * time.Millisecond)

	if fs.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", fs.Frames())
	}
	if fs.LastFrameTime() != 4*time.Millisecond {
		t.Errorf("LastFrameTime() = %v, want 4ms", fs.LastFrameTime())
	}
	if fs.MaxFrameTime() != 6*time.Millisecond {
		t.Errorf("MaxFrameTime() = %v, want 6ms", fs.MaxFrameTime())
	}
	if fs.AverageFrameTime() != 4*time.Millisecond {
		t.Errorf("AverageFrameTime() = %v, want 4ms", fs.AverageFrameTime())
	}
	if fs.FPS() != 0 {
		t.Errorf("FPS() = %v before the first period ends, want 0", fs.FPS())
	}
}

func TestFrameStatsEmpty(t *testing.T) {
	fs := NewFrameStats(time.Second)
	if fs.AverageFrameTime() != 0 || fs.Frames() != 0 {
		t.Error("empty stats should report zero")
	}
}

func TestFrameStatsFPS(t *testing.T) {
	fs := NewFrameStats(time.Millisecond)
	fs.periodStart.Store(time.Now().Add(-time.Second).UnixNano())
	fs.Record(time.Millisecond)

	if fps := fs.FPS(); fps <= 0 || fps > 2 {
		t.Errorf("FPS() = %v, want about 1", fps)
	}
}

func TestFrameStatsConcurrent(t *testing.T) {
	fs := NewFrameStats(time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				fs.Record(time.Duration(i*100+j) * time.Microsecond)
			}
		}(i)
	}
	wg.Wait()

	if fs.Frames() != 800 {
		t.Errorf("Frames() = %d, want 800", fs.Frames())
	}
	if fs.MaxFrameTime() != 799*time.Microsecond {
		t.Errorf("MaxFrameTime() = %v, want 799µs", fs.MaxFrameTime())
	}
}
