package profiling

import (
	"context"
	"os"
	"path/filepath"
	"runtime/pprof"
	"sync"
	"testing"
)

func fileNotEmpty(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("profile %s not written: %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("profile %s is empty", path)
	}
}

func TestProfilerStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	cpuPath := filepath.Join(tmpDir, "cpu.prof")
	memPath := filepath.Join(tmpDir, "mem.prof")

	p := New(Config{CPUProfilePath: cpuPath, MemProfilePath: memPath})
	if p.IsRunning() {
		t.Error("new profiler should not be running")
	}

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !p.IsRunning() {
		t.Error("IsRunning() should return true after Start()")
	}
	if err := p.Start(); err == nil {
		t.Error("Start() should fail when already running")
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if p.IsRunning() {
		t.Error("IsRunning() should return false after Stop()")
	}

	fileNotEmpty(t, cpuPath)
	fileNotEmpty(t, memPath)
}

func TestProfilerStopWithoutStart(t *testing.T) {
	p := New(Config{})
	if err := p.Stop(); err == nil {
		t.Error("Stop() should fail when not running")
	}
}

func TestProfilerMemoryOnly(t *testing.T) {
	memPath := filepath.Join(t.TempDir(), "mem.prof")
	p := New(Config{MemProfilePath: memPath})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if p.cpuFile != nil {
		t.Error("CPU profiling started without a path")
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	fileNotEmpty(t, memPath)
}

func TestProfilerInvalidPaths(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "out.prof")

	p := New(Config{CPUProfilePath: missing})
	if err := p.Start(); err == nil {
		t.Error("Start() should fail for an unwritable CPU path")
	}
	if p.IsRunning() {
		t.Error("failed Start() left the profiler running")
	}

	p = New(Config{MemProfilePath: missing})
	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := p.Stop(); err == nil {
		t.Error("Stop() should report the unwritable memory path")
	}
	if p.IsRunning() {
		t.Error("profiler still running after a failed Stop()")
	}
}

func TestProfilerConcurrentIsRunning(t *testing.T) {
	p := New(Config{})
	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.IsRunning()
		}()
	}
	wg.Wait()

	if err := p.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		config Config
		want   bool
	}{
		{Config{}, false},
		{Config{CPUProfilePath: "cpu.prof"}, true},
		{Config{MemProfilePath: "mem.prof"}, true},
	}
	for _, tt := range tests {
		if got := tt.config.Enabled(); got != tt.want {
			t.Errorf("%+v.Enabled() = %v, want %v", tt.config, got, tt.want)
		}
	}
}

func TestDoSetsComponentLabel(t *testing.T) {
	called := false
	Do(nil, "raster", func(ctx context.Context) {
		called = true
		v, ok := pprof.Label(ctx, ComponentLabel)
		if !ok || v != "raster" {
			t.Errorf("label = %q (%v), want raster", v, ok)
		}
	})
	if !called {
		t.Error("Do did not run fn")
	}
}
