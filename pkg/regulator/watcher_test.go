package regulator

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// newTestWatcher writes an initial config to a temp dir and starts a
// watcher on it with a short debounce.
func newTestWatcher(t *testing.T, debounce time.Duration) (string, *configWatcher, *atomic.Int32) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dial.lua")
	if err := os.WriteFile(path, []byte("regulator.config = {}"), 0o644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	var reloads atomic.Int32
	w, err := newConfigWatcher(path, debounce, func() { reloads.Add(1) }, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	w.Start()
	t.Cleanup(w.Stop)

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return path, w, &reloads
}

func TestConfigWatcher_DetectsFileChange(t *testing.T) {
	path, _, reloads := newTestWatcher(t, 50*time.Millisecond)

	if err := os.WriteFile(path, []byte("regulator.config = { max_value = 30 }"), 0o644); err != nil {
		t.Fatalf("failed to modify config file: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

func TestConfigWatcher_DebounceMultipleWrites(t *testing.T) {
	path, _, reloads := newTestWatcher(t, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("regulator.config = {}"), 0o644); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	if got := reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1 after debounced burst", got)
	}
}

func TestConfigWatcher_StopPreventsReload(t *testing.T) {
	path, w, reloads := newTestWatcher(t, 50*time.Millisecond)

	w.Stop()
	w.Stop() // idempotent

	if err := os.WriteFile(path, []byte("regulator.config = {}"), 0o644); err != nil {
		t.Fatalf("failed to modify config file: %v", err)
	}
	time.Sleep(150 * time.Millisecond)

	if got := reloads.Load(); got != 0 {
		t.Errorf("reloads after Stop = %d, want 0", got)
	}
}

func TestConfigWatcher_HandlesAtomicSave(t *testing.T) {
	path, _, reloads := newTestWatcher(t, 50*time.Millisecond)

	tmp := path + ".swp"
	if err := os.WriteFile(tmp, []byte("regulator.config = { decimals = 1 }"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := reloads.Load(); got < 1 {
		t.Errorf("reloads = %d, want >= 1 after rename onto the config", got)
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	path, _, reloads := newTestWatcher(t, 50*time.Millisecond)

	other := filepath.Join(filepath.Dir(path), "other.lua")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}
	time.Sleep(150 * time.Millisecond)

	if got := reloads.Load(); got != 0 {
		t.Errorf("reloads = %d, want 0 for unrelated file", got)
	}
}

func TestConfigWatcher_MissingDirectory(t *testing.T) {
	_, err := newConfigWatcher(filepath.Join(t.TempDir(), "missing", "dial.lua"), 0, func() {}, nil)
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestConfigWatcher_Matches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dial.lua")
	w, err := newConfigWatcher(path, 0, nil, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.watcher.Close()

	if w.debounce != DefaultWatchDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "x.lua"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.matches(tt.ev); got != tt.want {
				t.Errorf("matches(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
