package regulator

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 500 * time.Millisecond

// reloadOps are the operations that can leave new content at the watched
// path. Rename covers editors that save by renaming a temporary file.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// configWatcher calls onChange once per burst of changes to a Lua
// configuration file.
type configWatcher struct {
	watcher  *fsnotify.Watcher
	path     string // absolute
	debounce time.Duration
	onChange func()
	onError  func(error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// newConfigWatcher creates a watcher for path. Nothing is delivered until
// Start is called.
func newConfigWatcher(path string, debounce time.Duration, onChange func(), onError func(error)) (*configWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// The directory is watched so the file may be replaced, not just
	// rewritten.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &configWatcher{
		watcher:  watcher,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
	}, nil
}

// Start begins watching in a goroutine. Calling Start on a running
// watcher does nothing.
func (cw *configWatcher) Start() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	cw.cancel = cancel
	cw.done = make(chan struct{})
	go cw.loop(ctx, cw.done)
}

// Stop ends watching, waits for the loop to exit and releases the
// underlying watcher. A watcher cannot be restarted after Stop.
func (cw *configWatcher) Stop() {
	cw.mu.Lock()
	cancel, done := cw.cancel, cw.done
	cw.cancel = nil
	cw.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// matches reports whether ev may have changed the watched file.
func (cw *configWatcher) matches(ev fsnotify.Event) bool {
	if ev.Op&reloadOps == 0 {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == cw.path
}

func (cw *configWatcher) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	defer cw.watcher.Close()

	// Armed by the first matching event.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if cw.matches(ev) {
				timer.Reset(cw.debounce)
			}

		case <-timer.C:
			if cw.onChange != nil {
				cw.onChange()
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			if cw.onError != nil {
				cw.onError(err)
			}
		}
	}
}
