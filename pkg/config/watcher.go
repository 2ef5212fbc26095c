package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the budget catalog file for changes and triggers
// reloads. Writes are debounced so editors that save in several steps
// do not cause reload storms.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	stopCh  chan struct{}
}

// DefaultDebounceInterval is the time to wait after a file event before
// reloading the catalog.
const DefaultDebounceInterval = 100 * time.Millisecond

// NewWatcher creates a watcher for the catalog file at path. A
// non-positive debounce falls back to DefaultDebounceInterval.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default().With("component", "config.watcher")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Watch blocks, reloading the catalog after each debounced change and
// passing it to onReload. A catalog that fails to load or validate is
// logged and dropped; the previously loaded catalog stays in effect.
// Watch returns when Stop is called or the watcher fails.
//
// The parent directory is watched rather than the file itself: editors
// and atomic writers replace the file, which would otherwise detach the
// watch.
func (w *Watcher) Watch(onReload func(*Config) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("budget catalog watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	for {
		select {
		case <-w.stopCh:
			w.logger.Info("budget catalog watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				// Stop closes stopCh before the fsnotify watcher, so a
				// closed channel after Stop is a clean shutdown.
				select {
				case <-w.stopCh:
					return nil
				default:
					return fmt.Errorf("watcher events channel closed")
				}
			}
			if !w.shouldProcess(event) {
				continue
			}

			w.logger.Debug("catalog file event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			w.trigger(func() {
				cfg, err := Load(w.path)
				if err != nil {
					w.logger.Error("catalog reload failed, keeping previous catalog",
						"error", err,
					)
					return
				}
				if err := onReload(cfg); err != nil {
					w.logger.Error("catalog reload callback failed",
						"error", err,
					)
					return
				}
				w.logger.Info("budget catalog reloaded",
					"accountants", len(cfg.Accountants),
				)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				select {
				case <-w.stopCh:
					return nil
				default:
					return fmt.Errorf("watcher errors channel closed")
				}
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false

	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.stopCh)
	_ = w.watcher.Close()
}

// shouldProcess filters events down to writes of the watched file.
func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

// trigger schedules fn after the debounce interval, resetting the timer
// if another event arrives first.
func (w *Watcher) trigger(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, fn)
}
