// Package watch runs an action whenever a local file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/primebench/pkg/log"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Action is invoked after the watched file has been written.
type Action func(ctx context.Context) error

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger used for action failures.
func WithLogger(l log.Logger) Option {
	return func(w *FileWatcher) {
		w.logger = l
	}
}

// FileWatcher calls an Action each time a file is created or written.
// Bursts of events within the debounce window trigger a single call.
type FileWatcher struct {
	path   string
	action Action
	delay  time.Duration
	logger log.Logger
	ready  chan struct{}

	mu       sync.Mutex
	debounce *time.Timer

	// running serializes actions; inflight counts scheduled and running ones.
	running  sync.Mutex
	inflight sync.WaitGroup
}

// NewFileWatcher watches path and runs action on change.
func NewFileWatcher(path string, action Action, opts ...Option) *FileWatcher {
	w := &FileWatcher{
		path:   filepath.Clean(path),
		action: action,
		delay:  DefaultDebounce,
		logger: log.NewNoopLogger(),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once the watch is established.
func (w *FileWatcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is cancelled and any running action has returned.
// The parent directory is watched rather than the file itself so that
// editors which replace the file by rename are still seen.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	close(w.ready)
	w.logger.Info("watching file", log.String("path", w.path))

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *FileWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil && w.debounce.Stop() {
		w.inflight.Done()
	}
	w.inflight.Add(1)
	w.debounce = time.AfterFunc(w.delay, func() {
		defer w.inflight.Done()
		w.running.Lock()
		defer w.running.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err := w.action(ctx); err != nil {
			w.logger.Error("watch action failed", log.String("path", w.path), log.Err(err))
		}
	})
}

// stop cancels a pending action and waits for a running one to return.
func (w *FileWatcher) stop() {
	w.mu.Lock()
	if w.debounce != nil && w.debounce.Stop() {
		w.inflight.Done()
	}
	w.debounce = nil
	w.mu.Unlock()

	w.inflight.Wait()
}
