// Package watch re-runs a callback when any of a fixed set of files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers a run.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches the parent directories of its files, so editors that
// replace a file on save keep being tracked.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(interval time.Duration) Option {
	return func(w *Watcher) {
		if interval > 0 {
			w.debounce = interval
		}
	}
}

// WithLogger injects the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New returns a Watcher for files.
func New(files []string, options ...Option) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	for _, file := range files {
		if file == "" {
			continue
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", file, err)
		}
		w.files[abs] = true
	}
	if len(w.files) == 0 {
		return nil, errors.New("watch: no files to watch")
	}
	return w, nil
}

// Run blocks until ctx is cancelled, calling onChange after each burst of
// changes. Calls happen on the Run goroutine, one at a time. Errors returned by
// onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(path string) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer func() {
		_ = fsw.Close()
	}()

	dirs := make(map[string]bool)
	for file := range w.files {
		dir := filepath.Dir(file)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add %q: %w", dir, err)
		}
		dirs[dir] = true
	}
	w.logger.Info("watching files",
		slog.Int("files", len(w.files)),
		slog.Int64("debounce_ms", w.debounce.Milliseconds()),
	)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := ""

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watch: events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			pending = event.Name
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending == "" {
				continue
			}
			path := pending
			pending = ""
			if err := onChange(path); err != nil {
				w.logger.Error("change handler failed", slog.String("path", path), slog.Any("error", err))
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watch: errors channel closed")
			}
			w.logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
