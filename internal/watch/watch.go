// Package watch reports changes to a single file, coalescing bursts of
// filesystem events into one notification.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Options configures a [Watcher].
type Options struct {
	// Debounce is how long the file must stay quiet before a change is
	// reported. Defaults to 100ms.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches one file. Editors often replace files instead of writing
// them in place, so the parent directory is watched and events are filtered
// by name.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher

	closeOnce sync.Once
}

// New starts watching path.
func New(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		logger:   logger.With("path", abs),
		fs:       fs,
	}, nil
}

// Run calls onChange after each quiet period that follows a change to the
// file, until ctx is done or the watcher is closed. onChange runs on the
// Run goroutine, so calls never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch event overflow, reloading")
				timer.Reset(w.debounce)
				continue
			}
			w.logger.Error("watch error", "err", err)
		case <-timer.C:
			onChange()
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fs.Close()
	})
	return err
}
