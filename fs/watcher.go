package fs

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Watcher calls a function whenever a single file changes on disk.
// It watches the parent directory so editors that replace files by rename
// are still observed.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatcherLogger sets the logger for watch errors.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher creates a Watcher for path. Events are not delivered until Run is called.
func NewWatcher(path string, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers change notifications until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return w.Close()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("task file watch error", "path", w.path, "err", err)

		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
