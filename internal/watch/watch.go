// Package watch reloads a markdown file into the editor when it changes on
// disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-mdstudio/internal/debounce"
)

// DefaultSettle is how long the file must stay quiet before a reload.
const DefaultSettle = 150 * time.Millisecond

// ErrWatcherClosed is returned by Start on a closed Watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// ReloadFunc is called with the watched path after it settles.
type ReloadFunc func(ctx context.Context, path string) error

// Watcher follows a single file. The parent directory is watched so that
// editors that save by renaming a temp file over the target are seen too.
type Watcher struct {
	path   string
	reload ReloadFunc
	log    *slog.Logger
	settle *debounce.Debouncer

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	closed  bool
	reloads int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// WithSettle sets the quiet period before a reload.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = debounce.New(d)
	}
}

// New creates a Watcher for path. Nothing is watched until Start.
func New(path string, reload ReloadFunc, opts ...Option) (*Watcher, error) {
	if reload == nil {
		return nil, errors.New("reload function is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w := &Watcher{
		path:   abs,
		reload: reload,
		log:    slog.New(slog.DiscardHandler),
		settle: debounce.New(DefaultSettle),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. Events are handled until ctx is done or Close is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.fsw != nil {
		return errors.New("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			w.log.Warn("closing watcher after add error", "error", closeErr)
		}
		return fmt.Errorf("watching %s: %w", w.path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.loop(ctx, fsw, w.done)
	w.log.Info("watching file", "path", w.path)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("file changed", "path", event.Name, "op", event.Op.String())
			w.settle.Trigger(func() { w.fire(ctx) })
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether event may have changed the watched file contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	if err := w.reload(ctx, w.path); err != nil {
		w.log.Warn("reloading file", "path", w.path, "error", err)
		return
	}
	w.log.Info("file reloaded", "path", w.path)
}

// Reloads returns how many reloads have been attempted.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops watching and drops a pending reload. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	fsw, cancel, done := w.fsw, w.cancel, w.done
	w.mu.Unlock()

	w.settle.Stop()
	if fsw == nil {
		return nil
	}

	cancel()
	err := fsw.Close()
	<-done
	return err
}
