// Package watch reruns a callback when files change on disk.
//
// Bursts of events (editors often write, chmod and rename in quick
// succession) are collapsed with a debouncer, so the callback runs once
// per save. The engagement engine itself never sees timers.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is the quiet period after the last event before the
// callback runs.
const DefaultDelay = 300 * time.Millisecond

// Watcher calls OnChange after any of its files is written, created,
// removed or renamed.
type Watcher struct {
	mu        sync.Mutex
	fs        *fsnotify.Watcher
	files     map[string]bool
	dirs      []string
	onChange  func()
	debounced func(func())
	logger    *zap.Logger
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
}

// New prepares a watcher for paths. Parent directories are watched rather
// than the files themselves so that rename-on-save is seen. A delay of
// zero means DefaultDelay.
func New(paths []string, delay time.Duration, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no paths given")
	}
	if onChange == nil {
		return nil, fmt.Errorf("watch: nil callback")
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	files := make(map[string]bool, len(paths))
	seenDir := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch: resolving %s: %w", p, err)
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !seenDir[dir] {
			seenDir[dir] = true
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	return &Watcher{
		fs:        fsw,
		files:     files,
		dirs:      dirs,
		onChange:  onChange,
		debounced: debounce.New(delay),
		logger:    logger,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start registers the directories and begins delivering events in a
// goroutine. It returns once watching has begun.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	for _, dir := range w.dirs {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch: adding %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}
	w.running = true

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and drops any pending callback. It is safe to
// call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.fs.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.debounced(func() {})

	if err := w.fs.Close(); err != nil {
		w.logger.Warn("closing file watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !w.files[filepath.Clean(event.Name)] {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.debounced(w.onChange)
}
