// Package watch reconverts BPMN files when they change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
)

// DefaultDebounce is how long a file must be quiet before OnChange fires.
// Editors often write a file in several steps.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors files and directories and calls OnChange for every
// changed file accepted by Filter.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]*fileState // explicitly watched files
	dirs     map[string]bool       // directories whose files are all watched
	seen     map[string]*fileState // last known state of files under dirs
	debounce time.Duration

	// Filter selects files in watched directories. Nil accepts everything.
	Filter func(path string) bool

	OnChange func(ctx context.Context, path string) error
	OnError  func(path string, err error)
}

type fileState struct {
	modTime    time.Time
	size       int64
	processing bool
}

// New creates a watcher. A debounce of zero uses DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fsw,
		files:    make(map[string]*fileState),
		dirs:     make(map[string]bool),
		seen:     make(map[string]*fileState),
		debounce: debounce,
	}, nil
}

// Add starts watching path. A file is watched alone; for a directory every
// file directly inside it that passes Filter is watched, including files
// created later.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", path)
	}

	dir := abs
	w.mu.Lock()
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = &fileState{modTime: info.ModTime(), size: info.Size()}
		dir = filepath.Dir(abs)
	}
	w.mu.Unlock()

	// Watching the parent directory survives editors that replace files
	// by renaming a temporary copy over them.
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", dir)
	}
	return nil
}

// Run processes events until ctx is canceled. It always returns a non-nil
// error: ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	timers := make(map[string]*time.Timer)
	var timerMu sync.Mutex
	defer func() {
		timerMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timerMu.Unlock()
		w.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New(errors.ErrCodeInternal, "watcher closed")
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			state := w.stateFor(abs)
			if state == nil {
				continue
			}

			timerMu.Lock()
			if t, ok := timers[abs]; ok {
				t.Stop()
			}
			timers[abs] = time.AfterFunc(w.debounce, func() {
				if ctx.Err() == nil {
					w.handleChange(ctx, abs, state)
				}
			})
			timerMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New(errors.ErrCodeInternal, "watcher closed")
			}
			w.reportError("", err)
		}
	}
}

// stateFor returns the tracked state of path, or nil if path is not watched.
func (w *Watcher) stateFor(path string) *fileState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.files[path]; ok {
		return s
	}
	if !w.dirs[filepath.Dir(path)] {
		return nil
	}
	if w.Filter != nil && !w.Filter(path) {
		return nil
	}
	s, ok := w.seen[path]
	if !ok {
		s = &fileState{}
		w.seen[path] = s
	}
	return s
}

func (w *Watcher) handleChange(ctx context.Context, path string, state *fileState) {
	w.mu.Lock()
	if state.processing {
		w.mu.Unlock()
		return
	}
	state.processing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		state.processing = false
		w.mu.Unlock()
	}()

	info, err := os.Stat(path)
	if err != nil {
		w.reportError(path, err)
		return
	}
	if info.IsDir() {
		return
	}

	w.mu.Lock()
	unchanged := info.ModTime().Equal(state.modTime) && info.Size() == state.size
	state.modTime = info.ModTime()
	state.size = info.Size()
	w.mu.Unlock()
	if unchanged {
		return
	}

	if w.OnChange != nil {
		if err := w.OnChange(ctx, path); err != nil {
			w.reportError(path, err)
		}
	}
}

func (w *Watcher) reportError(path string, err error) {
	if w.OnError != nil {
		w.OnError(path, err)
	}
}

// Close stops the watcher without waiting for Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
