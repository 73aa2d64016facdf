// Package watcher reformats C# files as they change on disk.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	fmterrors "csfmt/internal/errors"
	"csfmt/internal/slogutil"
)

// Config contains watcher configuration
type Config struct {
	// Debounce is the quiet period before a batch of changes is handled.
	Debounce time.Duration
	// Include lists the file extensions that trigger the handler.
	Include []string
	// Exclude lists directory names that are never watched.
	Exclude []string
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{
		Debounce: 300 * time.Millisecond,
		Include:  []string{".cs"},
		Exclude:  []string{"bin", "obj", ".git", ".vs", "node_modules"},
	}
}

// ChangeHandler is called with the sorted paths changed during one quiet
// period. Calls are serialized.
type ChangeHandler func(ctx context.Context, paths []string)

// Watcher watches directory trees for changes to matching files.
type Watcher struct {
	config  Config
	logger  *slog.Logger
	handler ChangeHandler
	fsw     *fsnotify.Watcher

	mu      sync.RWMutex
	watched map[string]bool
}

// New creates a new file system watcher. A nil logger discards output.
func New(config Config, logger *slog.Logger, handler ChangeHandler) (*Watcher, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultConfig().Debounce
	}
	if len(config.Include) == 0 {
		config.Include = DefaultConfig().Include
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmterrors.New(fmterrors.IOFailure, "cannot create file watcher", err)
	}
	return &Watcher{
		config:  config,
		logger:  logger,
		handler: handler,
		fsw:     fsw,
		watched: make(map[string]bool),
	}, nil
}

// Add watches root and every directory below it that is not excluded.
// fsnotify is not recursive, so each directory is registered on its own.
func (w *Watcher) Add(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.IsExcluded(d.Name()) {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
	if err != nil {
		return fmterrors.New(fmterrors.IOFailure, "cannot watch directory", err).WithPath(root)
	}
	return nil
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = true
	w.logger.Debug("watching directory", "path", dir)
	return nil
}

// Run delivers batches of changed files to the handler until ctx is done.
// The underlying watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	batches := make(chan []string)
	batcher := NewBatchDebouncer(w.config.Debounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})
	defer batcher.Cancel()

	w.logger.Info("watching for changes", "dirs", len(w.WatchedDirs()), "debounce", w.config.Debounce)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, batcher)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		case paths := <-batches:
			w.logger.Debug("changes detected", "count", len(paths))
			if w.handler != nil {
				w.handler(ctx, paths)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, batcher *BatchDebouncer) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !w.IsExcluded(filepath.Base(ev.Name)) {
				if err := w.Add(ev.Name); err != nil {
					w.logger.Warn("cannot watch new directory", "path", ev.Name, "error", err)
				}
			}
			return
		}
	}
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.forget(ev.Name)
		return
	}
	if (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) && w.IsRelevant(ev.Name) {
		batcher.Add(ev.Name)
	}
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.watched, path)
}

// IsRelevant reports whether a change to path should trigger the handler.
func (w *Watcher) IsRelevant(path string) bool {
	ext := filepath.Ext(path)
	for _, inc := range w.config.Include {
		if strings.EqualFold(ext, inc) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether a directory name is skipped.
func (w *Watcher) IsExcluded(name string) bool {
	for _, ex := range w.config.Exclude {
		if strings.EqualFold(name, ex) {
			return true
		}
	}
	return false
}

// WatchedDirs returns the sorted list of watched directories.
func (w *Watcher) WatchedDirs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	dirs := make([]string, 0, len(w.watched))
	for dir := range w.watched {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
