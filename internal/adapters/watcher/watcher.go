// Package watcher implements recursive file system watching for watch mode.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// eventBuffer is the capacity of the events channel.
const eventBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	ignore    []glob.Glob
	root      string
	events    chan ports.WatchEvent
	stopOnce  sync.Once
}

// NewWatcher creates a new file system watcher.
// Paths matching one of the ignore globs, relative to the watched root, produce no events.
func NewWatcher(logger ports.Logger, ignore []string) (*Watcher, error) {
	globs := make([]glob.Glob, 0, len(ignore))
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", pattern)
		}
		globs = append(globs, g)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		ignore:    globs,
		events:    make(chan ports.WatchEvent, eventBuffer),
	}, nil
}

// Start begins watching root recursively. Events stop when ctx is done.
func (w *Watcher) Start(ctx context.Context, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", root)
	}
	w.root = abs

	if err := w.watchRecursively(abs); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", abs)
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator over file system events.
// The iterator ends when the context given to Start is done or the watcher is stopped.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// Ignored reports whether path matches one of the ignore globs.
func (w *Watcher) Ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, g := range w.ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) watchRecursively(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (shouldSkipDirectory(d.Name()) || w.Ignored(path)) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

// shouldSkipDirectory reports directories that never hold watched sources.
func shouldSkipDirectory(name string) bool {
	switch name {
	case ".git", ".jj", "node_modules", domain.DepcacheDirName:
		return true
	default:
		return false
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "watcher error"))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if w.Ignored(event.Name) {
		return
	}

	// New directories are watched as they appear.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkipDirectory(info.Name()) {
			if err := w.watchRecursively(event.Name); err != nil {
				w.logger.Error(zerr.With(zerr.Wrap(err, "failed to watch new directory"), "path", event.Name))
			}
		}
	}

	op, ok := convertOp(event.Op)
	if !ok {
		return
	}

	select {
	case w.events <- ports.WatchEvent{Path: event.Name, Operation: op}:
	case <-ctx.Done():
	}
}

// convertOp maps an fsnotify operation to a WatchOp. Chmod-only events are dropped.
func convertOp(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
