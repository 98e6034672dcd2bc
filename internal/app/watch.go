package app

import (
	"context"
	"fmt"

	"go.trai.ch/depcache/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch builds the entries once, then rebuilds them whenever a file below the
// root changes, until ctx is done.
func (a *App) Watch(ctx context.Context, opts OpenOptions, entries []string, build BuildOptions) (err error) {
	if len(entries) == 0 {
		return domain.ErrNoEntriesSpecified
	}

	session, err := a.Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	cfg := session.Config()
	w, err := a.newWatcher(cfg.Watch.Ignore)
	if err != nil {
		return err
	}

	tracker := watcher.NewContentTracker()
	seed(session, tracker, entries)
	a.rebuild(ctx, session, entries, build)

	g, ctx := errgroup.WithContext(ctx)
	if err := w.Start(ctx, cfg.Root); err != nil {
		_ = w.Stop()
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %s (%d modules tracked)", cfg.Root, tracker.Len()))

	batches := make(chan []string)
	debouncer := watcher.NewDebouncer(cfg.Watch.Debounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	}, watcher.WithMaxWait(cfg.Watch.MaxWait))

	// Event pump.
	g.Go(func() error {
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	// Rebuild loop.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-batches:
				if a.applyChanges(session, tracker, paths) {
					a.rebuild(ctx, session, entries, build)
				}
			}
		}
	})

	// Shutdown.
	g.Go(func() error {
		<-ctx.Done()
		debouncer.Stop()
		if err := w.Stop(); err != nil {
			return zerr.Wrap(err, "failed to stop watcher")
		}
		return nil
	})

	return ignoreCanceled(g.Wait())
}

// seed records the content of every module reachable from the entries, so saving
// a file without edits does not invalidate it. Modules that cannot be walked stay
// unseeded and count as changed on their first event.
func seed(session *Session, tracker *watcher.ContentTracker, entries []string) {
	graph, err := session.Graph(entries)
	if err != nil {
		return
	}
	for fileID := range graph.Modules() {
		if code, err := graph.Code(fileID); err == nil {
			tracker.Seed(fileID, []byte(code))
		}
	}
}

// applyChanges invalidates every path whose content changed and reports whether any did.
func (a *App) applyChanges(session *Session, tracker *watcher.ContentTracker, paths []string) bool {
	changed := false
	for _, path := range paths {
		if !tracker.Changed(path) {
			continue
		}
		changed = true
		if err := session.HandleChange(path); err != nil {
			a.logger.Error(err)
		}
	}
	return changed
}

// rebuild builds the entries and reports the outcome through the logger.
func (a *App) rebuild(ctx context.Context, session *Session, entries []string, build BuildOptions) {
	results, err := session.Build(ctx, entries, build)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.logger.Error(err)
	}
	a.logger.Info("build: " + Summary(results))
}
