package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depcache/internal/adapters/watcher"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/depcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestConvertOp(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		want ports.WatchOp
		ok   bool
	}{
		{name: "write", op: fsnotify.Write, want: ports.OpWrite, ok: true},
		{name: "create", op: fsnotify.Create, want: ports.OpCreate, ok: true},
		{name: "remove", op: fsnotify.Remove, want: ports.OpRemove, ok: true},
		{name: "rename", op: fsnotify.Rename, want: ports.OpRename, ok: true},
		{name: "write wins over create", op: fsnotify.Create | fsnotify.Write, want: ports.OpWrite, ok: true},
		{name: "chmod dropped", op: fsnotify.Chmod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := watcher.ConvertOp(tt.op)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewWatcher_InvalidGlob(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl), []string{"[a-"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidPattern.Error())
}

func TestWatcher_Ignored(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl), []string{"dist/**", "**/*.log"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	assert.True(t, w.Ignored(filepath.Join(root, "dist", "a.js")))
	assert.True(t, w.Ignored(filepath.Join(root, "src", "debug.log")))
	assert.False(t, w.Ignored(filepath.Join(root, "src", "a.ts")))
}

func TestWatcher_StartMissingRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatcherStartFailed.Error())
}

// nextEvent waits for the first event on path. No event may report an ignored or skipped path.
func nextEvent(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "events closed before %s was seen", path)
			assert.NotContains(t, ev.Path, "node_modules")
			assert.NotEqual(t, ".log", filepath.Ext(ev.Path))
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			require.FailNow(t, "timed out waiting for event", path)
		}
	}
}

func pump(w *watcher.Watcher) <-chan ports.WatchEvent {
	ch := make(chan ports.WatchEvent, 100)
	go func() {
		defer close(ch)
		for ev := range w.Events() {
			ch <- ev
		}
	}()
	return ch
}

func TestWatcher_Events(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "react"), 0o750))

	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl), []string{"**/*.log"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	events := pump(w)

	// Ignored and skipped paths first, so a later event proves they produced nothing.
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "debug.log"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "react", "index.js"), []byte("x"), 0o600))

	a := filepath.Join(root, "src", "a.ts")
	require.NoError(t, os.WriteFile(a, []byte("export const a = 1\n"), 0o600))
	ev := nextEvent(t, events, a)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)

	t.Run("new directories are watched", func(t *testing.T) {
		dir := filepath.Join(root, "src", "nested")
		require.NoError(t, os.Mkdir(dir, 0o750))
		nextEvent(t, events, dir)

		nested := filepath.Join(dir, "b.ts")
		require.Eventually(t, func() bool {
			_ = os.WriteFile(nested, []byte("export const b = 1\n"), 0o600)
			select {
			case ev := <-events:
				return ev.Path == nested
			case <-time.After(100 * time.Millisecond):
				return false
			}
		}, 5*time.Second, 10*time.Millisecond)
	})

	cancel()
	for ev := range events {
		assert.NotEqual(t, filepath.Join(root, "src", "debug.log"), ev.Path)
		assert.NotContains(t, ev.Path, "node_modules")
	}
}
