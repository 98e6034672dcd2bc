package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depcache/cmd/depcache/commands"
	"go.trai.ch/depcache/internal/adapters/metrics"
	"go.trai.ch/depcache/internal/adapters/telemetry"
	"go.trai.ch/depcache/internal/app"
	"go.trai.ch/depcache/internal/build"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/depcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type mockApp struct {
	session *app.Session
	openErr error
	metrics ports.Metrics
	opened  []app.OpenOptions
	watchFn func(ctx context.Context, opts app.OpenOptions, entries []string, build app.BuildOptions) error
	cleanFn func(opts app.OpenOptions) error
}

func (m *mockApp) Open(opts app.OpenOptions) (*app.Session, error) {
	m.opened = append(m.opened, opts)
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.session, nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.OpenOptions, entries []string, build app.BuildOptions) error {
	if m.watchFn != nil {
		return m.watchFn(ctx, opts, entries, build)
	}
	return nil
}

func (m *mockApp) Clean(opts app.OpenOptions) error {
	if m.cleanFn != nil {
		return m.cleanFn(opts)
	}
	return nil
}

func (m *mockApp) Metrics() ports.Metrics {
	return m.metrics
}

type fixture struct {
	root     string
	app      *mockApp
	engine   *mocks.MockFingerprinter
	store    *mocks.MockResultStore
	compiler *mocks.MockCompiler
	resolver *mocks.MockEdgeResolver
	logger   *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	root := t.TempDir()
	for name, content := range map[string]string{
		"src/a.ts": "import { b } from '@src/b'\n",
		"src/b.ts": "export const b = 1\n",
	} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	f := &fixture{
		root:     root,
		engine:   mocks.NewMockFingerprinter(ctrl),
		store:    mocks.NewMockResultStore(ctrl),
		compiler: mocks.NewMockCompiler(ctrl),
		resolver: mocks.NewMockEdgeResolver(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	recorder := metrics.New()
	session := app.NewSession(&domain.Config{Root: root}, app.Services{
		Resolver: f.resolver,
		Engine:   f.engine,
		Store:    f.store,
		Compiler: f.compiler,
		Logger:   f.logger,
		Tracer:   telemetry.NewNoOpTracer(),
		Metrics:  recorder,
	})
	f.app = &mockApp{session: session, metrics: recorder}
	return f
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.root, filepath.FromSlash(name))
}

func (f *fixture) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(f.app, f.logger)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Hash(t *testing.T) {
	fingerprint := func(f *fixture) domain.Fingerprint {
		return domain.Fingerprint{
			FileID:       f.path("src/a.ts"),
			Hash:         "0123abcd",
			Dependencies: []domain.Dependency{{FileID: f.path("src/b.ts")}},
			Stats:        domain.CallStats{Calls: 2, CacheInserts: 2, Duration: time.Millisecond},
		}
	}

	t.Run("prints hash and module", func(t *testing.T) {
		f := newFixture(t)
		f.engine.EXPECT().GetHash(f.path("src/a.ts"), "import { b } from '@src/b'\n").Return(fingerprint(f), nil)
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "hash", f.path("src/a.ts"))
		require.NoError(t, err)
		assert.Equal(t, "0123abcd  src/a.ts\n", out)
	})

	t.Run("verbose lists dependencies", func(t *testing.T) {
		f := newFixture(t)
		f.engine.EXPECT().GetHash(f.path("src/a.ts"), gomock.Any()).Return(fingerprint(f), nil)
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "hash", "-v", f.path("src/a.ts"))
		require.NoError(t, err)
		assert.Contains(t, out, "  src/b.ts\n")
		assert.Contains(t, out, "2 modules, 0 cached, 2 inserted in 1ms")
	})

	t.Run("json", func(t *testing.T) {
		f := newFixture(t)
		f.engine.EXPECT().GetHash(f.path("src/a.ts"), gomock.Any()).Return(fingerprint(f), nil)
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "hash", "--json", f.path("src/a.ts"))
		require.NoError(t, err)

		var got []domain.Fingerprint
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "0123abcd", got[0].Hash)
		assert.Equal(t, f.path("src/b.ts"), got[0].Dependencies[0].FileID)
	})

	t.Run("missing module", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().Close().Return(nil)

		_, err := f.execute(t, "hash", f.path("src/missing.ts"))
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrModuleRead.Error())
	})

	t.Run("open failure", func(t *testing.T) {
		f := newFixture(t)
		f.app.openErr = errors.New("no config")

		_, err := f.execute(t, "-c", "/p/depcache.yaml", "hash", "a.ts")
		require.EqualError(t, err, "no config")
		assert.Equal(t, []app.OpenOptions{{ConfigPath: "/p/depcache.yaml"}}, f.app.opened)
	})

	t.Run("requires a module", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.execute(t, "hash")
		require.Error(t, err)
		assert.Empty(t, f.app.opened)
	})
}

func TestCommands_Build(t *testing.T) {
	t.Run("reports outcomes", func(t *testing.T) {
		f := newFixture(t)
		a, b := f.path("src/a.ts"), f.path("src/b.ts")
		metricsFile := filepath.Join(t.TempDir(), "depcache.prom")

		f.engine.EXPECT().GetHash(a, gomock.Any()).Return(domain.Fingerprint{FileID: a, Hash: "ha"}, nil)
		f.store.EXPECT().Get("ha").Return(domain.ResultEntry{FileID: a}, true)
		f.engine.EXPECT().GetHash(b, gomock.Any()).Return(domain.Fingerprint{FileID: b, Hash: "hb"}, nil)
		f.store.EXPECT().Get("hb").Return(domain.ResultEntry{}, false)
		f.compiler.EXPECT().Compile(gomock.Any(), b, gomock.Any()).Return(domain.Artifact{Code: "b"}, nil)
		f.store.EXPECT().Put("hb", b, domain.Artifact{Code: "b"})
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "build", "--read-only", "--metrics-file", metricsFile, a, b)
		require.NoError(t, err)

		assert.Contains(t, out, "cached   src/a.ts")
		assert.Contains(t, out, "compiled src/b.ts")
		assert.Contains(t, out, "1 cached, 1 compiled")
		assert.True(t, f.app.opened[0].ReadOnly)

		prom, err := os.ReadFile(metricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(prom), `depcache_transforms_total{outcome="compiled"} 1`)
	})

	t.Run("failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "build", f.path("src/missing.ts"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBuildFailed)
		assert.Contains(t, out, "failed   src/missing.ts")
		assert.Contains(t, out, "1 failed")
	})
}

func TestCommands_Watch(t *testing.T) {
	f := newFixture(t)
	var gotOpts app.OpenOptions
	var gotEntries []string
	var gotBuild app.BuildOptions
	f.app.watchFn = func(_ context.Context, opts app.OpenOptions, entries []string, build app.BuildOptions) error {
		gotOpts, gotEntries, gotBuild = opts, entries, build
		return nil
	}

	_, err := f.execute(t, "watch", "--config", "/p/depcache.yaml", "--out", "dist", "src/a.ts", "src/b.ts")
	require.NoError(t, err)
	assert.Equal(t, "/p/depcache.yaml", gotOpts.ConfigPath)
	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, gotEntries)
	assert.Equal(t, app.BuildOptions{OutDir: "dist"}, gotBuild)
}

func TestCommands_Cache(t *testing.T) {
	t.Run("stats", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().Stats().Return(domain.CacheStats{
			Path:    "/p/.depcache/cache.json",
			Entries: 2,
			Size:    2048,
			Oldest:  time.Now().Add(-time.Hour),
			Newest:  time.Now(),
		})
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "cache", "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "Result cache")
		assert.Contains(t, out, "/p/.depcache/cache.json")
		assert.Contains(t, out, "entries  2")
		assert.Contains(t, out, "2.0 kB")
		assert.Contains(t, out, "1 hour ago")
		assert.True(t, f.app.opened[0].ReadOnly)
	})

	t.Run("check resets", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().CheckConfigFiles().Return(true, nil)
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "cache", "check")
		require.NoError(t, err)
		assert.Contains(t, out, "result cache reset")
	})

	t.Run("check up to date", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().CheckConfigFiles().Return(false, nil)
		f.store.EXPECT().Close().Return(nil)

		out, err := f.execute(t, "cache", "check")
		require.NoError(t, err)
		assert.Contains(t, out, "result cache is up to date")
	})

	t.Run("check failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().CheckConfigFiles().Return(false, domain.ErrGuardUnreadable)
		f.store.EXPECT().Close().Return(nil)

		_, err := f.execute(t, "cache", "check")
		assert.ErrorIs(t, err, domain.ErrGuardUnreadable)
	})

	t.Run("clean", func(t *testing.T) {
		f := newFixture(t)
		var got app.OpenOptions
		f.app.cleanFn = func(opts app.OpenOptions) error {
			got = opts
			return nil
		}

		_, err := f.execute(t, "-c", "/p/depcache.yaml", "cache", "clean")
		require.NoError(t, err)
		assert.Equal(t, "/p/depcache.yaml", got.ConfigPath)
	})
}

func TestCommands_Graph(t *testing.T) {
	f := newFixture(t)
	a, b := f.path("src/a.ts"), f.path("src/b.ts")
	toB := domain.Edge{FileID: b, Specifier: "@src/b"}
	toA := domain.Edge{FileID: a, Specifier: "@src/a"}

	f.resolver.EXPECT().ImportPath(a).Return("@src/a.ts", true)
	f.resolver.EXPECT().Edges(a, gomock.Any(), []string{"@src/a.ts"}).Return([]domain.Edge{toB})
	f.resolver.EXPECT().ReadModule(toB, a).Return(domain.Module{FileID: b, Code: "b"}, nil)
	f.resolver.EXPECT().Edges(b, "b", []string{"@src/a.ts", "@src/b"}).Return([]domain.Edge{toA})
	f.store.EXPECT().Close().Return(nil)

	out, err := f.execute(t, "graph", a)
	require.NoError(t, err)
	assert.Contains(t, out, "src/a.ts\n  -> src/b.ts (@src/b)\n")
	assert.Contains(t, out, "src/b.ts\n  -> src/a.ts (@src/a)\n")
	assert.Contains(t, out, "import cycle: src/a.ts -> src/b.ts -> src/a.ts")
}

func TestCommands_Version(t *testing.T) {
	f := newFixture(t)

	out, err := f.execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "depcache version "+build.Version)
	assert.Contains(t, out, "commit: "+build.Commit)
}

func TestCommands_LogJSON(t *testing.T) {
	f := newFixture(t)
	switcher := &switchingLogger{Logger: f.logger}
	cli := commands.New(f.app, switcher)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"--log-json", "version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, switcher.json)
}

type switchingLogger struct {
	ports.Logger
	json       bool
	timestamps bool
}

func (l *switchingLogger) SetJSON(enable bool) {
	l.json = enable
}

func (l *switchingLogger) SetTimestamps(enable bool) {
	l.timestamps = enable
}

func TestCommands_WatchTimestamps(t *testing.T) {
	f := newFixture(t)
	switcher := &switchingLogger{Logger: f.logger}
	cli := commands.New(f.app, switcher)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"watch", "src/a.ts"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, switcher.timestamps)
	assert.False(t, switcher.json)
}
