package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depcache/internal/adapters/config"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load_Full(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	dir := t.TempDir()
	path := createFile(t, dir, domain.ConfigFileName, `
root: app
include: ["^@src/"]
exclude: ["\\.stories$"]
aliases:
  - find: "@src"
    replacement: "/src"
  - pattern: "^~/(.*)$"
    replacement: "/src/$1"
relative: false
suffixes: [".ts", ".mts"]
componentSuffixes: [".tsx"]
cache:
  path: build/cache.bin
  lockFile: ../yarn.lock
  configFile: vite.config.mts
  readOnly: true
  expiry: 24h
  writeDebounce: 1m
  firstWriteDebounce: 2s
  format: msgpack
compiler:
  cmd: ["node", "compile.js"]
  environment:
    NODE_ENV: production
  workingDir: tools
watch:
  ignore: ["dist/**"]
  debounce: 20ms
  maxWait: 500ms
`)

	cfg, err := loader.Load(path)
	require.NoError(t, err)

	root := filepath.Join(dir, "app")
	assert.Equal(t, &domain.Config{
		Path:    path,
		Root:    root,
		Include: []string{"^@src/"},
		Exclude: []string{`\.stories$`},
		Aliases: []domain.Alias{
			{Find: "@src", Replacement: "/src"},
			{Pattern: "^~/(.*)$", Replacement: "/src/$1"},
		},
		Suffixes:          []string{".ts", ".mts"},
		ComponentSuffixes: []string{".tsx"},
		Cache: domain.CacheConfig{
			Path:               filepath.Join(root, "build", "cache.bin"),
			LockFile:           filepath.Join(dir, "yarn.lock"),
			ConfigFile:         filepath.Join(root, "vite.config.mts"),
			ReadOnly:           true,
			Expiry:             24 * time.Hour,
			WriteDebounce:      time.Minute,
			FirstWriteDebounce: 2 * time.Second,
			Format:             domain.CodecMsgpack,
		},
		Compiler: domain.CompilerConfig{
			Command:     []string{"node", "compile.js"},
			Environment: map[string]string{"NODE_ENV": "production"},
			WorkingDir:  filepath.Join(root, "tools"),
		},
		Watch: domain.WatchConfig{
			Ignore:   []string{"dist/**"},
			Debounce: 20 * time.Millisecond,
			MaxWait:  500 * time.Millisecond,
		},
	}, cfg)
}

func TestLoader_Load_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("no include patterns configured, every import is followed")
	loader := config.NewLoader(mockLogger)

	dir := t.TempDir()
	path := createFile(t, dir, domain.ConfigFileName, "{}\n")

	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, domain.DefaultSuffixes(), cfg.Suffixes)
	assert.Equal(t, domain.DefaultComponentSuffixes(), cfg.ComponentSuffixes)
	assert.Equal(t, domain.CacheConfig{
		Path:               filepath.Join(dir, domain.DefaultCachePath()),
		LockFile:           filepath.Join(dir, config.DefaultLockFile),
		ConfigFile:         filepath.Join(dir, config.DefaultConfigFile),
		Expiry:             domain.DefaultExpiry,
		WriteDebounce:      domain.DefaultWriteDebounce,
		FirstWriteDebounce: domain.DefaultFirstWriteDebounce,
		Format:             domain.CodecJSON,
	}, cfg.Cache)
	assert.Equal(t, dir, cfg.Compiler.WorkingDir)
	assert.Equal(t, domain.DefaultWatchDebounce, cfg.Watch.Debounce)
	assert.Equal(t, domain.DefaultWatchMaxWait, cfg.Watch.MaxWait)
	assert.True(t, cfg.IsGuardFile(filepath.Join(dir, config.DefaultLockFile)))
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "malformed yaml",
			content: "include: [",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "invalid include",
			content: `include: ["("]`,
			wantErr: domain.ErrInvalidPattern,
		},
		{
			name:    "invalid exclude",
			content: "include: [\"^@src/\"]\nexclude: [\"[\"]",
			wantErr: domain.ErrInvalidPattern,
		},
		{
			name:    "alias with both find and pattern",
			content: "include: [\"^@src/\"]\naliases:\n  - find: \"@src\"\n    pattern: \"^@src\"\n    replacement: /src",
			wantErr: domain.ErrInvalidAlias,
		},
		{
			name:    "alias with neither find nor pattern",
			content: "include: [\"^@src/\"]\naliases:\n  - replacement: /src",
			wantErr: domain.ErrInvalidAlias,
		},
		{
			name:    "invalid alias pattern",
			content: "include: [\"^@src/\"]\naliases:\n  - pattern: \"(\"\n    replacement: /src",
			wantErr: domain.ErrInvalidPattern,
		},
		{
			name:    "unknown format",
			content: "include: [\"^@src/\"]\ncache:\n  format: xml",
			wantErr: domain.ErrUnknownCodec,
		},
		{
			name:    "bad duration",
			content: "include: [\"^@src/\"]\ncache:\n  expiry: forever",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "bad watch debounce",
			content: "include: [\"^@src/\"]\nwatch:\n  debounce: soon",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "bad watch max wait",
			content: "include: [\"^@src/\"]\nwatch:\n  maxWait: later",
			wantErr: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := config.NewLoader(mocks.NewMockLogger(ctrl))

			path := createFile(t, t.TempDir(), domain.ConfigFileName, tt.content)
			_, err := loader.Load(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoader_Load_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	_, err := loader.Load(filepath.Join(t.TempDir(), domain.ConfigFileName))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoader_Discover(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	root := t.TempDir()
	path := createFile(t, root, domain.ConfigFileName, "{}\n")
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	t.Run("from the config directory", func(t *testing.T) {
		got, err := loader.Discover(root)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("from a nested directory", func(t *testing.T) {
		got, err := loader.Discover(nested)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("nearest config wins", func(t *testing.T) {
		inner := createFile(t, filepath.Join(root, "src"), domain.ConfigFileName, "{}\n")
		got, err := loader.Discover(nested)
		require.NoError(t, err)
		assert.Equal(t, inner, got)
	})
}

func TestLoader_DiscoverNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	dir := t.TempDir()
	// A directory with the config name is not a config file.
	require.NoError(t, os.Mkdir(filepath.Join(dir, domain.ConfigFileName), domain.DirPerm))

	_, err := loader.Discover(dir)
	if err == nil {
		t.Skip("a depcache.yaml exists above the temp directory")
	}
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}
