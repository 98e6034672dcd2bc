// Package app implements the application layer for depcache.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/depcache/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/depcache/internal/adapters/guard"   //nolint:depguard // Wired in app layer
	"go.trai.ch/depcache/internal/adapters/imports" //nolint:depguard // Wired in app layer
	"go.trai.ch/depcache/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/depcache/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/depcache/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	metrics      ports.Metrics
	newWatcher   watcher.Factory
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	tracer ports.Tracer,
	metrics ports.Metrics,
	newWatcher watcher.Factory,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
		metrics:      metrics,
		newWatcher:   newWatcher,
	}
}

// Metrics returns the recorder every session reports to.
func (a *App) Metrics() ports.Metrics {
	return a.metrics
}

// OpenOptions configures how a configuration is located and opened.
type OpenOptions struct {
	// ConfigPath is the depcache.yaml to load. When empty it is discovered from Cwd.
	ConfigPath string
	// Cwd is the directory discovery starts from. Defaults to the process working directory.
	Cwd string
	// ReadOnly forces the result cache into read-only mode.
	ReadOnly bool
}

// LoadConfig locates and loads the configuration.
func (a *App) LoadConfig(opts OpenOptions) (*domain.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		cwd := opts.Cwd
		if cwd == "" {
			var err error
			if cwd, err = os.Getwd(); err != nil {
				return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
			}
		}
		found, err := a.configLoader.Discover(cwd)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.ReadOnly {
		cfg.Cache.ReadOnly = true
	}
	return cfg, nil
}

// Open loads the configuration and builds a session around it.
func (a *App) Open(opts OpenOptions) (*Session, error) {
	cfg, err := a.LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	resolver, err := imports.NewResolver(imports.Options{
		Root:              cfg.Root,
		Include:           cfg.Include,
		Exclude:           cfg.Exclude,
		Aliases:           cfg.Aliases,
		Relative:          cfg.Relative,
		Suffixes:          cfg.Suffixes,
		ComponentSuffixes: cfg.ComponentSuffixes,
	})
	if err != nil {
		return nil, err
	}

	store, err := cas.Open(cas.Options{
		Path:               cfg.Cache.Path,
		RootDir:            cfg.Root,
		LockFile:           cfg.Cache.LockFile,
		ConfigFile:         cfg.Cache.ConfigFile,
		ReadOnly:           cfg.Cache.ReadOnly,
		Expiry:             cfg.Cache.Expiry,
		FirstWriteDebounce: cfg.Cache.FirstWriteDebounce,
		WriteDebounce:      cfg.Cache.WriteDebounce,
		Codec:              cfg.Cache.Format,
	}, guard.New(cfg.Root), a.logger)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open result cache")
	}

	return NewSession(cfg, Services{
		Resolver: resolver,
		Engine:   fingerprint.New(resolver),
		Store:    store,
		Compiler: shell.NewCompiler(a.logger, cfg.Compiler),
		Logger:   a.logger,
		Tracer:   a.tracer,
		Metrics:  a.metrics,
	}), nil
}

// Clean removes the result cache file of the configuration.
func (a *App) Clean(opts OpenOptions) error {
	cfg, err := a.LoadConfig(opts)
	if err != nil {
		return err
	}

	if err := cas.Remove(cfg.Cache.Path); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed result cache %s", cfg.Cache.Path))
	return nil
}

// ignoreCanceled maps a shutdown by context to a clean exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// relPath renders fileID relative to root when possible.
func relPath(root, fileID string) string {
	rel, err := filepath.Rel(root, fileID)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fileID
	}
	return filepath.ToSlash(rel)
}
