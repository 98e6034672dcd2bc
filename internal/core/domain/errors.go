package domain

import "go.trai.ch/zerr"

var (
	// ErrModuleAlreadyExists is returned when a module is added twice to a module graph.
	ErrModuleAlreadyExists = zerr.New("module already exists")

	// ErrModuleNotFound is returned when a module is not present in a module graph.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrModuleRead is returned when a resolved module cannot be read, even after
	// re-resolving its specifier.
	ErrModuleRead = zerr.New("failed to read module")

	// ErrGuardUnreadable is returned when the lock file or build config file cannot be read.
	ErrGuardUnreadable = zerr.New("failed to read guard file")

	// ErrCacheCreateFailed is returned when the cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache directory")

	// ErrCacheReadFailed is returned when the cache file cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache file")

	// ErrCacheDecodeFailed is returned when the cache file cannot be decoded.
	ErrCacheDecodeFailed = zerr.New("failed to decode cache file")

	// ErrCacheEncodeFailed is returned when the cache cannot be encoded.
	ErrCacheEncodeFailed = zerr.New("failed to encode cache file")

	// ErrCacheWriteFailed is returned when the cache file cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache file")

	// ErrCacheRemoveFailed is returned when the cache file cannot be removed.
	ErrCacheRemoveFailed = zerr.New("failed to remove cache file")

	// ErrUnknownCodec is returned when the configured cache format is not supported.
	ErrUnknownCodec = zerr.New("unknown cache format, expected 'json' or 'msgpack'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file can be found.
	ErrConfigNotFound = zerr.New("could not find depcache.yaml")

	// ErrInvalidPattern is returned when an include, exclude or alias pattern is not a valid regular expression.
	ErrInvalidPattern = zerr.New("invalid pattern")

	// ErrInvalidAlias is returned when an alias defines neither or both of find and pattern.
	ErrInvalidAlias = zerr.New("alias must define exactly one of 'find' or 'pattern'")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrNoEntriesSpecified is returned when a command that needs entry modules gets none.
	ErrNoEntriesSpecified = zerr.New("no entry modules specified")

	// ErrNoCompiler is returned when a build is requested without a compiler command.
	ErrNoCompiler = zerr.New("no compiler command configured")

	// ErrCompileFailed is returned when the compiler command fails.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrBuildFailed is returned when one or more modules of a build fail.
	ErrBuildFailed = zerr.New("build failed")

	// ErrArtifactWriteFailed is returned when a compiled artifact cannot be written to the output directory.
	ErrArtifactWriteFailed = zerr.New("failed to write artifact")

	// ErrWatcherStartFailed is returned when the file system watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start watcher")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")
)
