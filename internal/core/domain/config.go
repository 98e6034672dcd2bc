package domain

import "time"

const (
	// DefaultExpiry is how long a cached result stays valid.
	DefaultExpiry = 7 * 24 * time.Hour

	// DefaultFirstWriteDebounce is the quiet period before the first cache write of a session.
	DefaultFirstWriteDebounce = 10 * time.Second

	// DefaultWriteDebounce is the quiet period before every later cache write.
	DefaultWriteDebounce = 4 * time.Minute

	// DefaultWatchDebounce is the window used to coalesce file system events.
	DefaultWatchDebounce = 50 * time.Millisecond

	// DefaultWatchMaxWait bounds how long a stream of events may postpone a rebuild.
	DefaultWatchMaxWait = time.Second

	// CodecJSON stores the cache as indented JSON.
	CodecJSON = "json"

	// CodecMsgpack stores the cache as MessagePack.
	CodecMsgpack = "msgpack"
)

// DefaultSuffixes are the candidate suffixes probed when resolving a specifier.
func DefaultSuffixes() []string {
	return []string{".ts", ".tsx", "/index.ts", "/index.tsx"}
}

// DefaultComponentSuffixes are the suffixes preferred for specifiers whose base
// name starts with an upper-case letter.
func DefaultComponentSuffixes() []string {
	return []string{".tsx", "/index.tsx"}
}

// Alias rewrites an import specifier before resolution.
// Exactly one of Find or Pattern is set.
type Alias struct {
	// Find is a literal prefix replaced by Replacement.
	Find string
	// Pattern is a regular expression replaced by Replacement ($1 expansion allowed).
	Pattern string
	// Replacement is the rewritten value, relative to the project root.
	Replacement string
}

// Config is the loaded depcache configuration with all paths absolute.
type Config struct {
	// Path is the config file the values were loaded from.
	Path string
	// Root is the project root directory.
	Root string

	Include           []string
	Exclude           []string
	Aliases           []Alias
	Relative          bool
	Suffixes          []string
	ComponentSuffixes []string

	Cache    CacheConfig
	Compiler CompilerConfig
	Watch    WatchConfig
}

// CacheConfig configures the persistent result cache.
type CacheConfig struct {
	Path               string
	LockFile           string
	ConfigFile         string
	ReadOnly           bool
	Expiry             time.Duration
	WriteDebounce      time.Duration
	FirstWriteDebounce time.Duration
	Format             string
}

// CompilerConfig configures the command invoked on a cache miss.
type CompilerConfig struct {
	Command     []string
	Environment map[string]string
	WorkingDir  string
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Ignore   []string
	Debounce time.Duration
	MaxWait  time.Duration
}

// IsGuardFile reports whether path is the lock file or build config file.
func (c *Config) IsGuardFile(path string) bool {
	return path != "" && (path == c.Cache.LockFile || path == c.Cache.ConfigFile)
}
