package config

// Depcachefile represents the structure of the depcache.yaml configuration file.
type Depcachefile struct {
	Root              string      `yaml:"root"`
	Include           []string    `yaml:"include"`
	Exclude           []string    `yaml:"exclude"`
	Aliases           []AliasDTO  `yaml:"aliases"`
	Relative          bool        `yaml:"relative"`
	Suffixes          []string    `yaml:"suffixes"`
	ComponentSuffixes []string    `yaml:"componentSuffixes"`
	Cache             CacheDTO    `yaml:"cache"`
	Compiler          CompilerDTO `yaml:"compiler"`
	Watch             WatchDTO    `yaml:"watch"`
}

// AliasDTO represents one import alias.
type AliasDTO struct {
	Find        string `yaml:"find"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// CacheDTO represents the result cache section.
type CacheDTO struct {
	Path               string `yaml:"path"`
	LockFile           string `yaml:"lockFile"`
	ConfigFile         string `yaml:"configFile"`
	ReadOnly           bool   `yaml:"readOnly"`
	Expiry             string `yaml:"expiry"`
	WriteDebounce      string `yaml:"writeDebounce"`
	FirstWriteDebounce string `yaml:"firstWriteDebounce"`
	Format             string `yaml:"format"`
}

// CompilerDTO represents the compiler section.
type CompilerDTO struct {
	Cmd         []string          `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`
	WorkingDir  string            `yaml:"workingDir"`
}

// WatchDTO represents the watch section.
type WatchDTO struct {
	Ignore   []string `yaml:"ignore"`
	Debounce string   `yaml:"debounce"`
	MaxWait  string   `yaml:"maxWait"`
}
