// Package config provides the configuration loader for depcache.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

const (
	// DefaultLockFile is the lock file guarding the cache when none is configured.
	DefaultLockFile = "pnpm-lock.yaml"
	// DefaultConfigFile is the build config file guarding the cache when none is configured.
	DefaultConfigFile = "vite.config.ts"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Discover walks up from cwd and returns the path of the nearest depcache.yaml.
func (l *Loader) Discover(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "cwd", cwd)
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// Load reads the configuration file at path and returns it with defaults applied
// and every path made absolute.
func (l *Loader) Load(path string) (*domain.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Depcachefile
	if err := readAndUnmarshalYAML(abs, &file); err != nil {
		return nil, zerr.With(err, "path", abs)
	}

	cfg, err := l.build(abs, &file)
	if err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	return cfg, nil
}

func (l *Loader) build(configPath string, file *Depcachefile) (*domain.Config, error) {
	root := resolvePath(filepath.Dir(configPath), file.Root)

	if err := validatePatterns("include", file.Include); err != nil {
		return nil, err
	}
	if err := validatePatterns("exclude", file.Exclude); err != nil {
		return nil, err
	}
	aliases, err := buildAliases(file.Aliases)
	if err != nil {
		return nil, err
	}
	if len(file.Include) == 0 && l.Logger != nil {
		l.Logger.Warn("no include patterns configured, every import is followed")
	}

	cache, err := buildCache(root, &file.Cache)
	if err != nil {
		return nil, err
	}

	debounce, err := parseDuration("watch.debounce", file.Watch.Debounce, domain.DefaultWatchDebounce)
	if err != nil {
		return nil, err
	}
	maxWait, err := parseDuration("watch.maxWait", file.Watch.MaxWait, domain.DefaultWatchMaxWait)
	if err != nil {
		return nil, err
	}

	compilerDir := root
	if file.Compiler.WorkingDir != "" {
		compilerDir = resolvePath(root, file.Compiler.WorkingDir)
	}

	return &domain.Config{
		Path:              configPath,
		Root:              root,
		Include:           file.Include,
		Exclude:           file.Exclude,
		Aliases:           aliases,
		Relative:          file.Relative,
		Suffixes:          orDefault(file.Suffixes, domain.DefaultSuffixes()),
		ComponentSuffixes: orDefault(file.ComponentSuffixes, domain.DefaultComponentSuffixes()),
		Cache:             cache,
		Compiler: domain.CompilerConfig{
			Command:     file.Compiler.Cmd,
			Environment: file.Compiler.Environment,
			WorkingDir:  compilerDir,
		},
		Watch: domain.WatchConfig{
			Ignore:   file.Watch.Ignore,
			Debounce: debounce,
			MaxWait:  maxWait,
		},
	}, nil
}

func buildCache(root string, dto *CacheDTO) (domain.CacheConfig, error) {
	format := dto.Format
	if format == "" {
		format = domain.CodecJSON
	}
	if format != domain.CodecJSON && format != domain.CodecMsgpack {
		return domain.CacheConfig{}, zerr.With(domain.ErrUnknownCodec, "format", format)
	}

	expiry, err := parseDuration("cache.expiry", dto.Expiry, domain.DefaultExpiry)
	if err != nil {
		return domain.CacheConfig{}, err
	}
	writeDebounce, err := parseDuration("cache.writeDebounce", dto.WriteDebounce, domain.DefaultWriteDebounce)
	if err != nil {
		return domain.CacheConfig{}, err
	}
	firstWriteDebounce, err := parseDuration("cache.firstWriteDebounce", dto.FirstWriteDebounce, domain.DefaultFirstWriteDebounce)
	if err != nil {
		return domain.CacheConfig{}, err
	}

	return domain.CacheConfig{
		Path:               resolvePath(root, or(dto.Path, domain.DefaultCachePath())),
		LockFile:           resolvePath(root, or(dto.LockFile, DefaultLockFile)),
		ConfigFile:         resolvePath(root, or(dto.ConfigFile, DefaultConfigFile)),
		ReadOnly:           dto.ReadOnly,
		Expiry:             expiry,
		WriteDebounce:      writeDebounce,
		FirstWriteDebounce: firstWriteDebounce,
		Format:             format,
	}, nil
}

func buildAliases(dtos []AliasDTO) ([]domain.Alias, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	aliases := make([]domain.Alias, 0, len(dtos))
	for _, dto := range dtos {
		if (dto.Find == "") == (dto.Pattern == "") {
			return nil, zerr.With(domain.ErrInvalidAlias, "replacement", dto.Replacement)
		}
		if dto.Pattern != "" {
			if err := validatePatterns("aliases.pattern", []string{dto.Pattern}); err != nil {
				return nil, err
			}
		}
		aliases = append(aliases, domain.Alias{
			Find:        dto.Find,
			Pattern:     dto.Pattern,
			Replacement: dto.Replacement,
		})
	}
	return aliases, nil
}

func validatePatterns(field string, patterns []string) error {
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "field", field)
			return zerr.With(err, "pattern", p)
		}
	}
	return nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "field", field)
	}
	return d, nil
}

// resolvePath makes p absolute against base.
func resolvePath(base, p string) string {
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
