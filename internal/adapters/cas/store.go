// Package cas implements the persistent result cache.
//
// The cache is a single flat file mapping fingerprints to compiled artifacts.
// It keeps one entry per module, expires entries after a fixed age and writes
// itself back to disk on a debounced timer.
package cas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ResultStore = (*Store)(nil)

// Options configures a Store.
type Options struct {
	// Path is the location of the cache file.
	Path string
	// RootDir is the project root. Module ids are stored relative to it.
	RootDir string
	// LockFile and ConfigFile are the guard files whose fingerprints gate the cache.
	LockFile   string
	ConfigFile string
	// ReadOnly turns every write into a no-op.
	ReadOnly bool
	// Expiry is the maximum age of an entry.
	Expiry time.Duration
	// FirstWriteDebounce is the quiet period before the first write of a session,
	// WriteDebounce the one before every later write.
	FirstWriteDebounce time.Duration
	WriteDebounce      time.Duration
	// Codec names the on-disk format, see CodecFor.
	Codec string
	// Now returns the current time.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Expiry <= 0 {
		o.Expiry = domain.DefaultExpiry
	}
	if o.FirstWriteDebounce <= 0 {
		o.FirstWriteDebounce = domain.DefaultFirstWriteDebounce
	}
	if o.WriteDebounce <= 0 {
		o.WriteDebounce = domain.DefaultWriteDebounce
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.Path = filepath.Clean(o.Path)
	o.RootDir = filepath.Clean(o.RootDir)
	return o
}

// Store implements ports.ResultStore backed by a single file.
type Store struct {
	opts   Options
	codec  Codec
	guards ports.GuardFingerprinter
	log    ports.Logger

	mu       sync.Mutex
	file     *domain.CacheFile
	timer    *time.Timer
	pending  bool
	debounce time.Duration
	size     int64

	// flushMu allows a single flush at a time.
	flushMu sync.Mutex
}

// Open loads the cache file at opts.Path. A missing, corrupt or outdated file
// yields an empty cache stamped with the current guard fingerprints.
// Failing to fingerprint a guard file is fatal.
func Open(opts Options, guards ports.GuardFingerprinter, log ports.Logger) (*Store, error) {
	opts = opts.withDefaults()
	codec, err := CodecFor(opts.Codec)
	if err != nil {
		return nil, err
	}

	s := &Store{
		opts:     opts,
		codec:    codec,
		guards:   guards,
		log:      log,
		debounce: opts.FirstWriteDebounce,
	}

	lock, config, err := s.fingerprints()
	if err != nil {
		return nil, err
	}
	s.file = domain.NewCacheFile(opts.RootDir, lock, config)

	//nolint:gosec // Path comes from the project configuration
	data, err := os.ReadFile(opts.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		s.log.Warn(fmt.Sprintf("starting with an empty result cache: %v",
			zerr.Wrap(err, domain.ErrCacheReadFailed.Error())))
		return s, nil
	}

	stored := &domain.CacheFile{}
	if err := codec.Unmarshal(data, stored); err != nil {
		s.log.Warn(fmt.Sprintf("starting with an empty result cache: %v",
			zerr.Wrap(err, domain.ErrCacheDecodeFailed.Error())))
		return s, nil
	}
	if reason := staleReason(stored, lock, config); reason != "" {
		s.log.Warn("starting with an empty result cache: " + reason)
		return s, nil
	}

	s.file = s.fromDisk(stored)
	s.size = int64(len(data))
	return s, nil
}

// Remove deletes the cache file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error()), "path", path)
	}
	return nil
}

// Get returns the entry stored under hash. Expired entries are evicted.
func (s *Store) Get(hash string) (domain.ResultEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.file.Results[hash]
	if !ok {
		return domain.ResultEntry{}, false
	}
	if s.expired(entry, s.opts.Now()) {
		// The eviction reaches disk with the next flush.
		s.remove(hash, entry)
		s.pending = true
		return domain.ResultEntry{}, false
	}
	return entry, true
}

// Put stores artifact under hash and drops the previous entry of fileID.
func (s *Store) Put(hash, fileID string, artifact domain.Artifact) {
	if s.opts.ReadOnly {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.file.FileIndex[fileID]; ok && prev != hash {
		delete(s.file.Results, prev)
	}
	if old, ok := s.file.Results[hash]; ok && old.FileID != fileID && s.file.FileIndex[old.FileID] == hash {
		delete(s.file.FileIndex, old.FileID)
	}

	s.file.Results[hash] = domain.ResultEntry{
		Artifact:  artifact,
		FileID:    fileID,
		Timestamp: s.opts.Now(),
	}
	s.file.FileIndex[fileID] = hash
	s.schedule()
}

// CheckConfigFiles clears the cache when the format version or a guard
// fingerprint changed, and reports whether it did.
func (s *Store) CheckConfigFiles() (bool, error) {
	lock, config, err := s.fingerprints()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reason := staleReason(s.file, lock, config)
	if reason == "" {
		return false, nil
	}

	s.log.Warn("result cache reset: " + reason)
	s.file = domain.NewCacheFile(s.opts.RootDir, lock, config)
	s.schedule()
	return true, nil
}

// Flush writes pending changes now. Expired entries are swept first.
func (s *Store) Flush() error {
	if s.opts.ReadOnly {
		return nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.sweep(s.opts.Now())
	snapshot := s.toDisk()
	s.pending = false
	s.mu.Unlock()

	data, err := s.codec.Marshal(snapshot)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrCacheEncodeFailed.Error())
	} else {
		err = s.write(data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Retry on the next mutation with the short window.
		s.pending = true
		s.debounce = s.opts.FirstWriteDebounce
		return err
	}
	s.debounce = s.opts.WriteDebounce
	s.size = int64(len(data))
	return nil
}

// Close stops the scheduled writer and flushes pending changes synchronously.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.Flush()
}

// Stats summarizes the entries currently held.
func (s *Store) Stats() domain.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.CacheStats{
		Path:     s.opts.Path,
		ReadOnly: s.opts.ReadOnly,
		Entries:  len(s.file.Results),
		Size:     s.size,
	}
	for _, entry := range s.file.Results {
		if stats.Oldest.IsZero() || entry.Timestamp.Before(stats.Oldest) {
			stats.Oldest = entry.Timestamp
		}
		if entry.Timestamp.After(stats.Newest) {
			stats.Newest = entry.Timestamp
		}
	}
	return stats
}

func (s *Store) fingerprints() (lock, config string, err error) {
	if lock, err = s.guards.LockFingerprint(s.opts.LockFile); err != nil {
		return "", "", err
	}
	if config, err = s.guards.ConfigFingerprint(s.opts.ConfigFile); err != nil {
		return "", "", err
	}
	return lock, config, nil
}

// schedule restarts the write timer. Callers hold mu.
func (s *Store) schedule() {
	if s.opts.ReadOnly {
		return
	}
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

func (s *Store) fire() {
	if err := s.Flush(); err != nil {
		s.log.Error(err)
	}
}

func (s *Store) expired(entry domain.ResultEntry, now time.Time) bool {
	return now.Sub(entry.Timestamp) > s.opts.Expiry
}

// remove deletes an entry and its index slot. Callers hold mu.
func (s *Store) remove(hash string, entry domain.ResultEntry) {
	delete(s.file.Results, hash)
	if s.file.FileIndex[entry.FileID] == hash {
		delete(s.file.FileIndex, entry.FileID)
	}
}

// sweep removes every expired entry. Callers hold mu.
func (s *Store) sweep(now time.Time) {
	for hash, entry := range s.file.Results {
		if s.expired(entry, now) {
			s.remove(hash, entry)
		}
	}
}

// write replaces the cache file atomically.
func (s *Store) write(data []byte) error {
	dir := filepath.Dir(s.opts.Path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.opts.Path)+".tmp-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.opts.Path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.opts.Path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.opts.Path)
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.opts.Path)
	}
	if err := os.Rename(tmp.Name(), s.opts.Path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.opts.Path)
	}
	return nil
}

// toDisk copies the cache with module ids relative to the root. Callers hold mu.
func (s *Store) toDisk() *domain.CacheFile {
	out := domain.NewCacheFile(s.opts.RootDir, s.file.LockFingerprint, s.file.ConfigFingerprint)
	out.FormatVersion = s.file.FormatVersion
	for hash, entry := range s.file.Results {
		entry.FileID = s.compress(entry.FileID)
		out.Results[hash] = entry
	}
	for fileID, hash := range s.file.FileIndex {
		out.FileIndex[s.compress(fileID)] = hash
	}
	return out
}

// fromDisk expands the module ids of a decoded file against the current root.
func (s *Store) fromDisk(stored *domain.CacheFile) *domain.CacheFile {
	out := domain.NewCacheFile(s.opts.RootDir, stored.LockFingerprint, stored.ConfigFingerprint)
	for hash, entry := range stored.Results {
		entry.FileID = s.expand(entry.FileID)
		out.Results[hash] = entry
	}
	for fileID, hash := range stored.FileIndex {
		out.FileIndex[s.expand(fileID)] = hash
	}
	return out
}

func (s *Store) compress(fileID string) string {
	rel, err := filepath.Rel(s.opts.RootDir, fileID)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(fileID)
	}
	return filepath.ToSlash(rel)
}

func (s *Store) expand(stored string) string {
	native := filepath.FromSlash(stored)
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(s.opts.RootDir, native)
}

// staleReason explains why a cache file no longer matches the environment.
func staleReason(file *domain.CacheFile, lock, config string) string {
	switch {
	case file.FormatVersion != domain.CacheFormatVersion:
		return fmt.Sprintf("cache format version changed from %d to %d", file.FormatVersion, domain.CacheFormatVersion)
	case file.LockFingerprint != lock:
		return "lock file changed"
	case file.ConfigFingerprint != config:
		return "build config changed"
	default:
		return ""
	}
}
