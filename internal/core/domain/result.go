package domain

import "time"

// CacheFormatVersion is the persisted cache layout version.
// A cache file with any other version is discarded on load.
const CacheFormatVersion = 3

// Artifact is the opaque output of the compiler for one module.
type Artifact struct {
	Code string            `json:"code" msgpack:"code"`
	Map  string            `json:"map,omitempty" msgpack:"map,omitempty"`
	Meta map[string]string `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// ResultEntry is a cached artifact together with the module it was compiled from.
type ResultEntry struct {
	Artifact  Artifact  `json:"artifact" msgpack:"artifact"`
	FileID    string    `json:"fileId" msgpack:"fileId"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

// CacheFile is the persisted result cache.
type CacheFile struct {
	FormatVersion     int                    `json:"formatVersion" msgpack:"formatVersion"`
	RootDir           string                 `json:"rootDir" msgpack:"rootDir"`
	LockFingerprint   string                 `json:"lockFingerprint" msgpack:"lockFingerprint"`
	ConfigFingerprint string                 `json:"configFingerprint" msgpack:"configFingerprint"`
	Results           map[string]ResultEntry `json:"results" msgpack:"results"`
	FileIndex         map[string]string      `json:"fileIndex" msgpack:"fileIndex"`
}

// NewCacheFile returns an empty cache file stamped with the current format version
// and guard fingerprints.
func NewCacheFile(rootDir, lockFingerprint, configFingerprint string) *CacheFile {
	return &CacheFile{
		FormatVersion:     CacheFormatVersion,
		RootDir:           rootDir,
		LockFingerprint:   lockFingerprint,
		ConfigFingerprint: configFingerprint,
		Results:           make(map[string]ResultEntry),
		FileIndex:         make(map[string]string),
	}
}

// CacheStats summarizes the content of a result cache.
type CacheStats struct {
	Path     string
	ReadOnly bool
	Entries  int
	Oldest   time.Time
	Newest   time.Time
	// Size is the byte size of the last encoded snapshot, zero if never written.
	Size int64
}

// Outcome tells how a transform was served.
type Outcome string

const (
	// OutcomeCached means the artifact came from the result cache.
	OutcomeCached Outcome = "cached"
	// OutcomeCompiled means the compiler was invoked.
	OutcomeCompiled Outcome = "compiled"
	// OutcomeFailed means fingerprinting or compilation failed.
	OutcomeFailed Outcome = "failed"
)

// TransformResult is the outcome of transforming one module.
type TransformResult struct {
	FileID   string
	Hash     string
	Outcome  Outcome
	Artifact Artifact
}
