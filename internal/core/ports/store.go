package ports

import "go.trai.ch/depcache/internal/core/domain"

// ResultStore is the persistent cache of compiled artifacts keyed by fingerprint.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ResultStore interface {
	// Get returns the entry stored under hash, unless absent or expired.
	Get(hash string) (domain.ResultEntry, bool)

	// Put stores an artifact, replacing any previous entry of the same module.
	Put(hash, fileID string, artifact domain.Artifact)

	// CheckConfigFiles recomputes the guard fingerprints and clears the cache
	// if they changed. It reports whether a reset happened.
	CheckConfigFiles() (bool, error)

	// Flush writes pending changes immediately.
	Flush() error

	// Close stops the scheduled writer and flushes pending changes.
	Close() error

	// Stats summarizes the current content.
	Stats() domain.CacheStats
}
