package ports

import "go.trai.ch/depcache/internal/core/domain"

// Fingerprinter computes dependency-aware fingerprints of modules.
//
//go:generate mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// GetHash fingerprints a module and its transitive dependencies.
	GetHash(fileID, code string) (domain.Fingerprint, error)

	// Invalidate drops the memoized dependency sets of fileID and of every
	// module that depends on it.
	Invalidate(fileID string)

	// Reset drops all memoized state.
	Reset()

	// Stats returns the cumulative counters of the instance.
	Stats() domain.EngineStats
}
