package ports

import "go.trai.ch/depcache/internal/core/domain"

// Metrics records counters about fingerprinting and cache usage.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveFingerprint records the work done by one fingerprint computation.
	ObserveFingerprint(stats domain.CallStats)

	// ObserveTransform records how a transform was served.
	ObserveTransform(outcome domain.Outcome)

	// ObserveInvalidation records an invalidation, labelled by its reason.
	ObserveInvalidation(reason string)

	// WriteTextfile writes all metrics to path in the Prometheus text format.
	WriteTextfile(path string) error
}
