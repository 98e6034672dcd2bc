package domain

import "time"

// CallStats describes the work done by a single fingerprint computation.
type CallStats struct {
	// Calls is the number of modules entered by the walk.
	Calls int `json:"calls"`
	// CacheHits is the number of modules served from the dependency cache.
	CacheHits int `json:"cacheHits"`
	// CacheInserts is the number of resolved entries written.
	CacheInserts int `json:"cacheInserts"`
	// Duration is the wall time of the computation.
	Duration time.Duration `json:"duration"`
}

// HitRatio returns the share of entered modules that were served from the cache.
func (s CallStats) HitRatio() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.Calls)
}

// Fingerprint is the result of hashing a module together with its dependency closure.
type Fingerprint struct {
	FileID       string       `json:"fileId"`
	Hash         string       `json:"hash"`
	Dependencies []Dependency `json:"dependencies"`
	Stats        CallStats    `json:"stats"`
}

// EngineStats are the cumulative counters of a fingerprint engine instance.
type EngineStats struct {
	CacheHits           int           `json:"cacheHits"`
	CacheInserts        int           `json:"cacheInserts"`
	CallCount           int           `json:"callCount"`
	LastComputeDuration time.Duration `json:"lastComputeDuration"`
	// UnresolvedModules lists modules whose entry is still pending.
	UnresolvedModules []string `json:"unresolvedModules"`
}
