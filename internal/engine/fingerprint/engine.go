// Package fingerprint implements the dependency fingerprint engine.
//
// The engine walks the import graph of a module depth first, memoizes the
// flattened dependency set of every module it fully resolves and hashes the
// module together with its sorted dependency closure. Cycles are tolerated:
// a module unwound inside a cycle rooted elsewhere is left pending, and the
// root of a cycle records every module the walk touched.
package fingerprint

import (
	"slices"
	"sync"
	"time"

	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
)

var _ ports.Fingerprinter = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to time computations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine computes dependency-aware fingerprints.
// It is safe for concurrent use; computations are serialized.
type Engine struct {
	resolver ports.EdgeResolver
	now      func() time.Time

	mu    sync.Mutex
	deps  map[string]domain.DepsEntry
	stats domain.EngineStats
}

// New creates an Engine that discovers edges with resolver.
func New(resolver ports.EdgeResolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		now:      time.Now,
		deps:     make(map[string]domain.DepsEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// walk is the traversal state of one root computation.
type walk struct {
	// visited holds the code of every module touched, including modules merged from cached sub-trees.
	visited map[string]string
	// inPath is the current DFS stack.
	inPath map[string]struct{}
	// chain is the specifier chain of the modules on the stack.
	chain []string
	stats domain.CallStats
}

// GetHash fingerprints fileID with the given content and its transitive dependencies.
func (e *Engine) GetHash(fileID, code string) (domain.Fingerprint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.now()
	w := &walk{
		visited: make(map[string]string),
		inPath:  make(map[string]struct{}),
	}

	deps, _, err := e.collect(w, fileID, code, "", 0)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	w.stats.Duration = e.now().Sub(start)

	e.stats.CallCount += w.stats.Calls
	e.stats.CacheHits += w.stats.CacheHits
	e.stats.CacheInserts += w.stats.CacheInserts
	e.stats.LastComputeDuration = w.stats.Duration

	return domain.Fingerprint{
		FileID:       fileID,
		Hash:         Hash(code, deps),
		Dependencies: slices.Clone(deps),
		Stats:        w.stats,
	}, nil
}

// collect resolves the flattened dependency set of fileID and reports whether the
// module took part in a cycle that is not yet closed.
func (e *Engine) collect(w *walk, fileID, code, importPath string, depth int) ([]domain.Dependency, bool, error) {
	w.stats.Calls++
	w.visited[fileID] = code

	if entry := e.deps[fileID]; entry.IsResolved() {
		w.stats.CacheHits++
		return entry.Deps, false, nil
	}

	if importPath == "" && depth == 0 {
		importPath, _ = e.resolver.ImportPath(fileID)
	}
	w.inPath[fileID] = struct{}{}
	if importPath != "" {
		w.chain = append(w.chain, importPath)
	}

	local := make(map[string]string)
	circular := false

	for _, edge := range e.resolver.Edges(fileID, code, w.chain) {
		target, edgeCircular, err := e.visitEdge(w, edge, fileID, depth)
		if err != nil {
			return nil, false, err
		}
		if edgeCircular {
			circular = true
			continue
		}
		local[target] = w.visited[target]
		for _, dep := range e.deps[target].Deps {
			if dep.FileID == fileID {
				continue
			}
			local[dep.FileID] = dep.Code
			w.visited[dep.FileID] = dep.Code
		}
	}

	delete(w.inPath, fileID)
	if importPath != "" {
		w.chain = w.chain[:len(w.chain)-1]
	}
	if depth == 0 {
		delete(w.visited, fileID)
	}

	switch {
	case !circular:
		entry := domain.ResolvedEntry(local)
		e.deps[fileID] = entry
		w.stats.CacheInserts++
		return entry.Deps, false, nil
	case depth == 0:
		// The boundary between real dependencies and cycle mates is unknown at the
		// root, so everything the walk touched counts.
		entry := domain.ResolvedEntry(w.visited)
		e.deps[fileID] = entry
		w.stats.CacheInserts++
		return entry.Deps, true, nil
	default:
		if _, exists := e.deps[fileID]; !exists {
			e.deps[fileID] = domain.PendingEntry()
		}
		return nil, true, nil
	}
}

// visitEdge descends into the target of edge if needed and reports the module id
// the edge finally points at and whether it is circular.
func (e *Engine) visitEdge(w *walk, edge domain.Edge, importer string, depth int) (string, bool, error) {
	target := edge.FileID
	if _, onPath := w.inPath[target]; onPath {
		return target, true, nil
	}
	if _, seen := w.visited[target]; seen {
		return target, !e.deps[target].IsResolved(), nil
	}

	mod, err := e.resolver.ReadModule(edge, importer)
	if err != nil {
		return "", false, err
	}

	// A recovered read may land on a module the walk already knows.
	target = mod.FileID
	if _, onPath := w.inPath[target]; onPath {
		return target, true, nil
	}
	if _, seen := w.visited[target]; seen {
		return target, !e.deps[target].IsResolved(), nil
	}

	_, circular, err := e.collect(w, target, mod.Code, edge.Specifier, depth+1)
	if err != nil {
		return "", false, err
	}
	return target, circular, nil
}

// Invalidate drops the entry of fileID and every entry whose dependency set contains it.
func (e *Engine) Invalidate(fileID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.deps, fileID)
	for id, entry := range e.deps {
		if entry.Contains(fileID) {
			delete(e.deps, id)
		}
	}
}

// Reset drops every memoized dependency set.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.deps = make(map[string]domain.DepsEntry)
}

// Entry returns the dependency cache entry of fileID.
func (e *Engine) Entry(fileID string) domain.DepsEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.deps[fileID]
}

// Stats returns the cumulative counters and the modules still pending.
func (e *Engine) Stats() domain.EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := e.stats
	stats.UnresolvedModules = nil
	for id, entry := range e.deps {
		if entry.State == domain.EntryPending {
			stats.UnresolvedModules = append(stats.UnresolvedModules, id)
		}
	}
	slices.Sort(stats.UnresolvedModules)
	return stats
}

// ResetStats zeroes the cumulative counters.
func (e *Engine) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats = domain.EngineStats{}
}
