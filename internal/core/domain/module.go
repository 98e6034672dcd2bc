package domain

import (
	"cmp"
	"slices"
)

// Dependency is a module taking part in a fingerprint: its id and the content
// that was hashed for it.
type Dependency struct {
	// FileID is the canonical absolute path of the module.
	FileID string `json:"fileId"`
	// Code is the module content read during the walk.
	Code string `json:"-"`
}

// Module is a module id with its content.
type Module struct {
	FileID string
	Code   string
}

// Edge is a resolved import from one module to another.
type Edge struct {
	// FileID is the resolved target of the import.
	FileID string
	// Specifier is the raw import specifier as written in the importing module.
	Specifier string
}

// EntryState tags a dependency cache entry.
type EntryState uint8

const (
	// EntryAbsent means the module was never resolved.
	EntryAbsent EntryState = iota
	// EntryPending means the module was unwound inside a cycle rooted elsewhere
	// and cannot be served from the cache yet.
	EntryPending
	// EntryResolved means the flattened dependency set is known and memoized.
	EntryResolved
)

func (s EntryState) String() string {
	switch s {
	case EntryPending:
		return "pending"
	case EntryResolved:
		return "resolved"
	default:
		return "absent"
	}
}

// DepsEntry is the dependency cache value for one module.
// The zero value is an absent entry.
type DepsEntry struct {
	State  EntryState
	Deps   []Dependency
	depsID map[ModuleKey]struct{}
}

// ResolvedEntry builds a resolved entry from a flattened dependency map keyed by module id.
// Deps are sorted by FileID.
func ResolvedEntry(deps map[string]string) DepsEntry {
	entry := DepsEntry{
		State:  EntryResolved,
		Deps:   make([]Dependency, 0, len(deps)),
		depsID: make(map[ModuleKey]struct{}, len(deps)),
	}
	for id, code := range deps {
		entry.Deps = append(entry.Deps, Dependency{FileID: id, Code: code})
		entry.depsID[KeyOf(id)] = struct{}{}
	}
	SortDependencies(entry.Deps)
	return entry
}

// PendingEntry returns the sentinel recorded for modules unwound mid-cycle.
func PendingEntry() DepsEntry {
	return DepsEntry{State: EntryPending}
}

// IsResolved reports whether the entry may be served from the cache.
func (e DepsEntry) IsResolved() bool {
	return e.State == EntryResolved
}

// Contains reports whether fileID is part of the flattened dependency set.
func (e DepsEntry) Contains(fileID string) bool {
	_, ok := e.depsID[KeyOf(fileID)]
	return ok
}

// SortDependencies sorts deps by FileID in place.
func SortDependencies(deps []Dependency) {
	slices.SortFunc(deps, func(a, b Dependency) int {
		return cmp.Compare(a.FileID, b.FileID)
	})
}
