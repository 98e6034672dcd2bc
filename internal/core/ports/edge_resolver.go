// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/depcache/internal/core/domain"

// EdgeResolver discovers and resolves the import edges of a module.
//
//go:generate mockgen -source=edge_resolver.go -destination=mocks/mock_edge_resolver.go -package=mocks
type EdgeResolver interface {
	// Edges returns the resolved imports of a module in order of appearance.
	// chain holds the specifiers of the modules currently on the walk path.
	// Imports that cannot be resolved are omitted.
	Edges(fileID, code string, chain []string) []domain.Edge

	// ReadModule reads the target of an edge. If the read fails, the stale
	// resolution is evicted and the specifier resolved and read once more.
	ReadModule(edge domain.Edge, importer string) (domain.Module, error)

	// ImportPath maps a module id back to the aliased specifier that reaches it.
	ImportPath(fileID string) (string, bool)
}
