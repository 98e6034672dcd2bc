package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
)

// graphResolver serves edges and content from an in-memory module graph.
type graphResolver struct {
	graph *domain.ModuleGraph
	reads map[string]int
}

var _ ports.EdgeResolver = (*graphResolver)(nil)

func (r *graphResolver) Edges(fileID, _ string, _ []string) []domain.Edge {
	return r.graph.Imports(fileID)
}

func (r *graphResolver) ReadModule(edge domain.Edge, _ string) (domain.Module, error) {
	r.reads[edge.FileID]++
	code, err := r.graph.Code(edge.FileID)
	if err != nil {
		return domain.Module{}, err
	}
	return domain.Module{FileID: edge.FileID, Code: code}, nil
}

func (r *graphResolver) ImportPath(string) (string, bool) {
	return "", false
}

// module describes one node of a test graph.
type module struct {
	id      string
	code    string
	imports []string
}

func newGraph(t *testing.T, modules ...module) *graphResolver {
	t.Helper()
	g := domain.NewModuleGraph()
	for _, m := range modules {
		edges := make([]domain.Edge, len(m.imports))
		for i, id := range m.imports {
			edges[i] = domain.Edge{FileID: id, Specifier: id}
		}
		require.NoError(t, g.AddModule(m.id, m.code, edges))
	}
	return &graphResolver{graph: g, reads: make(map[string]int)}
}

func depIDs(deps []domain.Dependency) []string {
	ids := make([]string, len(deps))
	for i, d := range deps {
		ids[i] = d.FileID
	}
	return ids
}
