package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/zerr"
)

func edges(ids ...string) []domain.Edge {
	out := make([]domain.Edge, len(ids))
	for i, id := range ids {
		out[i] = domain.Edge{FileID: id, Specifier: id}
	}
	return out
}

func TestModuleGraph_AddModule(t *testing.T) {
	g := domain.NewModuleGraph()
	require.NoError(t, g.AddModule("/a.ts", "a", edges("/b.ts")))

	err := g.AddModule("/a.ts", "a", nil)
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "/a.ts", zErr.Metadata()["file_id"])

	code, err := g.Code("/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "a", code)
	assert.Equal(t, edges("/b.ts"), g.Imports("/a.ts"))
	assert.True(t, g.Has("/a.ts"))
	assert.False(t, g.Has("/b.ts"))
	assert.Equal(t, 1, g.Len())
}

func TestModuleGraph_CodeMissing(t *testing.T) {
	g := domain.NewModuleGraph()
	_, err := g.Code("/missing.ts")
	require.ErrorContains(t, err, domain.ErrModuleNotFound.Error())
}

func TestModuleGraph_Modules(t *testing.T) {
	g := domain.NewModuleGraph()
	for _, id := range []string{"/c.ts", "/a.ts", "/b.ts"} {
		require.NoError(t, g.AddModule(id, "", nil))
	}
	assert.Equal(t, []string{"/a.ts", "/b.ts", "/c.ts"}, slices.Collect(g.Modules()))
}

func TestModuleGraph_Cycles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*domain.ModuleGraph)
		want  [][]string
	}{
		{
			name: "acyclic chain",
			setup: func(g *domain.ModuleGraph) {
				_ = g.AddModule("/a.ts", "", edges("/b.ts"))
				_ = g.AddModule("/b.ts", "", edges("/c.ts"))
				_ = g.AddModule("/c.ts", "", nil)
			},
			want: nil,
		},
		{
			name: "self import",
			setup: func(g *domain.ModuleGraph) {
				_ = g.AddModule("/a.ts", "", edges("/a.ts"))
			},
			want: [][]string{{"/a.ts", "/a.ts"}},
		},
		{
			name: "two node cycle",
			setup: func(g *domain.ModuleGraph) {
				_ = g.AddModule("/a.ts", "", edges("/b.ts"))
				_ = g.AddModule("/b.ts", "", edges("/a.ts"))
			},
			want: [][]string{{"/a.ts", "/b.ts", "/a.ts"}},
		},
		{
			name: "cycle below root",
			setup: func(g *domain.ModuleGraph) {
				_ = g.AddModule("/a.ts", "", edges("/b.ts"))
				_ = g.AddModule("/b.ts", "", edges("/c.ts"))
				_ = g.AddModule("/c.ts", "", edges("/d.ts", "/b.ts"))
				_ = g.AddModule("/d.ts", "", nil)
			},
			want: [][]string{{"/b.ts", "/c.ts", "/b.ts"}},
		},
		{
			name: "edges to unknown modules are ignored",
			setup: func(g *domain.ModuleGraph) {
				_ = g.AddModule("/a.ts", "", edges("/external.ts"))
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewModuleGraph()
			tt.setup(g)
			assert.Equal(t, tt.want, g.Cycles())
		})
	}
}
