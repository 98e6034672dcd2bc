// Package domain contains the core domain models for module dependency fingerprinting.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

type graphNode struct {
	code    string
	imports []Edge
}

// ModuleGraph is an explicit import graph of modules.
// It is built by walking resolved edges and used for inspection and reporting.
type ModuleGraph struct {
	modules map[ModuleKey]graphNode
}

// NewModuleGraph creates a new empty ModuleGraph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{
		modules: make(map[ModuleKey]graphNode),
	}
}

// AddModule adds a module and its resolved imports to the graph.
// It returns an error if the module already exists.
func (g *ModuleGraph) AddModule(fileID, code string, imports []Edge) error {
	id := KeyOf(fileID)
	if _, exists := g.modules[id]; exists {
		return zerr.With(ErrModuleAlreadyExists, "file_id", fileID)
	}
	g.modules[id] = graphNode{code: code, imports: slices.Clone(imports)}
	return nil
}

// Has reports whether the module is part of the graph.
func (g *ModuleGraph) Has(fileID string) bool {
	_, ok := g.modules[KeyOf(fileID)]
	return ok
}

// Len returns the number of modules in the graph.
func (g *ModuleGraph) Len() int {
	return len(g.modules)
}

// Code returns the content recorded for a module.
func (g *ModuleGraph) Code(fileID string) (string, error) {
	node, ok := g.modules[KeyOf(fileID)]
	if !ok {
		return "", zerr.With(ErrModuleNotFound, "file_id", fileID)
	}
	return node.code, nil
}

// Imports returns the resolved imports of a module in discovery order.
func (g *ModuleGraph) Imports(fileID string) []Edge {
	return g.modules[KeyOf(fileID)].imports
}

// Modules yields module ids in lexicographic order.
func (g *ModuleGraph) Modules() iter.Seq[string] {
	ids := make([]string, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id.String())
	}
	slices.Sort(ids)
	return slices.Values(ids)
}

// Cycles returns the import cycles closed by back edges of a depth-first walk
// in sorted module order, each as a path that starts and ends at the same module.
// Every cyclic component yields at least one cycle; cycles with the same members
// are reported once. Not every elementary cycle is listed.
func (g *ModuleGraph) Cycles() [][]string {
	state := make(map[ModuleKey]int) // 0: unvisited, 1: visiting, 2: visited
	var path []ModuleKey
	var cycles [][]string
	seen := make(map[string]struct{})

	var visit func(u ModuleKey)
	visit = func(u ModuleKey) {
		state[u] = 1
		path = append(path, u)

		for _, edge := range g.modules[u].imports {
			dep := KeyOf(edge.FileID)
			if _, known := g.modules[dep]; !known {
				continue
			}
			switch state[dep] {
			case 1:
				cycle := cyclePath(path, dep)
				key := cycleKey(cycle)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					cycles = append(cycles, cycle)
				}
			case 0:
				visit(dep)
			}
		}

		state[u] = 2
		path = path[:len(path)-1]
	}

	for id := range g.Modules() {
		u := KeyOf(id)
		if state[u] == 0 {
			visit(u)
		}
	}
	return cycles
}

// cyclePath extracts the cycle closing at dep from the current DFS path.
func cyclePath(path []ModuleKey, dep ModuleKey) []string {
	startIdx := slices.Index(path, dep)
	cycle := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		cycle = append(cycle, node.String())
	}
	return append(cycle, dep.String())
}

// cycleKey identifies a cycle independently of the module it was entered from.
func cycleKey(cycle []string) string {
	members := slices.Clone(cycle[:len(cycle)-1])
	slices.Sort(members)
	return strings.Join(members, "\x00")
}
