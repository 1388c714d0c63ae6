package graph

import (
	"sort"

	"github.com/standardbeagle/pyscope/internal/types"
)

// detectCycles finds circular import chains by depth-first search over the
// internal edges. Each cycle is reported as the module path from the first
// repeated module back to itself, so A -> B -> C -> A comes out as
// [A B C A]. Roots already fully explored are never re-entered, which keeps
// the search linear and avoids reporting rotations of the same cycle once
// per member.
func detectCycles(g types.DependencyGraph) [][]string {
	visited := make(map[string]bool)
	inStack := make(map[string]bool)
	var cycles [][]string

	var visit func(module string, path []string)
	visit = func(module string, path []string) {
		visited[module] = true
		inStack[module] = true
		path = append(path, module)

		edges, ok := g[module]
		if ok {
			for _, dep := range edges.InternalDeps {
				if _, known := g[dep]; !known {
					continue
				}
				if inStack[dep] {
					start := 0
					for i, m := range path {
						if m == dep {
							start = i
							break
						}
					}
					cycle := append(append([]string{}, path[start:]...), dep)
					cycles = append(cycles, cycle)
					continue
				}
				if !visited[dep] {
					visit(dep, path)
				}
			}
		}
		inStack[module] = false
	}

	roots := make([]string, 0, len(g))
	for module := range g {
		roots = append(roots, module)
	}
	sort.Strings(roots)
	for _, module := range roots {
		if !visited[module] {
			visit(module, nil)
		}
	}
	return cycles
}
