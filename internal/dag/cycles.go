package dag

import (
	"sort"
	"strings"
)

// CycleError reports a dependency cycle found during graph construction.
// Path is the full cycle: first and last entries are the same node, and
// every consecutive pair is a real dependency edge.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Path, " -> ")
}

// color values for the depth-first cycle search.
const (
	white = iota // unvisited
	gray         // on the current DFS stack
	black        // fully explored
)

// detectCycle runs a three-color depth-first search over the dependency
// edges and returns a *CycleError for the first cycle found, or nil.
//
// Parent pointers are tracked during the walk so the full cycle can be
// reconstructed for diagnostics, not just the two colliding nodes.
func (g *Graph) detectCycle() *CycleError {
	colors := make(map[string]int, len(g.nodes))
	parent := make(map[string]string, len(g.nodes))

	var visit func(name string) *CycleError
	visit = func(name string) *CycleError {
		colors[name] = gray
		for _, dep := range sortedKeys(g.nodes[name].deps) {
			switch colors[dep] {
			case gray:
				// dep is on our stack: walk parents back from name to dep.
				path := []string{dep}
				for cur := name; cur != dep; cur = parent[cur] {
					path = append(path, cur)
				}
				path = append(path, dep)
				// Reverse so the path follows dependency edges forward.
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return &CycleError{Path: path}
			case white:
				parent[dep] = name
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		colors[name] = black
		return nil
	}

	for _, name := range sortedNodeNames(g.nodes) {
		if colors[name] == white {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortedKeys returns a set's members in lexical order, for deterministic
// traversal and error messages.
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedNodeNames(nodes map[string]*node) []string {
	out := make([]string, 0, len(nodes))
	for k := range nodes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
