package dag

import (
	"fmt"
	"sort"
)

// less orders node names for scheduling: higher priority first, then lexical
// name order. Every ordering decision in this package goes through it so
// that re-runs over identical input schedule identically.
func (g *Graph) less(a, b string) bool {
	na, nb := g.nodes[a], g.nodes[b]
	if na.priority != nb.priority {
		return na.priority > nb.priority
	}
	return a < b
}

// topologicalOrder runs Kahn's algorithm over the dependency edges. The
// ready set is kept sorted by (priority desc, name asc) so the output is
// stable across runs.
func (g *Graph) topologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for name, n := range g.nodes {
		inDegree[name] = len(n.deps)
	}

	var ready []string
	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return g.less(ready[i], ready[j]) })
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for dep := range g.nodes[next].dependents {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(g.nodes) {
		// Unreachable after cycle detection passes; kept as a guard against
		// internal bookkeeping bugs.
		return nil, fmt.Errorf("topological sort resolved %d of %d nodes", len(order), len(g.nodes))
	}
	return order, nil
}

// computeLevels partitions nodes by dependency depth: depth 0 for nodes with
// no dependencies, otherwise 1 + the maximum depth among dependencies.
// Depths are memoized since a node can be reached through many paths.
func (g *Graph) computeLevels() []ExecutionLevel {
	depths := make(map[string]int, len(g.nodes))

	var depth func(name string) int
	depth = func(name string) int {
		if d, ok := depths[name]; ok {
			return d
		}
		d := 0
		for dep := range g.nodes[name].deps {
			if dd := depth(dep) + 1; dd > d {
				d = dd
			}
		}
		depths[name] = d
		return d
	}

	byDepth := make(map[int][]string)
	maxDepth := 0
	for name := range g.nodes {
		d := depth(name)
		byDepth[d] = append(byDepth[d], name)
		if d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([]ExecutionLevel, 0, maxDepth+1)
	for d := 0; d <= maxDepth; d++ {
		nodes := byDepth[d]
		if len(nodes) == 0 {
			continue
		}
		sort.Slice(nodes, func(i, j int) bool { return g.less(nodes[i], nodes[j]) })
		levels = append(levels, ExecutionLevel{Level: d, Nodes: nodes})
	}
	return levels
}
