package dag

import (
	"fmt"
	"strings"
)

// Describe renders the schedule for diagnostics: the level partition first,
// then the flat topological order. Intended for debug logs and the CLI's
// verbose output.
func (g *Graph) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph: %d nodes, %d levels\n", len(g.nodes), len(g.levels))
	for _, lvl := range g.levels {
		fmt.Fprintf(&b, "  level %d: %s\n", lvl.Level, strings.Join(lvl.Nodes, ", "))
	}
	fmt.Fprintf(&b, "  order: %s\n", strings.Join(g.topo, " -> "))
	return b.String()
}
