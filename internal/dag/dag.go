package dag

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
	"github.com/featuregrid/featuregrid/internal/registry"
)

// Graph is the immutable dependency graph of a single extraction run. Build
// it with Build; all analysis (order, levels, cycle check) happens there, so
// query methods never fail after construction succeeds.
type Graph struct {
	nodes map[string]*node
	// topo is the flat topological order, dependencies before dependents.
	topo []string
	// levels partitions the nodes by dependency depth.
	levels []ExecutionLevel
}

// node is a single vertex. It is un-exported to enforce interaction with the
// graph via string node names, not direct struct manipulation.
type node struct {
	name     string
	priority int
	// deps is the set of node names this node depends on (predecessors).
	deps map[string]struct{}
	// dependents is the set of node names that depend on this node (successors).
	dependents map[string]struct{}
}

// ExecutionLevel is one rung of the schedule: nodes at the same dependency
// depth, none of which depends on another, safe to run concurrently. Nodes
// are ordered by (priority descending, name ascending).
type ExecutionLevel struct {
	Level int
	Nodes []string
}

// Build constructs and validates the dependency graph for the given node
// names (nil means every enabled node in the registry).
//
// Edges come from required features: if node A requires feature X and some
// other node B in the run provides X, then A depends on B. Self-provided
// features and features with no in-run provider add no edge. A requested
// name absent from the registry still gets a vertex, so the executor can
// record a per-node failure for it instead of dropping it silently.
//
// Build fails on dependency cycles; the returned error is a *CycleError
// carrying the full cycle path.
func Build(ctx context.Context, reg *registry.Registry, names []string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if len(names) == 0 {
		names = reg.Names(true)
	}
	logger.Debug("Building dependency graph.", "node_count", len(names))

	g := &Graph{nodes: make(map[string]*node, len(names))}
	for _, name := range names {
		if _, ok := g.nodes[name]; ok {
			logger.Warn("Duplicate node in requested set, ignoring repeat.", "node", name)
			continue
		}
		n := &node{
			name:       name,
			deps:       make(map[string]struct{}),
			dependents: make(map[string]struct{}),
		}
		if d, ok := reg.Get(name); ok {
			n.priority = d.Priority
		}
		g.nodes[name] = n
	}

	for name, n := range g.nodes {
		d, ok := reg.Get(name)
		if !ok {
			// Unknown node: no descriptor, no edges. The executor fails it.
			continue
		}
		for _, f := range d.RequiresFeatures {
			provider, ok := reg.Provider(f)
			if !ok {
				logger.Debug("Required feature has no provider, deferring to run time.",
					"node", name, "feature", f)
				continue
			}
			if provider == name {
				continue
			}
			p, ok := g.nodes[provider]
			if !ok {
				// Provider exists but is outside this run's node set; the
				// feature must come from seeded context state.
				logger.Debug("Feature provider not in run set.",
					"node", name, "feature", f, "provider", provider)
				continue
			}
			n.deps[provider] = struct{}{}
			p.dependents[name] = struct{}{}
		}
	}

	if cycle := g.detectCycle(); cycle != nil {
		return nil, cycle
	}

	topo, err := g.topologicalOrder()
	if err != nil {
		return nil, err
	}
	g.topo = topo
	g.levels = g.computeLevels()

	logger.Debug("Dependency graph built.", "levels", len(g.levels))
	return g, nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Has reports whether the graph contains the named node.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// TopologicalOrder returns the flat execution order: every node appears
// after all of its dependencies, ties broken by (priority desc, name asc).
func (g *Graph) TopologicalOrder() []string {
	out := make([]string, len(g.topo))
	copy(out, g.topo)
	return out
}

// Levels returns the schedule partition in ascending depth order.
func (g *Graph) Levels() []ExecutionLevel {
	out := make([]ExecutionLevel, len(g.levels))
	copy(out, g.levels)
	return out
}

func (g *Graph) String() string {
	return fmt.Sprintf("dag.Graph(%d nodes, %d levels)", len(g.nodes), len(g.levels))
}
