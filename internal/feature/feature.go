// Package feature defines the core contracts of the extraction engine: the
// descriptor a node registers with, the interface a node implements, and the
// per-node result the executor records.
//
// Feature values are deliberately untyped (any). They are JSON-like data
// (numbers, strings, booleans, lists, nested maps) produced by one node and
// consumed by others; consumers type-assert the shapes they expect.
package feature

import "context"

// Context is the read-only view of a run's state that a node body receives.
// Node bodies must not mutate the run; they only read previously merged
// features and caller-provided resources, and return new features from
// Extract. The executor owns all mutation.
type Context interface {
	// HasResource reports whether a named resource was provided for this run.
	HasResource(name string) bool
	// Resource returns the named resource, or false if absent.
	Resource(name string) (any, bool)
	// HasFeature reports whether a feature has been merged into the run.
	HasFeature(name string) bool
	// Feature returns the named feature value, or def if absent.
	Feature(name string, def any) any
}

// Node is a single unit of extraction work. Implementations must be safe to
// call from a worker goroutine and must signal failure through the returned
// error rather than by mutating shared state.
type Node interface {
	// Extract computes this node's features from the run context and returns
	// them as a feature-name to value mapping.
	Extract(ctx context.Context, fc Context) (map[string]any, error)
}

// Factory constructs a fresh Node instance for a single run.
type Factory func() Node

// Descriptor is a registry entry describing one feature node: what it
// provides, what it needs, and how to construct it.
type Descriptor struct {
	// Name is the unique registry key for this node.
	Name string

	// Provides lists the feature names this node computes. Must be non-empty,
	// and no feature may be claimed by two enabled nodes at once.
	Provides []string

	// RequiresFeatures lists feature names this node reads before running.
	// Each one either maps to another node's Provides entry (becoming a
	// dependency edge) or must be seeded into the context by the caller.
	RequiresFeatures []string

	// RequiresResources lists named resources the caller must supply before
	// the run starts. A missing resource fails the node without running it.
	RequiresResources []string

	// Priority breaks ties among nodes that are otherwise free to run in any
	// order; higher runs earlier. Defaults to zero.
	Priority int

	// Enabled excludes the node from default runs when false.
	Enabled bool

	// Group is an informational label (e.g. "history", "quality").
	Group string

	// New constructs the executable node instance.
	New Factory
}
