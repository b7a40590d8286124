// Package dag builds and analyzes the dependency graph of an extraction run.
//
// The graph is derived from a registry snapshot: for every node that requires
// a feature provided by another node in the run, a dependency edge is added.
// Construction validates acyclicity (with full cycle-path diagnostics) and
// precomputes a flat topological order plus a partition into execution
// levels, both with deterministic (priority, then name) tie-breaking so that
// identical inputs always schedule identically.
//
// A required feature with no known provider is not a build error: the caller
// may have seeded that feature directly into the execution context. Whether
// that case is tolerated at run time is the executor's policy, not the
// graph's.
package dag
