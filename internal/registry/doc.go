// Package registry provides the process-wide catalog of feature nodes.
//
// The Registry maps node names to their descriptors (provided features,
// required features and resources, priority, enabled flag, factory). It is
// a pure lookup table: the dependency graph in the dag package is derived
// from it, but the registry itself holds no graph logic.
//
// The registry is populated once at application startup, before any
// extraction run begins, and is read-only afterwards. Registration order is
// preserved so that provider lookups and graph construction are
// deterministic across runs.
package registry
