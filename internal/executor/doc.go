// Package executor runs a dependency graph of feature nodes level by level.
//
// Concurrency model: coarse-grained parallelism within a level, strict
// sequencing across levels. A level's nodes are dispatched together (serially
// or through a bounded goroutine pool) and joined before any result is folded
// into the execution context; the next level never starts until the fold
// completes. All context mutation happens on the orchestrating goroutine,
// strictly after the join, so node bodies need no locks; they receive the
// context for reading only.
//
// Failure is contained per node: a body returning an error or panicking
// yields exactly one failed result, dependents are skipped (not failed), and
// unrelated nodes keep running. FailFast stops scheduling at the level
// boundary; nodes already dispatched in the failing level always finish and
// are recorded.
package executor
