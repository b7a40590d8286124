package executor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/featuregrid/featuregrid/internal/feature"
)

// ExecutionContext is the run-scoped shared state: caller-provided resources
// (immutable for the run), the feature store, and the warning and result
// logs. It is created per run, handed to Execute, and read by the caller
// afterwards; the engine never persists it.
//
// Mutating methods are called only from the executor's orchestrating
// goroutine, after each level's join. Node bodies see it through the
// read-only feature.Context interface.
type ExecutionContext struct {
	runID     string
	resources map[string]any
	features  map[string]any
	warnings  []string
	results   []feature.Result
}

// NewExecutionContext creates a context for one extraction run, seeded with
// the caller's named resources.
func NewExecutionContext(resources map[string]any) *ExecutionContext {
	c := &ExecutionContext{
		runID:     uuid.NewString(),
		resources: make(map[string]any, len(resources)),
		features:  make(map[string]any),
	}
	for name, r := range resources {
		c.resources[name] = r
	}
	return c
}

// RunID returns the unique identifier of this run.
func (c *ExecutionContext) RunID() string { return c.runID }

// HasResource reports whether a named resource was provided for this run.
func (c *ExecutionContext) HasResource(name string) bool {
	_, ok := c.resources[name]
	return ok
}

// Resource returns the named resource, or false if absent.
func (c *ExecutionContext) Resource(name string) (any, bool) {
	r, ok := c.resources[name]
	return r, ok
}

// HasFeature reports whether a feature has been merged or seeded.
func (c *ExecutionContext) HasFeature(name string) bool {
	_, ok := c.features[name]
	return ok
}

// Feature returns the named feature value, or def if absent.
func (c *ExecutionContext) Feature(name string, def any) any {
	if v, ok := c.features[name]; ok {
		return v
	}
	return def
}

// SeedFeature writes a feature value before the run starts, satisfying a
// required feature without involving its provider node.
func (c *ExecutionContext) SeedFeature(name string, value any) {
	c.features[name] = value
}

// MergeFeatures folds a successful node's returned features into the store.
// Each feature name is expected to be written at most once per run;
// re-writing an existing name indicates a registry or graph misconfiguration
// and is recorded as a warning rather than silently accepted. The new value
// still wins, matching the merge order of the schedule.
func (c *ExecutionContext) MergeFeatures(features map[string]any) {
	for name, v := range features {
		if _, exists := c.features[name]; exists {
			c.AddWarning(fmt.Sprintf("feature %q written more than once, keeping latest value", name))
		}
		c.features[name] = v
	}
}

// AddWarning appends to the run's warning log.
func (c *ExecutionContext) AddWarning(msg string) {
	c.warnings = append(c.warnings, msg)
}

// AddResult appends a node result to the run's audit trail.
func (c *ExecutionContext) AddResult(res feature.Result) {
	c.results = append(c.results, res)
}

// Features returns a copy of the merged feature store.
func (c *ExecutionContext) Features() map[string]any {
	out := make(map[string]any, len(c.features))
	for name, v := range c.features {
		out[name] = v
	}
	return out
}

// Warnings returns a copy of the accumulated warnings in append order.
func (c *ExecutionContext) Warnings() []string {
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Results returns a copy of the per-node results in schedule order.
func (c *ExecutionContext) Results() []feature.Result {
	out := make([]feature.Result, len(c.results))
	copy(out, c.results)
	return out
}

// compile-time check: node bodies read the context through feature.Context.
var _ feature.Context = (*ExecutionContext)(nil)
