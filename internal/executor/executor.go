package executor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
	"github.com/featuregrid/featuregrid/internal/dag"
	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/metrics"
	"github.com/featuregrid/featuregrid/internal/registry"
)

// Options configures an Executor.
type Options struct {
	// MaxWorkers bounds concurrent node bodies within a level. Values below
	// one are treated as one.
	MaxWorkers int

	// FailFast stops scheduling further levels once any node in the current
	// level fails. Nodes already dispatched in that level still finish and
	// are recorded.
	FailFast bool

	// SkipOnDependencyFailure marks a node Skipped, without running it, when
	// a direct dependency failed or was itself skipped.
	SkipOnDependencyFailure bool

	// RequireSeededFeatures fails a node up front when one of its required
	// features is absent from the context and no enabled node provides it.
	// When false (the default) the node runs anyway, on the assumption that
	// it can cope with the missing input itself.
	RequireSeededFeatures bool
}

// DefaultOptions returns the executor defaults: four workers, skip
// propagation on, fail-fast off.
func DefaultOptions() Options {
	return Options{
		MaxWorkers:              4,
		SkipOnDependencyFailure: true,
	}
}

// Executor schedules feature nodes from a registry over an execution context.
// It is stateless across runs and safe to reuse.
type Executor struct {
	reg  *registry.Registry
	opts Options
}

// New creates an Executor over the given registry.
func New(reg *registry.Registry, opts Options) *Executor {
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	return &Executor{reg: reg, opts: opts}
}

// Execute runs the requested nodes (nil means all enabled) against ec and
// returns ec with results, warnings, and merged features.
//
// The only error conditions are configuration-fatal graph failures (cycles,
// internal ordering violations), surfaced before any node runs. Everything
// else (missing resources, node errors, panics) is contained per node and
// recorded in the context.
func (e *Executor) Execute(ctx context.Context, ec *ExecutionContext, names []string, parallel bool) (*ExecutionContext, error) {
	logger := ctxlog.FromContext(ctx).With("run_id", ec.RunID())

	graph, err := dag.Build(ctx, e.reg, names)
	if err != nil {
		return nil, err
	}
	logger.Debug("Graph ready.", "nodes", graph.Len(), "parallel", parallel)

	// failed accumulates the names of failed and skipped nodes; both block
	// their dependents.
	failed := make(map[string]struct{})

	for _, level := range graph.Levels() {
		logger.Debug("Running level.", "level", level.Level, "nodes", len(level.Nodes))
		results := e.runLevel(ctx, ec, graph, level, failed, parallel)
		metrics.Levels.Inc()

		levelFailed := false
		// Fold on the orchestrating goroutine only, in the level's
		// deterministic node order regardless of completion order.
		for _, res := range results {
			ec.AddResult(res)
			metrics.ObserveResult(res)
			if res.Warning != "" {
				ec.AddWarning(res.NodeName + ": " + res.Warning)
			}
			switch res.Status {
			case feature.StatusSuccess:
				ec.MergeFeatures(res.Features)
			case feature.StatusFailed:
				logger.Warn("Node failed.", "node", res.NodeName, "error", res.Error)
				failed[res.NodeName] = struct{}{}
				levelFailed = true
			case feature.StatusSkipped:
				failed[res.NodeName] = struct{}{}
			}
		}

		if e.opts.FailFast && levelFailed {
			logger.Warn("Fail-fast triggered, halting run.", "level", level.Level)
			return ec, nil
		}
	}
	return ec, nil
}

// runLevel dispatches every node in the level and joins them all before
// returning. Results come back indexed by the level's node order, never by
// completion order. Node bodies read ec but never mutate it.
func (e *Executor) runLevel(ctx context.Context, ec *ExecutionContext, graph *dag.Graph, level dag.ExecutionLevel, failed map[string]struct{}, parallel bool) []feature.Result {
	results := make([]feature.Result, len(level.Nodes))

	if !parallel || len(level.Nodes) < 2 {
		for i, name := range level.Nodes {
			results[i] = e.runNode(ctx, ec, graph, name, failed)
		}
		return results
	}

	var grp errgroup.Group
	grp.SetLimit(e.opts.MaxWorkers)
	for i, name := range level.Nodes {
		grp.Go(func() error {
			results[i] = e.runNode(ctx, ec, graph, name, failed)
			return nil
		})
	}
	// runNode never returns an error; the group exists for the bounded
	// fan-out and the join.
	_ = grp.Wait()
	return results
}
