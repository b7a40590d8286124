package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
	"github.com/featuregrid/featuregrid/internal/dag"
	"github.com/featuregrid/featuregrid/internal/feature"
)

// runNode resolves preconditions for a single node, runs its body, and
// converts every outcome, including panics, into exactly one Result. It is
// called from the orchestrating goroutine or a level worker; it never
// mutates ec.
func (e *Executor) runNode(ctx context.Context, ec *ExecutionContext, graph *dag.Graph, name string, failed map[string]struct{}) feature.Result {
	logger := ctxlog.FromContext(ctx).With("node", name)

	if e.opts.SkipOnDependencyFailure {
		var blocked []string
		for _, dep := range graph.DependenciesOf(name) {
			if _, bad := failed[dep]; bad {
				blocked = append(blocked, dep)
			}
		}
		if len(blocked) > 0 {
			logger.Debug("Skipping node, upstream failure.", "dependencies", blocked)
			return feature.Result{
				NodeName: name,
				Status:   feature.StatusSkipped,
				Warning:  "skipped: dependency failure of " + strings.Join(blocked, ", "),
			}
		}
	}

	desc, ok := e.reg.Get(name)
	if !ok {
		return feature.Result{
			NodeName: name,
			Status:   feature.StatusFailed,
			Error:    "node not found in registry",
		}
	}

	for _, res := range desc.RequiresResources {
		if !ec.HasResource(res) {
			return feature.Result{
				NodeName: name,
				Status:   feature.StatusFailed,
				Error:    fmt.Sprintf("required resource %q unavailable", res),
			}
		}
	}

	for _, f := range desc.RequiresFeatures {
		if ec.HasFeature(f) {
			continue
		}
		provider, known := e.reg.Provider(f)
		if known {
			if _, bad := failed[provider]; bad {
				// Provider can sit outside the run's node set (narrowed
				// re-runs), so the dependency check above may not have
				// caught this.
				return feature.Result{
					NodeName: name,
					Status:   feature.StatusSkipped,
					Warning:  fmt.Sprintf("skipped: feature %q provider %q failed", f, provider),
				}
			}
			continue
		}
		if e.opts.RequireSeededFeatures {
			return feature.Result{
				NodeName: name,
				Status:   feature.StatusFailed,
				Error:    fmt.Sprintf("required feature %q has no provider and was not seeded", f),
			}
		}
		// The feature may be satisfiable by the node itself or genuinely
		// optional; run and let the body decide.
		logger.Debug("Required feature absent with no provider, running anyway.", "feature", f)
	}

	logger.Debug("Running node.")
	start := time.Now()
	feats, err := extract(ctx, desc.New(), ec)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		return feature.Result{
			NodeName:       name,
			Status:         feature.StatusFailed,
			Error:          err.Error(),
			DurationMillis: elapsed,
		}
	}

	res := feature.Result{
		NodeName:       name,
		Status:         feature.StatusSuccess,
		Features:       feats,
		DurationMillis: elapsed,
	}
	if missing := missingDeclared(desc.Provides, feats); len(missing) > 0 {
		// Success with a hole: surfaces an incomplete node implementation
		// without aborting the pipeline.
		res.Warning = "declared features not returned: " + strings.Join(missing, ", ")
	}
	logger.Debug("Node finished.", "features", len(feats), "duration_ms", elapsed)
	return res
}

// extract invokes the node body, converting a panic into an ordinary error
// so a single broken node can never take down the run.
func extract(ctx context.Context, n feature.Node, fc feature.Context) (feats map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			feats = nil
			err = fmt.Errorf("node panicked: %v", r)
		}
	}()
	return n.Extract(ctx, fc)
}

// missingDeclared returns declared feature names absent from the returned
// map, in declaration order.
func missingDeclared(declared []string, returned map[string]any) []string {
	var missing []string
	for _, f := range declared {
		if _, ok := returned[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
