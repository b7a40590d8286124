package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/registry"
)

// extractFn adapts a plain function into a feature.Node.
type extractFn func(ctx context.Context, fc feature.Context) (map[string]any, error)

func (f extractFn) Extract(ctx context.Context, fc feature.Context) (map[string]any, error) {
	return f(ctx, fc)
}

type testDesc struct {
	name      string
	provides  []string
	requires  []string
	resources []string
	priority  int
	fn        extractFn
}

func buildRegistry(t *testing.T, descs ...testDesc) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, d := range descs {
		fn := d.fn
		if fn == nil {
			provides := d.provides
			fn = func(ctx context.Context, fc feature.Context) (map[string]any, error) {
				out := make(map[string]any, len(provides))
				for _, p := range provides {
					out[p] = p + "-value"
				}
				return out, nil
			}
		}
		require.NoError(t, r.Register(feature.Descriptor{
			Name:              d.name,
			Provides:          d.provides,
			RequiresFeatures:  d.requires,
			RequiresResources: d.resources,
			Priority:          d.priority,
			Enabled:           true,
			New:               func() feature.Node { return fn },
		}))
	}
	return r
}

func failing(msg string) extractFn {
	return func(ctx context.Context, fc feature.Context) (map[string]any, error) {
		return nil, errors.New(msg)
	}
}

func statusByNode(results []feature.Result) map[string]feature.Status {
	out := make(map[string]feature.Status, len(results))
	for _, res := range results {
		out[res.NodeName] = res.Status
	}
	return out
}

func TestExecute_ChainHappyPath(t *testing.T) {
	r := buildRegistry(t,
		testDesc{name: "a", provides: []string{"x"}},
		testDesc{name: "b", provides: []string{"y"}, requires: []string{"x"}},
		testDesc{name: "c", provides: []string{"z"}, requires: []string{"y"}},
	)

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
	require.NoError(t, err)

	results := ec.Results()
	require.Len(t, results, 3)
	assert.Equal(t, []string{"a", "b", "c"},
		[]string{results[0].NodeName, results[1].NodeName, results[2].NodeName})
	for _, res := range results {
		assert.Equal(t, feature.StatusSuccess, res.Status)
	}
	assert.Equal(t, "x-value", ec.Feature("x", nil))
	assert.Equal(t, "z-value", ec.Feature("z", nil))
}

func TestExecute_SkipPropagation(t *testing.T) {
	// The §8 scenario: A fails, so B and C (its transitive dependents) are
	// skipped, and all three still appear in results.
	r := buildRegistry(t,
		testDesc{name: "a", provides: []string{"x"}, fn: failing("boom")},
		testDesc{name: "b", provides: []string{"y"}, requires: []string{"x"}},
		testDesc{name: "c", provides: []string{"z"}, requires: []string{"y"}},
	)

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
	require.NoError(t, err)

	statuses := statusByNode(ec.Results())
	require.Len(t, statuses, 3)
	assert.Equal(t, feature.StatusFailed, statuses["a"])
	assert.Equal(t, feature.StatusSkipped, statuses["b"])
	assert.Equal(t, feature.StatusSkipped, statuses["c"])

	for _, res := range ec.Results() {
		if res.Status == feature.StatusSkipped {
			assert.NotEmpty(t, res.Warning, "skip must name its cause")
		}
	}
	assert.False(t, ec.HasFeature("x"))
}

func TestExecute_FailureContainment(t *testing.T) {
	// An unrelated branch keeps running past a failure.
	r := buildRegistry(t,
		testDesc{name: "bad", provides: []string{"x"}, fn: failing("boom")},
		testDesc{name: "good", provides: []string{"y"}},
		testDesc{name: "downstream", provides: []string{"z"}, requires: []string{"y"}},
	)

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
	require.NoError(t, err)

	statuses := statusByNode(ec.Results())
	assert.Equal(t, feature.StatusFailed, statuses["bad"])
	assert.Equal(t, feature.StatusSuccess, statuses["good"])
	assert.Equal(t, feature.StatusSuccess, statuses["downstream"])
}

func TestExecute_PanicContainment(t *testing.T) {
	r := buildRegistry(t,
		testDesc{name: "panicky", provides: []string{"x"}, fn: func(ctx context.Context, fc feature.Context) (map[string]any, error) {
			panic("node exploded")
		}},
		testDesc{name: "calm", provides: []string{"y"}},
	)

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, true)
	require.NoError(t, err)

	statuses := statusByNode(ec.Results())
	assert.Equal(t, feature.StatusFailed, statuses["panicky"])
	assert.Equal(t, feature.StatusSuccess, statuses["calm"])

	failedResults := 0
	for _, res := range ec.Results() {
		if res.NodeName == "panicky" {
			failedResults++
			assert.Contains(t, res.Error, "node exploded")
		}
	}
	assert.Equal(t, 1, failedResults, "exactly one result per node")
}

func TestExecute_FailFastBoundary(t *testing.T) {
	var ranSecondLevel bool
	r := buildRegistry(t,
		testDesc{name: "bad", provides: []string{"x"}, fn: failing("boom")},
		testDesc{name: "peer", provides: []string{"y"}},
		testDesc{name: "later", provides: []string{"z"}, requires: []string{"y"},
			fn: func(ctx context.Context, fc feature.Context) (map[string]any, error) {
				ranSecondLevel = true
				return map[string]any{"z": 1}, nil
			}},
	)

	opts := DefaultOptions()
	opts.FailFast = true
	ec, err := New(r, opts).Execute(context.Background(), NewExecutionContext(nil), nil, true)
	require.NoError(t, err)

	statuses := statusByNode(ec.Results())
	require.Len(t, statuses, 2, "level after the failure must never start")
	assert.Equal(t, feature.StatusFailed, statuses["bad"])
	assert.Equal(t, feature.StatusSuccess, statuses["peer"],
		"nodes dispatched alongside the failure still finish and are recorded")
	assert.NotContains(t, statuses, "later")
	assert.False(t, ranSecondLevel)
}

func TestExecute_MissingResourceFailsWithoutRunning(t *testing.T) {
	var ran bool
	r := buildRegistry(t,
		testDesc{name: "needy", provides: []string{"x"}, resources: []string{"git_history"},
			fn: func(ctx context.Context, fc feature.Context) (map[string]any, error) {
				ran = true
				return map[string]any{"x": 1}, nil
			}},
	)

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
	require.NoError(t, err)

	results := ec.Results()
	require.Len(t, results, 1)
	assert.Equal(t, feature.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Error, `required resource "git_history" unavailable`)
	assert.False(t, ran, "node body must not run without its resources")
}

func TestExecute_UnknownNodeFails(t *testing.T) {
	r := buildRegistry(t, testDesc{name: "a", provides: []string{"x"}})

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), []string{"a", "ghost"}, false)
	require.NoError(t, err)

	statuses := statusByNode(ec.Results())
	assert.Equal(t, feature.StatusSuccess, statuses["a"])
	assert.Equal(t, feature.StatusFailed, statuses["ghost"])
}

func TestExecute_SeededFeatureSatisfiesRequirement(t *testing.T) {
	r := buildRegistry(t,
		testDesc{name: "consumer", provides: []string{"out"}, requires: []string{"seeded"},
			fn: func(ctx context.Context, fc feature.Context) (map[string]any, error) {
				return map[string]any{"out": fc.Feature("seeded", nil)}, nil
			}},
	)

	ec := NewExecutionContext(nil)
	ec.SeedFeature("seeded", "from-caller")

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), ec, nil, false)
	require.NoError(t, err)
	assert.Equal(t, feature.StatusSuccess, ec.Results()[0].Status)
	assert.Equal(t, "from-caller", ec.Feature("out", nil))
}

func TestExecute_RequireSeededFeaturesPolicy(t *testing.T) {
	mk := func() *registry.Registry {
		return buildRegistry(t,
			testDesc{name: "consumer", provides: []string{"out"}, requires: []string{"never_provided"}},
		)
	}

	t.Run("default runs anyway", func(t *testing.T) {
		ec, err := New(mk(), DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
		require.NoError(t, err)
		assert.Equal(t, feature.StatusSuccess, ec.Results()[0].Status)
	})

	t.Run("strict fails up front", func(t *testing.T) {
		opts := DefaultOptions()
		opts.RequireSeededFeatures = true
		ec, err := New(mk(), opts).Execute(context.Background(), NewExecutionContext(nil), nil, false)
		require.NoError(t, err)

		res := ec.Results()[0]
		assert.Equal(t, feature.StatusFailed, res.Status)
		assert.Contains(t, res.Error, `required feature "never_provided"`)
	})
}

func TestExecute_MissingDeclaredFeatureWarns(t *testing.T) {
	r := buildRegistry(t,
		testDesc{name: "partial", provides: []string{"x", "y"},
			fn: func(ctx context.Context, fc feature.Context) (map[string]any, error) {
				return map[string]any{"x": 1.0}, nil
			}},
	)

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
	require.NoError(t, err)

	res := ec.Results()[0]
	assert.Equal(t, feature.StatusSuccess, res.Status, "an omitted feature degrades, it does not fail")
	assert.Contains(t, res.Warning, "declared features not returned: y")
	assert.True(t, ec.HasFeature("x"))
	assert.False(t, ec.HasFeature("y"))
}

func TestExecute_CycleIsConfigurationFatal(t *testing.T) {
	r := buildRegistry(t,
		testDesc{name: "a", provides: []string{"x"}, requires: []string{"y"}},
		testDesc{name: "b", provides: []string{"y"}, requires: []string{"x"}},
	)

	_, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestExecute_ParallelDispatchOverlaps(t *testing.T) {
	// Two independent sleepers at level 0 must overlap in time with two
	// workers, yet their results must come back in (priority, name) order.
	type window struct{ start, end time.Time }
	var mu sync.Mutex
	windows := make(map[string]window)

	sleeper := func(name string) extractFn {
		return func(ctx context.Context, fc feature.Context) (map[string]any, error) {
			start := time.Now()
			time.Sleep(100 * time.Millisecond)
			mu.Lock()
			windows[name] = window{start: start, end: time.Now()}
			mu.Unlock()
			return map[string]any{name + "_done": true}, nil
		}
	}

	r := buildRegistry(t,
		testDesc{name: "bbb", provides: []string{"bbb_done"}, fn: sleeper("bbb")},
		testDesc{name: "aaa", provides: []string{"aaa_done"}, fn: sleeper("aaa")},
	)

	opts := DefaultOptions()
	opts.MaxWorkers = 2
	ec, err := New(r, opts).Execute(context.Background(), NewExecutionContext(nil), nil, true)
	require.NoError(t, err)

	results := ec.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "aaa", results[0].NodeName, "result order is deterministic, not completion order")
	assert.Equal(t, "bbb", results[1].NodeName)

	a, b := windows["aaa"], windows["bbb"]
	assert.True(t, a.start.Before(b.end) && b.start.Before(a.end),
		"independent level-0 nodes should run concurrently")
}

func TestExecute_DeterministicResultOrder(t *testing.T) {
	run := func() []string {
		high := testDesc{name: "zz", provides: []string{"hz"}, priority: 9}
		r := buildRegistry(t,
			testDesc{name: "mm", provides: []string{"m"}},
			testDesc{name: "aa", provides: []string{"a"}},
			high,
			testDesc{name: "kid", provides: []string{"k"}, requires: []string{"a"}},
		)
		ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, true)
		require.NoError(t, err)

		var names []string
		for _, res := range ec.Results() {
			names = append(names, res.NodeName)
		}
		return names
	}

	first := run()
	assert.Equal(t, []string{"zz", "aa", "mm", "kid"}, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run())
	}
}

func TestExecute_DurationRecorded(t *testing.T) {
	r := buildRegistry(t,
		testDesc{name: "sleepy", provides: []string{"x"}, fn: func(ctx context.Context, fc feature.Context) (map[string]any, error) {
			time.Sleep(20 * time.Millisecond)
			return map[string]any{"x": 1}, nil
		}},
	)

	ec, err := New(r, DefaultOptions()).Execute(context.Background(), NewExecutionContext(nil), nil, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ec.Results()[0].DurationMillis, 20.0)
}
