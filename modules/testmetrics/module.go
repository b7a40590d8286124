// Package testmetrics derives test-suite features from the caller-provided
// test report, normalized against the build duration computed upstream.
package testmetrics

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the test_metrics node with the engine.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(feature.Descriptor{
		Name:  "test_metrics",
		Group: "tests",
		Provides: []string{
			"test_count",
			"test_failure_rate",
			"tests_per_minute",
		},
		RequiresFeatures:  []string{"build_duration_seconds"},
		RequiresResources: []string{"test_report"},
		Priority:          10,
		Enabled:           true,
		New:               func() feature.Node { return &node{} },
	})
}

type node struct{}

func (n *node) Extract(ctx context.Context, fc feature.Context) (map[string]any, error) {
	raw, _ := fc.Resource("test_report")
	report, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("test_report resource is %T, want map", raw)
	}

	total, ok := asFloat(report["total"])
	if !ok {
		return nil, fmt.Errorf("test_report missing numeric total")
	}
	failedCount, _ := asFloat(report["failed"])

	failureRate := 0.0
	if total > 0 {
		failureRate = failedCount / total
	}

	perMinute := 0.0
	duration, _ := asFloat(fc.Feature("build_duration_seconds", 0.0))
	if duration > 0 {
		perMinute = total / (duration / 60)
	}

	return map[string]any{
		"test_count":        total,
		"test_failure_rate": failureRate,
		"tests_per_minute":  perMinute,
	}, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
