// Package buildmeta extracts basic timing and outcome features from the
// caller-provided build record.
package buildmeta

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the build_meta node with the engine.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(feature.Descriptor{
		Name:  "build_meta",
		Group: "build",
		Provides: []string{
			"build_duration_seconds",
			"build_queue_seconds",
			"build_succeeded",
		},
		RequiresResources: []string{"build_record"},
		Priority:          20,
		Enabled:           true,
		New:               func() feature.Node { return &node{} },
	})
}

type node struct{}

func (n *node) Extract(ctx context.Context, fc feature.Context) (map[string]any, error) {
	raw, _ := fc.Resource("build_record")
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("build_record resource is %T, want map", raw)
	}

	duration, ok := asFloat(rec["duration_seconds"])
	if !ok {
		return nil, fmt.Errorf("build_record missing numeric duration_seconds")
	}
	queue, _ := asFloat(rec["queue_seconds"])
	status, _ := rec["status"].(string)

	return map[string]any{
		"build_duration_seconds": duration,
		"build_queue_seconds":    queue,
		"build_succeeded":        status == "passed",
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
