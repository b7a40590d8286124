// Package discussion measures review activity for the commits selected by
// git_stats, using the caller-provided review thread counts.
package discussion

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the discussion_metrics node with the engine.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(feature.Descriptor{
		Name:  "discussion_metrics",
		Group: "discussion",
		Provides: []string{
			"discussion_comment_count",
			"discussed_commit_ratio",
		},
		RequiresFeatures:  []string{"commit_shas"},
		RequiresResources: []string{"review_threads"},
		Enabled:           true,
		New:               func() feature.Node { return &node{} },
	})
}

type node struct{}

func (n *node) Extract(ctx context.Context, fc feature.Context) (map[string]any, error) {
	raw, _ := fc.Resource("review_threads")
	threads, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("review_threads resource is %T, want map", raw)
	}
	shas, ok := fc.Feature("commit_shas", nil).([]any)
	if !ok {
		return nil, fmt.Errorf("commit_shas feature missing or not a list")
	}

	total := 0.0
	discussed := 0
	for _, s := range shas {
		sha, _ := s.(string)
		count, ok := asFloat(threads[sha])
		if !ok || count == 0 {
			continue
		}
		total += count
		discussed++
	}

	ratio := 0.0
	if len(shas) > 0 {
		ratio = float64(discussed) / float64(len(shas))
	}

	return map[string]any{
		"discussion_comment_count": total,
		"discussed_commit_ratio":   ratio,
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
