// Package gitstats walks the caller-provided commit history and produces the
// git-history features other nodes build on (notably commit_shas).
package gitstats

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the git_stats node with the engine.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(feature.Descriptor{
		Name:  "git_stats",
		Group: "history",
		Provides: []string{
			"commit_count",
			"author_count",
			"commit_shas",
		},
		RequiresResources: []string{"git_history"},
		Priority:          30,
		Enabled:           true,
		New:               func() feature.Node { return &node{} },
	})
}

type node struct{}

func (n *node) Extract(ctx context.Context, fc feature.Context) (map[string]any, error) {
	raw, _ := fc.Resource("git_history")
	history, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("git_history resource is %T, want map", raw)
	}
	commits, ok := history["commits"].([]any)
	if !ok {
		return nil, fmt.Errorf("git_history missing commits list")
	}

	authors := make(map[string]struct{})
	shas := make([]any, 0, len(commits))
	for i, c := range commits {
		commit, ok := c.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("commit %d is %T, want map", i, c)
		}
		sha, _ := commit["sha"].(string)
		if sha == "" {
			return nil, fmt.Errorf("commit %d has no sha", i)
		}
		shas = append(shas, sha)
		if author, _ := commit["author"].(string); author != "" {
			authors[author] = struct{}{}
		}
	}

	return map[string]any{
		"commit_count": float64(len(commits)),
		"author_count": float64(len(authors)),
		"commit_shas":  shas,
	}, nil
}
