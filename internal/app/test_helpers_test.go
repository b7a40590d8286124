package app

import (
	"context"

	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/registry"
)

type noopNode struct{}

func (noopNode) Extract(ctx context.Context, fc feature.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

// collidingModule registers a node claiming a feature another instance of it
// already provides, to exercise startup collision handling.
type collidingModule struct {
	name string
}

func (m collidingModule) Register(r *registry.Registry) error {
	return r.Register(feature.Descriptor{
		Name:     m.name,
		Provides: []string{"same_feature"},
		Enabled:  true,
		New:      func() feature.Node { return noopNode{} },
	})
}
