package registry

import (
	"fmt"

	"github.com/featuregrid/featuregrid/internal/feature"
)

// Module is the interface a built-in node package implements to register its
// descriptors with the engine.
type Module interface {
	Register(r *Registry) error
}

// Registry is an ordered, name-keyed catalog of feature node descriptors for
// a single application instance.
type Registry struct {
	nodes map[string]feature.Descriptor
	// order preserves first-registration order for deterministic scans.
	order []string
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{
		nodes: make(map[string]feature.Descriptor),
	}
}

// Register adds a node descriptor, or replaces the existing descriptor with
// the same name while keeping its original position in scan order.
//
// It rejects descriptors with no name, no provided features, or no factory,
// and rejects provider collisions: two distinct enabled nodes must never
// both claim to provide the same feature, since the graph builder would
// silently treat the first-seen one as authoritative.
func (r *Registry) Register(d feature.Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("node descriptor has no name")
	}
	if len(d.Provides) == 0 {
		return fmt.Errorf("node %q provides no features", d.Name)
	}
	if d.New == nil {
		return fmt.Errorf("node %q has no factory", d.Name)
	}

	if d.Enabled {
		for _, f := range d.Provides {
			owner, ok := r.Provider(f)
			if ok && owner != d.Name {
				return fmt.Errorf("feature %q already provided by enabled node %q, cannot register %q", f, owner, d.Name)
			}
		}
	}

	if _, exists := r.nodes[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.nodes[d.Name] = d
	return nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (feature.Descriptor, bool) {
	d, ok := r.nodes[name]
	return d, ok
}

// All returns a name-keyed copy of the registered descriptors, optionally
// restricted to enabled nodes.
func (r *Registry) All(enabledOnly bool) map[string]feature.Descriptor {
	out := make(map[string]feature.Descriptor, len(r.nodes))
	for name, d := range r.nodes {
		if enabledOnly && !d.Enabled {
			continue
		}
		out[name] = d
	}
	return out
}

// Names returns node names in registration order, optionally restricted to
// enabled nodes.
func (r *Registry) Names(enabledOnly bool) []string {
	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if enabledOnly && !r.nodes[name].Enabled {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Provider returns the name of the first enabled node, in registration
// order, whose Provides set contains featureName.
func (r *Registry) Provider(featureName string) (string, bool) {
	for _, name := range r.order {
		d := r.nodes[name]
		if !d.Enabled {
			continue
		}
		for _, f := range d.Provides {
			if f == featureName {
				return name, true
			}
		}
	}
	return "", false
}

// SetEnabled flips a node's enabled flag in place. It reports whether the
// node exists. Used by extraction profiles before a run starts.
func (r *Registry) SetEnabled(name string, enabled bool) bool {
	d, ok := r.nodes[name]
	if !ok {
		return false
	}
	d.Enabled = enabled
	r.nodes[name] = d
	return true
}

// SetPriority overrides a node's priority in place. It reports whether the
// node exists. Used by extraction profiles before a run starts.
func (r *Registry) SetPriority(name string, priority int) bool {
	d, ok := r.nodes[name]
	if !ok {
		return false
	}
	d.Priority = priority
	r.nodes[name] = d
	return true
}
