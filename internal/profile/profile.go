// Package profile loads YAML extraction profiles. A profile narrows a run to
// a node subset and tweaks the registry before the graph is built. The
// usual case is re-running only the nodes that failed or were skipped last
// time, once the underlying cause (say, a missing resource) is fixed:
//
//	name: retry-history
//	nodes: [git_stats, discussion_metrics]
//	disable: [sonar_scan]
//	priorities:
//	  git_stats: 50
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/featuregrid/featuregrid/internal/registry"
)

// Profile is a named node-selection and registry-override set.
type Profile struct {
	Name string `yaml:"name"`
	// Nodes restricts the run to these node names; empty means all enabled.
	Nodes []string `yaml:"nodes"`
	// Disable flips the listed nodes off before the run.
	Disable []string `yaml:"disable"`
	// Priorities overrides node priorities by name.
	Priorities map[string]int `yaml:"priorities"`
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile %s: missing name", path)
	}
	return &p, nil
}

// Apply mutates the registry per the profile and returns the node subset to
// run (nil when the profile does not narrow the set). Unknown node names are
// an error: a typo in a retry profile should not silently run everything.
func (p *Profile) Apply(reg *registry.Registry) ([]string, error) {
	for _, name := range p.Disable {
		if !reg.SetEnabled(name, false) {
			return nil, fmt.Errorf("profile %s: disable: unknown node %q", p.Name, name)
		}
	}
	for name, prio := range p.Priorities {
		if !reg.SetPriority(name, prio) {
			return nil, fmt.Errorf("profile %s: priorities: unknown node %q", p.Name, name)
		}
	}
	for _, name := range p.Nodes {
		if _, ok := reg.Get(name); !ok {
			return nil, fmt.Errorf("profile %s: nodes: unknown node %q", p.Name, name)
		}
	}
	return p.Nodes, nil
}
