package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
)

// Pipeline is the decoded, format-agnostic form of a manifest.
type Pipeline struct {
	// Nodes restricts the run to these node names; empty means all enabled.
	Nodes []string
	// Parallel dispatches each level through the worker pool.
	Parallel bool
	// FailFast stops scheduling levels after the first failure.
	FailFast bool
	// Workers bounds per-level concurrency; zero defers to the CLI default.
	Workers int
	// Resources are named opaque values seeded into the execution context.
	Resources map[string]any
	// Seeds are feature values written into the context before the run.
	Seeds map[string]any
}

type manifestFile struct {
	Extraction *extractionBlock `hcl:"extraction,block"`
	Resources  []valueBlock     `hcl:"resource,block"`
	Seeds      []valueBlock     `hcl:"seed,block"`
}

type extractionBlock struct {
	Nodes    []string `hcl:"nodes,optional"`
	Parallel bool     `hcl:"parallel,optional"`
	FailFast bool     `hcl:"fail_fast,optional"`
	Workers  int      `hcl:"workers,optional"`
}

type valueBlock struct {
	Name  string    `hcl:"name,label"`
	Value cty.Value `hcl:"value"`
}

// Load parses and decodes a single manifest file.
func Load(ctx context.Context, path string) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pipeline manifest.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, diags)
	}

	var m manifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, diags)
	}

	p := &Pipeline{
		Resources: make(map[string]any),
		Seeds:     make(map[string]any),
	}
	if m.Extraction != nil {
		p.Nodes = m.Extraction.Nodes
		p.Parallel = m.Extraction.Parallel
		p.FailFast = m.Extraction.FailFast
		p.Workers = m.Extraction.Workers
	}

	for _, r := range m.Resources {
		if _, dup := p.Resources[r.Name]; dup {
			return nil, fmt.Errorf("manifest %s: duplicate resource %q", path, r.Name)
		}
		v, err := fromCty(r.Value)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: resource %q: %w", path, r.Name, err)
		}
		p.Resources[r.Name] = v
	}
	for _, s := range m.Seeds {
		if _, dup := p.Seeds[s.Name]; dup {
			return nil, fmt.Errorf("manifest %s: duplicate seed %q", path, s.Name)
		}
		v, err := fromCty(s.Value)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: seed %q: %w", path, s.Name, err)
		}
		p.Seeds[s.Name] = v
	}

	logger.Debug("Pipeline manifest loaded.",
		"nodes", len(p.Nodes), "resources", len(p.Resources), "seeds", len(p.Seeds))
	return p, nil
}
