package app

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
	"github.com/featuregrid/featuregrid/internal/executor"
	"github.com/featuregrid/featuregrid/internal/feature"
	"github.com/featuregrid/featuregrid/internal/hcl"
	"github.com/featuregrid/featuregrid/internal/profile"
)

// Run executes one extraction run end to end and writes a summary to the
// app's output writer. It returns an error only for configuration-fatal
// problems (bad manifest, bad profile, dependency cycle); node failures are
// part of the summary, not errors.
func (a *App) Run(ctx context.Context) error {
	ec, err := a.Execute(ctx)
	if err != nil {
		return err
	}
	a.printSummary(ec)
	return nil
}

// Execute performs the run and returns the final execution context.
func (a *App) Execute(ctx context.Context) (*executor.ExecutionContext, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App run started.")

	if a.cfg.HealthPort > 0 {
		a.startHealthServer(a.cfg.HealthPort)
	}

	pipe := &hcl.Pipeline{
		Parallel: a.cfg.Parallel,
		FailFast: a.cfg.FailFast,
	}
	if a.cfg.PipelinePath != "" {
		loaded, err := hcl.Load(ctx, a.cfg.PipelinePath)
		if err != nil {
			return nil, err
		}
		pipe = loaded
	}

	names := pipe.Nodes
	if a.cfg.ProfilePath != "" {
		prof, err := profile.Load(a.cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		subset, err := prof.Apply(a.registry)
		if err != nil {
			return nil, err
		}
		if len(subset) > 0 {
			names = subset
		}
		a.logger.Info("Extraction profile applied.", "profile", prof.Name, "nodes", len(subset))
	}

	workers := pipe.Workers
	if workers <= 0 {
		workers = a.cfg.Workers
	}

	ec := executor.NewExecutionContext(pipe.Resources)
	for name, v := range pipe.Seeds {
		ec.SeedFeature(name, v)
	}

	exec := executor.New(a.registry, executor.Options{
		MaxWorkers:              workers,
		FailFast:                pipe.FailFast || a.cfg.FailFast,
		SkipOnDependencyFailure: true,
	})

	a.logger.Info("Starting extraction run.",
		"run_id", ec.RunID(), "parallel", pipe.Parallel || a.cfg.Parallel, "workers", workers)
	ec, err := exec.Execute(ctx, ec, names, pipe.Parallel || a.cfg.Parallel)
	if err != nil {
		return nil, fmt.Errorf("extraction run failed: %w", err)
	}
	a.logger.Info("Extraction run finished.", "run_id", ec.RunID())
	return ec, nil
}

// printSummary renders the run's audit trail for the CLI user.
func (a *App) printSummary(ec *executor.ExecutionContext) {
	results := ec.Results()
	var ok, failed, skipped int
	for _, res := range results {
		switch res.Status {
		case feature.StatusSuccess:
			ok++
		case feature.StatusFailed:
			failed++
		case feature.StatusSkipped:
			skipped++
		}
	}

	fmt.Fprintf(a.outW, "run %s: %d nodes (%d succeeded, %d failed, %d skipped), %d features\n",
		ec.RunID(), len(results), ok, failed, skipped, len(ec.Features()))
	for _, res := range results {
		switch res.Status {
		case feature.StatusSuccess:
			fmt.Fprintf(a.outW, "  ok      %-24s %6.1fms\n", res.NodeName, res.DurationMillis)
		case feature.StatusFailed:
			fmt.Fprintf(a.outW, "  failed  %-24s %s\n", res.NodeName, res.Error)
		case feature.StatusSkipped:
			fmt.Fprintf(a.outW, "  skipped %-24s %s\n", res.NodeName, res.Warning)
		}
	}
	for _, w := range ec.Warnings() {
		fmt.Fprintf(a.outW, "  warning: %s\n", w)
	}
}
