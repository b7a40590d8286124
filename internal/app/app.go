package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/featuregrid/featuregrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	cfg      *Config
}

// NewApp constructs the application with its own isolated logger and
// registry. With no explicit modules, the compiled-in core modules are
// registered. A registration failure (empty provides, provider collision) is
// a fatal configuration error.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		if err := mod.Register(reg); err != nil {
			return nil, fmt.Errorf("registering module: %w", err)
		}
	}
	logger.Debug("All feature node modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		cfg:      cfg,
	}, nil
}

// Registry exposes the app's node catalog, primarily for tests and tooling.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
