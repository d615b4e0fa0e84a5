package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/registry"
	"github.com/vk/missiongrid/modules/chain"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	executor *engine.Executor
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Extra modules are registered alongside the core capability set.
func NewApp(outW io.Writer, cfg *Config, extra ...registry.Module) *App {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	exec := engine.New(reg)
	if cfg.TimeoutSeconds > 0 {
		exec.DefaultTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	mods := make([]registry.Module, 0, len(coreModules)+len(extra)+1)
	mods = append(mods, coreModules...)
	mods = append(mods, chain.NewModule(exec))
	mods = append(mods, extra...)
	for _, mod := range mods {
		mod.Register(reg)
	}
	logger.Debug("All capability modules registered.", "count", len(mods), "capabilities", reg.Capabilities())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		executor: exec,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
