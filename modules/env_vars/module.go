// Package env_vars provides the 'env_vars' capability: a snapshot of the
// run's environment map, for steps that need to inspect what later
// process-spawning steps will see.
package env_vars

import (
	"context"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type handler struct{}

func (handler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	env := ec.Environment()
	all := make(map[string]any, len(env))
	for k, v := range env {
		all[k] = v
	}
	return map[string]any{"all": all}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("env_vars", handler{})
}
