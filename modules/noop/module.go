// Package noop provides the 'noop' capability: a step that does nothing,
// useful for wiring dependency shapes in tests and fixtures.
package noop

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
	return map[string]any{"message": "no operation performed"}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("noop", handler{})
}
