// Package print provides the 'print' capability: it writes an interpolated
// message to stdout and stores it as the step's result variable.
package print

import (
	"context"
	"fmt"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type handler struct{}

func (handler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	message, ok := step.Parameters["message"].(string)
	if !ok {
		return nil, fmt.Errorf("missing 'message' parameter")
	}

	fmt.Println(message)

	ec.SetVariable(step.ID+"_result", message)
	return message, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("print", handler{})
}
