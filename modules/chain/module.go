// Package chain provides the 'chain' capability: an embedded, strictly
// sequential sub-workflow executed through the engine's single-step entry
// point, with scoped variable propagation back into the parent run.
package chain

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
)

// Runner is the narrow slice of the engine the chain handler calls back
// into. *engine.Executor satisfies it.
type Runner interface {
	RunChain(ctx context.Context, chainID string, subSteps []engine.ChainSubStep, parent *engine.Context) (string, error)
}

// Module implements the registry.Module interface for this package.
type Module struct {
	runner Runner
}

// NewModule creates the chain module bound to the engine that will execute
// its sub-steps.
func NewModule(runner Runner) *Module {
	return &Module{runner: runner}
}

type handler struct {
	runner Runner
}

func (h handler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	raw, ok := step.Parameters["steps"]
	if !ok {
		return nil, fmt.Errorf("chain step requires a 'steps' array parameter")
	}

	var subSteps []engine.ChainSubStep
	if err := mapstructure.Decode(raw, &subSteps); err != nil {
		return nil, fmt.Errorf("invalid chain steps format: %w", err)
	}
	if len(subSteps) == 0 {
		return nil, fmt.Errorf("chain step requires at least one sub-step")
	}

	chainID := "chain_" + step.ID
	result, err := h.runner.RunChain(ctx, chainID, subSteps, ec)
	if err != nil {
		return nil, err
	}

	ec.SetVariable(step.ID+"_result", result)
	return map[string]any{"type": "chain", "result": result}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("chain", handler{runner: m.runner})
}
