package chain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
	"github.com/vk/missiongrid/internal/testutil"
	"github.com/vk/missiongrid/modules/chain"
)

// newChainEngine wires a registry, an executor and the chain module the way
// the application does, plus the given extra stub capabilities.
func newChainEngine(t *testing.T, stubs map[string]*testutil.StubHandler) (*engine.Executor, *registry.Registry) {
	t.Helper()
	r := registry.New()
	exec := engine.New(r)
	chain.NewModule(exec).Register(r)
	for tag, h := range stubs {
		r.RegisterHandler(tag, h)
	}
	return exec, r
}

func chainStep(id string, subSteps []any) *mission.Step {
	return &mission.Step{
		ID: id, Name: id, Capability: "chain",
		Parameters: map[string]any{"steps": subSteps},
	}
}

func TestChainStepEndToEnd(t *testing.T) {
	echo := &testutil.StubHandler{Output: "pong"}
	exec, _ := newChainEngine(t, map[string]*testutil.StubHandler{"echo": echo})

	m := &mission.Mission{Version: "1.0", Name: "chained", Steps: []*mission.Step{
		chainStep("deploy", []any{
			map[string]any{"step_name": "X", "capability": "echo"},
			map[string]any{"step_name": "Y", "capability": "echo"},
		}),
	}}

	res, err := exec.Execute(context.Background(), m)
	require.NoError(t, err)

	require.Equal(t, mission.StepSuccess, res.StepResults["deploy"].Status)
	out, ok := res.StepResults["deploy"].Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "chain", out["type"])
	assert.Equal(t, "X: pong\n\nY: pong", out["result"])
	assert.Equal(t, []string{"X", "Y"}, echo.Calls())
}

func TestChainResultVisibleToLaterSteps(t *testing.T) {
	echo := &testutil.StubHandler{Output: "pong"}
	var seen string
	inspect := &testutil.StubHandler{OnExecute: func(ctx context.Context, step *mission.Step, ec *engine.Context) {
		seen, _ = step.Parameters["msg"].(string)
	}}
	exec, _ := newChainEngine(t, map[string]*testutil.StubHandler{"echo": echo, "inspect": inspect})

	m := &mission.Mission{Version: "1.0", Name: "chained", Steps: []*mission.Step{
		chainStep("deploy", []any{
			map[string]any{"step_name": "X", "capability": "echo"},
		}),
		{
			ID: "after", Name: "after", Capability: "inspect",
			DependsOn:  []string{"deploy"},
			Parameters: map[string]any{"msg": "{deploy}"},
		},
	}}

	_, err := exec.Execute(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "X: pong", seen)
}

func TestNestedChain(t *testing.T) {
	echo := &testutil.StubHandler{Output: "pong"}
	var innerResult string
	inspect := &testutil.StubHandler{OnExecute: func(ctx context.Context, step *mission.Step, ec *engine.Context) {
		innerResult, _ = step.Parameters["msg"].(string)
	}}
	exec, _ := newChainEngine(t, map[string]*testutil.StubHandler{"echo": echo, "inspect": inspect})

	m := &mission.Mission{Version: "1.0", Name: "nested", Steps: []*mission.Step{
		chainStep("outer", []any{
			map[string]any{
				"step_name":  "inner",
				"capability": "chain",
				"parameters": map[string]any{"steps": []any{
					map[string]any{"step_name": "X", "capability": "echo"},
				}},
			},
		}),
		{
			ID: "after", Name: "after", Capability: "inspect",
			DependsOn:  []string{"outer"},
			Parameters: map[string]any{"msg": "{inner_result}"},
		},
	}}

	res, err := exec.Execute(context.Background(), m)
	require.NoError(t, err)

	require.Equal(t, mission.StepSuccess, res.StepResults["outer"].Status)
	assert.Equal(t, []string{"X"}, echo.Calls())
	// The inner chain's accumulated result propagates out through the
	// sub-step-name allow-list.
	assert.Equal(t, "X: pong", innerResult)
}

func TestChainRejectsMissingSteps(t *testing.T) {
	exec, _ := newChainEngine(t, nil)

	m := &mission.Mission{Version: "1.0", Name: "bad", Steps: []*mission.Step{
		{ID: "deploy", Name: "deploy", Capability: "chain"},
	}}

	_, err := exec.Execute(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'steps' array")
}

func TestChainRejectsMalformedSteps(t *testing.T) {
	exec, _ := newChainEngine(t, nil)

	m := &mission.Mission{Version: "1.0", Name: "bad", Steps: []*mission.Step{
		chainStep("deploy", nil),
	}}
	m.Steps[0].Parameters["steps"] = "not-a-list"

	_, err := exec.Execute(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid chain steps format")
}

func TestChainFailureFailsEnclosingStep(t *testing.T) {
	echo := &testutil.StubHandler{Output: "pong"}
	boom := &testutil.StubHandler{Err: assert.AnError}
	exec, _ := newChainEngine(t, map[string]*testutil.StubHandler{"echo": echo, "explode": boom})

	m := &mission.Mission{Version: "1.0", Name: "failing", Steps: []*mission.Step{
		chainStep("deploy", []any{
			map[string]any{"step_name": "X", "capability": "echo"},
			map[string]any{"step_name": "Y", "capability": "explode"},
		}),
	}}

	_, err := exec.Execute(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub-step Y failed")
}
