package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/mission"
)

// ChainSubStep is one entry of a chain's embedded, strictly ordered
// sub-step list. Chains schedule by list position, not by dependency graph,
// and never honor continue_on_error.
type ChainSubStep struct {
	StepName       string         `mapstructure:"step_name" yaml:"step_name" json:"step_name"`
	Capability     string         `mapstructure:"capability" yaml:"capability" json:"capability"`
	Parameters     map[string]any `mapstructure:"parameters" yaml:"parameters" json:"parameters"`
	TimeoutSeconds int            `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// ChainStepError reports the sub-step that aborted a chain. It surfaces as
// the enclosing chain step's failure.
type ChainStepError struct {
	ChainID  string
	StepName string
	Reason   string
}

func (e *ChainStepError) Error() string {
	return fmt.Sprintf("chain %s sub-step %s failed: %s", e.ChainID, e.StepName, e.Reason)
}

// RunChain executes an embedded sub-step list in an isolated child context
// and returns the chain's accumulated result string.
//
// The child context starts as a one-way snapshot of the parent; later
// parent writes are invisible inside the chain. Sub-steps run strictly in
// list order through the same single-step entry point as top-level steps,
// so a sub-step may itself be a nested chain. The first non-success
// sub-step aborts the whole chain.
//
// Afterwards only variables keyed "<chainID>_*" or "<subStepName>_*" are
// copied back into the parent, keeping unrelated chain-internal state from
// leaking into the enclosing run, and "<chainID>_result" is always set to
// the result string accumulated so far, even when the chain aborted.
func (e *Executor) RunChain(ctx context.Context, chainID string, subSteps []ChainSubStep, parent *Context) (string, error) {
	logger := ctxlog.FromContext(ctx).With("chain", chainID)
	logger.Info("Executing chain.", "sub_steps", len(subSteps))

	chainCtx := parent.child()
	var lines []string
	var executed []string

	finish := func() string {
		result := strings.Join(lines, "\n\n")
		propagateScoped(chainCtx, parent, chainID, executed)
		parent.SetVariable(chainID+"_result", result)
		return result
	}

	for i, sub := range subSteps {
		logger.Debug("Executing chain sub-step.", "index", i+1, "name", sub.StepName)
		executed = append(executed, sub.StepName)

		step := &mission.Step{
			ID:             sub.StepName,
			Name:           sub.StepName,
			Capability:     sub.Capability,
			Parameters:     sub.Parameters,
			TimeoutSeconds: sub.TimeoutSeconds,
		}

		res, err := e.ExecuteStep(ctx, step, chainCtx)
		if err != nil || res.Status != mission.StepSuccess {
			reason := fmt.Sprintf("chain sub-step %s failed", sub.StepName)
			if err != nil {
				reason = err.Error()
			} else if res.Error != "" {
				reason = res.Error
			}
			logger.Error("Chain sub-step failed, aborting chain.", "name", sub.StepName, "reason", reason)
			finish()
			return "", &ChainStepError{ChainID: chainID, StepName: sub.StepName, Reason: reason}
		}

		// Only handlers exposing a primary string value contribute to the
		// chain's accumulated log.
		if out, ok := res.Output.(string); ok {
			lines = append(lines, sub.StepName+": "+out)
		}
		logger.Debug("Chain sub-step completed.", "name", sub.StepName)
	}

	return finish(), nil
}

// propagateScoped copies the allow-listed chain variables back into the
// parent context: keys prefixed with the chain id or with the name of any
// sub-step that ran. Keys are applied in ascending order so write-back is
// reproducible.
func propagateScoped(chainCtx, parent *Context, chainID string, subStepNames []string) {
	vars := chainCtx.Variables()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !scopedKey(key, chainID, subStepNames) {
			continue
		}
		parent.SetVariable(key, vars[key])
	}
}

func scopedKey(key, chainID string, subStepNames []string) bool {
	if strings.HasPrefix(key, chainID+"_") {
		return true
	}
	for _, name := range subStepNames {
		if strings.HasPrefix(key, name+"_") {
			return true
		}
	}
	return false
}
