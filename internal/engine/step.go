package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/mission"
)

// ExecuteStep is the single-step execution entry point, used both by the
// mission schedule and recursively by chain handlers. The step's timeout
// override applies when set; otherwise the executor's default. A chain step
// may itself contain a nested chain, so this call must tolerate arbitrary
// recursion depth; Go's growable goroutine stacks make plain recursion safe
// here.
func (e *Executor) ExecuteStep(ctx context.Context, step *mission.Step, ec *Context) (*mission.StepResult, error) {
	timeout := e.DefaultTimeout
	if step.TimeoutSeconds > 0 {
		timeout = time.Duration(step.TimeoutSeconds) * time.Second
	}
	return e.runStep(ctx, step, ec, timeout)
}

// runStep interpolates the step's parameters, dispatches to the registered
// capability handler and races the invocation against the timeout.
//
// On failure it returns both the failed StepResult and the error so the
// caller can apply propagation policy: record the result and continue, or
// discard it and abort. A timeout does not cancel side effects the handler
// has already performed; the model is not transactional.
func (e *Executor) runStep(ctx context.Context, step *mission.Step, ec *Context, timeout time.Duration) (*mission.StepResult, error) {
	logger := ctxlog.FromContext(ctx).With("step", step.ID)

	handler, ok := e.handlers.Handler(step.Capability)
	if !ok {
		err := fmt.Errorf("no handler registered for capability %q", step.Capability)
		return failedResult(step.ID, err, 0), err
	}

	// Hand the handler a copy with interpolated parameters; the mission's
	// own step stays immutable.
	bound := *step
	bound.Parameters = ec.SubstituteParameters(step.Parameters)

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		output any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("panic in handler for capability %q: %v", step.Capability, rec)}
			}
		}()
		out, err := handler.Execute(callCtx, &bound, ec)
		done <- outcome{output: out, err: err}
	}()

	select {
	case o := <-done:
		elapsed := time.Since(start).Milliseconds()
		if o.err != nil {
			logger.Debug("Handler returned error.", "error", o.err)
			return failedResult(step.ID, o.err, elapsed), fmt.Errorf("step %s failed: %w", step.ID, o.err)
		}
		return &mission.StepResult{
			StepID:     step.ID,
			Status:     mission.StepSuccess,
			Output:     o.output,
			DurationMS: elapsed,
		}, nil
	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			// The run itself was cancelled, not this step's deadline.
			return nil, err
		}
		err := &TimeoutError{StepID: step.ID, Timeout: timeout}
		logger.Error("Step timed out.", "timeout", timeout)
		res := failedResult(step.ID, err, time.Since(start).Milliseconds())
		res.Error = fmt.Sprintf("timed out after %s", timeout)
		return res, err
	}
}

func failedResult(stepID string, err error, durationMS int64) *mission.StepResult {
	return &mission.StepResult{
		StepID:     stepID,
		Status:     mission.StepFailed,
		Output:     map[string]any{"error": err.Error()},
		Error:      err.Error(),
		DurationMS: durationMS,
	}
}
