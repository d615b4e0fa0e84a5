package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/graph"
	"github.com/vk/missiongrid/internal/mission"
)

// DefaultStepTimeout bounds a step that carries no timeout of its own when
// the mission also declares no default.
const DefaultStepTimeout = 300 * time.Second

// Handler executes one capability against the shared execution context.
// Parameters arrive with variable interpolation already applied. The engine
// depends only on this interface, never on concrete handlers.
type Handler interface {
	Execute(ctx context.Context, step *mission.Step, ec *Context) (any, error)
}

// HandlerLookup resolves a capability tag to its registered handler.
type HandlerLookup interface {
	Handler(capability string) (Handler, bool)
}

// InvariantViolationError reports a dependency that was not terminal when a
// step was scheduled. Given a correct topological order this is unreachable,
// so it is always fatal.
type InvariantViolationError struct {
	StepID     string
	Dependency string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("dependency %q not completed for step %q", e.Dependency, e.StepID)
}

// TimeoutError reports a step whose handler did not return within its
// effective timeout.
type TimeoutError struct {
	StepID  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("step %s timed out after %s", e.StepID, e.Timeout)
}

// Executor orchestrates mission runs. One Executor may serve many runs;
// per-run state lives in the execution context created for each run.
type Executor struct {
	handlers HandlerLookup

	// Environment is copied into each run's execution context, for handlers
	// that spawn external processes.
	Environment map[string]string

	// DefaultTimeout is the system fallback per-step timeout.
	DefaultTimeout time.Duration
}

// New creates an executor dispatching to the given handlers.
func New(handlers HandlerLookup) *Executor {
	return &Executor{
		handlers:       handlers,
		DefaultTimeout: DefaultStepTimeout,
	}
}

// Execute runs a mission to completion and returns its full result, or a
// single terminal error when the run aborted. On abort the partial results
// already computed are discarded; callers receive either a complete result
// (possibly containing failed or skipped entries) or only the error.
func (e *Executor) Execute(ctx context.Context, m *mission.Mission) (*mission.Result, error) {
	logger := ctxlog.FromContext(ctx)

	if len(m.Steps) == 0 {
		return nil, fmt.Errorf("cannot execute empty mission: %w", mission.ErrNoSteps)
	}

	start := time.Now()

	order, err := graph.Order(m.Steps)
	if err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}

	ec := NewContext()
	ec.SetEnvironment(e.Environment)

	st := newState(ec, m.FailFast())

	logger.Info("Executing mission.", "mission", m.Name, "steps", len(order))

	if limit := m.MaxParallelSteps(); limit > 1 {
		err = e.executeParallel(ctx, m, order, st, limit)
	} else {
		err = e.executeSequential(ctx, m, order, st)
	}
	if err != nil {
		return nil, err
	}

	results := st.snapshot()
	status := overallStatus(results)
	logger.Info("Mission finished.", "mission", m.Name, "status", string(status))

	return &mission.Result{
		MissionID:       uuid.NewString(),
		Status:          status,
		StepResults:     results,
		TotalDurationMS: time.Since(start).Milliseconds(),
	}, nil
}

// executeSequential drives the baseline single-threaded schedule: steps run
// one at a time in the order produced by the graph builder.
func (e *Executor) executeSequential(ctx context.Context, m *mission.Mission, order []string, st *state) error {
	for _, id := range order {
		if err := e.executeScheduled(ctx, m, m.StepByID(id), st); err != nil {
			return err
		}
	}
	return nil
}

// executeScheduled runs one scheduled step end to end: dependency
// evaluation, timeout computation, handler invocation, policy application
// and result recording. A non-nil return aborts the entire run.
func (e *Executor) executeScheduled(ctx context.Context, m *mission.Mission, step *mission.Step, st *state) error {
	logger := ctxlog.FromContext(ctx).With("step", step.ID)
	logger.Debug("Evaluating step.", "name", step.Name)

	skip, err := st.evaluateDependencies(step)
	if err != nil {
		return err
	}
	if skip != nil {
		// A failed dependency under unforgiving policy records a skipped
		// placeholder, but the step still executes below and its real
		// result replaces the placeholder. A step downstream of a forgiven
		// failure therefore runs rather than being suppressed.
		logger.Warn("Dependency failed; recording skipped placeholder before execution.", "dependency", skip.failedDep)
		st.record(&mission.StepResult{
			StepID: step.ID,
			Status: mission.StepSkipped,
			Output: map[string]any{"reason": "dependency failed"},
			Error:  fmt.Sprintf("dependency %s failed", skip.failedDep),
		})
	}

	timeout := e.effectiveTimeout(step, m)
	logger.Debug("Starting step.", "timeout", timeout)

	res, err := e.runStep(ctx, step, st.ec, timeout)
	if err != nil {
		// A dead parent context means the run itself is over, whatever the
		// step's own policy says; runStep returns no result in that case.
		if ctx.Err() != nil {
			return err
		}
		if !step.ContinueOnError && st.failFast {
			logger.Error("Step failed, aborting run.", "error", err)
			return err
		}
		logger.Error("Step failed, continuing.", "error", err)
		st.record(res)
		return nil
	}
	logger.Info("Step completed.", "status", string(res.Status))

	st.record(res)
	return nil
}

// effectiveTimeout resolves the per-step timeout: step-level override, else
// mission-level default, else the system default.
func (e *Executor) effectiveTimeout(step *mission.Step, m *mission.Mission) time.Duration {
	if step.TimeoutSeconds > 0 {
		return time.Duration(step.TimeoutSeconds) * time.Second
	}
	if secs := m.DefaultTimeoutSeconds(); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return e.DefaultTimeout
}

// overallStatus folds step results into the run status: any failure makes
// the run failed, a run where every step was skipped is cancelled, and
// anything else completed.
func overallStatus(results map[string]*mission.StepResult) mission.Status {
	hasFailed := false
	allSkipped := len(results) > 0
	for _, r := range results {
		if r.Status == mission.StepFailed {
			hasFailed = true
		}
		if r.Status != mission.StepSkipped {
			allSkipped = false
		}
	}
	switch {
	case hasFailed:
		return mission.StatusFailed
	case allSkipped:
		return mission.StatusCancelled
	default:
		return mission.StatusCompleted
	}
}
