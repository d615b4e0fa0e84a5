package engine

import (
	"sync"

	"github.com/vk/missiongrid/internal/mission"
)

// state is the mutable bookkeeping of a single mission run. Only terminal
// step results are recorded, so presence in results doubles as the
// "completed" marker later steps consult when evaluating dependencies. The
// mutex matters only under parallel scheduling; sequential runs take it
// uncontended.
type state struct {
	ec       *Context
	failFast bool

	mu      sync.Mutex
	results map[string]*mission.StepResult
}

func newState(ec *Context, failFast bool) *state {
	return &state{
		ec:       ec,
		failFast: failFast,
		results:  make(map[string]*mission.StepResult),
	}
}

// record stores a step's terminal result, marking the step completed for
// dependency evaluation regardless of its status.
func (s *state) record(res *mission.StepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[res.StepID] = res
}

// terminal reports whether the step has reached a terminal status in this run.
func (s *state) terminal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.results[id]
	return ok
}

// skipDecision reports why a step must be skipped instead of executed.
type skipDecision struct {
	failedDep string
}

// evaluateDependencies consults the terminal results of a step's
// dependencies. A dependency without a terminal result is a scheduling
// invariant violation. A failed dependency yields a skip decision when
// neither the step's continue_on_error nor a disabled mission fail_fast
// forgives it.
func (s *state) evaluateDependencies(step *mission.Step) (*skipDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dep := range step.DependsOn {
		res, ok := s.results[dep]
		if !ok {
			return nil, &InvariantViolationError{StepID: step.ID, Dependency: dep}
		}
		if res.Status == mission.StepFailed && !step.ContinueOnError && s.failFast {
			return &skipDecision{failedDep: dep}, nil
		}
	}
	return nil, nil
}

// snapshot returns the recorded results. Safe to hand out once the run has
// finished; results are immutable after recording.
func (s *state) snapshot() map[string]*mission.StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*mission.StepResult, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}
