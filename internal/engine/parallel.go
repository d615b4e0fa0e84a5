package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/mission"
)

// executeParallel schedules mutually-independent ready steps concurrently,
// bounded by the mission's max_parallel_steps, without ever violating the
// dependency partial order: a step joins a wave only once every dependency
// has reached a terminal status. Steps racing to write the same context key
// resolve by last-write-wins with no ordering guarantee between them.
//
// The first unforgiven failure cancels the wave's group context; handlers
// already in flight are not interrupted beyond that cancellation signal.
func (e *Executor) executeParallel(ctx context.Context, m *mission.Mission, order []string, st *state, limit int) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parallel scheduling enabled.", "max_parallel_steps", limit)

	remaining := order
	for len(remaining) > 0 {
		var wave []*mission.Step
		var deferred []string
		for _, id := range remaining {
			step := m.StepByID(id)
			if allTerminal(st, step.DependsOn) {
				wave = append(wave, step)
			} else {
				deferred = append(deferred, id)
			}
		}

		// A topological order guarantees progress; an empty wave means the
		// bookkeeping is corrupt.
		if len(wave) == 0 {
			return fmt.Errorf("scheduler stalled with pending steps: %s", strings.Join(deferred, ", "))
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, step := range wave {
			step := step
			g.Go(func() error {
				return e.executeScheduled(gctx, m, step, st)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		remaining = deferred
	}
	return nil
}

func allTerminal(st *state, deps []string) bool {
	for _, dep := range deps {
		if !st.terminal(dep) {
			return false
		}
	}
	return true
}
