// Package testutil provides stub capability handlers and lookup helpers
// shared by engine and module tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
)

// Handlers is a plain map implementation of engine.HandlerLookup.
type Handlers map[string]engine.Handler

// Handler implements engine.HandlerLookup.
func (h Handlers) Handler(capability string) (engine.Handler, bool) {
	handler, ok := h[capability]
	return handler, ok
}

// StubHandler is a scriptable capability handler that records every step it
// executed.
type StubHandler struct {
	// Output and Err are returned from Execute.
	Output any
	Err    error
	// Delay blocks Execute before returning, for timeout tests.
	Delay time.Duration
	// OnExecute, when set, runs before returning, with access to the
	// interpolated step and the shared context.
	OnExecute func(ctx context.Context, step *mission.Step, ec *engine.Context)

	mu    sync.Mutex
	calls []string
}

// Execute implements engine.Handler.
func (h *StubHandler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	h.mu.Lock()
	h.calls = append(h.calls, step.ID)
	h.mu.Unlock()

	if h.Delay > 0 {
		select {
		case <-time.After(h.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if h.OnExecute != nil {
		h.OnExecute(ctx, step, ec)
	}
	return h.Output, h.Err
}

// Calls returns the ids of the steps executed so far, in invocation order.
func (h *StubHandler) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	copy(out, h.calls)
	return out
}
