package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/missiongrid/internal/engine"
)

// Module is the interface a capability package implements to plug its
// handlers into an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds the capability handlers for a single application instance.
// It satisfies engine.HandlerLookup.
type Registry struct {
	handlers map[string]engine.Handler
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]engine.Handler),
	}
}

// RegisterHandler registers a handler under a capability tag. Registering
// the same tag twice is a programmer error and panics.
func (r *Registry) RegisterHandler(capability string, h engine.Handler) {
	if _, exists := r.handlers[capability]; exists {
		panic(fmt.Sprintf("handler for capability '%s' already registered", capability))
	}
	slog.Debug("Registering capability handler.", "capability", capability)
	r.handlers[capability] = h
}

// Handler resolves a capability tag to its handler.
func (r *Registry) Handler(capability string) (engine.Handler, bool) {
	h, ok := r.handlers[capability]
	return h, ok
}

// Capabilities returns the registered capability tags in ascending order.
func (r *Registry) Capabilities() []string {
	out := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
