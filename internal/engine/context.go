package engine

import "sync"

// Context is the mutable variable/environment store shared across one
// mission run. Variables are mutated by step handlers and by the engine
// itself (chain results); writes are last-write-wins per key. The
// environment map is read-only during a run and is passed to handlers that
// spawn external processes.
//
// All accessors are safe for concurrent use; with parallel scheduling
// enabled the context is shared mutable state between racing steps.
type Context struct {
	mu          sync.RWMutex
	variables   map[string]string
	environment map[string]string
}

// NewContext creates an empty execution context.
func NewContext() *Context {
	return &Context{
		variables:   make(map[string]string),
		environment: make(map[string]string),
	}
}

// SetVariable stores a variable, overwriting any previous value for the key.
func (c *Context) SetVariable(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[key] = value
}

// Variable returns the value stored under key.
func (c *Context) Variable(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.variables[key]
	return v, ok
}

// Variables returns a copy of all variables.
func (c *Context) Variables() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}

// SetEnvironment replaces the environment map. Called once before a run
// starts; the environment is not mutated afterwards.
func (c *Context) SetEnvironment(env map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.environment = make(map[string]string, len(env))
	for k, v := range env {
		c.environment[k] = v
	}
}

// Environment returns a copy of the environment map.
func (c *Context) Environment() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.environment))
	for k, v := range c.environment {
		out[k] = v
	}
	return out
}

// child creates a fresh context seeded with a one-way snapshot of the
// parent's variables and environment. Later parent writes are not visible
// in the child.
func (c *Context) child() *Context {
	child := NewContext()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.variables {
		child.variables[k] = v
	}
	for k, v := range c.environment {
		child.environment[k] = v
	}
	return child
}
