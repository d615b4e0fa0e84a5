// Package app wires the application together: configuration, logging, the
// capability registry, the engine, and the run lifecycle around a single
// mission execution.
package app
