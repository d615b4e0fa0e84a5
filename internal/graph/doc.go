// Package graph computes a deterministic linear execution order for a
// mission's steps from their dependency edges, or reports a structured
// error when the dependency relation is unresolvable or cyclic.
package graph
