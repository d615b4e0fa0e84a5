// Package engine executes missions. It orders steps through the dependency
// graph, applies timeout and failure-propagation policy per step, threads
// data between steps through a shared execution context with text
// interpolation, and runs embedded chain sub-workflows in isolated,
// scope-filtered contexts.
package engine
