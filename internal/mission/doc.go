// Package mission defines the immutable mission model: a named, versioned
// workflow of steps with explicit dependencies, plus the result types
// produced by a run. Missions are constructed once by a loader and never
// mutated after execution begins.
package mission
