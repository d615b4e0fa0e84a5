package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/missiongrid/internal/mission"
)

// UnknownDependencyError reports a depends_on entry naming a step id that
// does not exist in the mission.
type UnknownDependencyError struct {
	StepID     string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("dependency %q not found for step %q", e.Dependency, e.StepID)
}

// CycleError reports a cyclic dependency relation. Remaining lists the step
// ids that could not be ordered, in ascending order.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected among steps: %s", strings.Join(e.Remaining, ", "))
}

// Order returns a linear order in which every step appears strictly after
// all of its dependencies, using Kahn's algorithm.
//
// Both the zero-in-degree seeding and the dependent expansion iterate in
// original step-list order, never map order, so the same mission always
// yields the same order. Audit and compliance reporting depend on runs
// being exactly reproducible.
func Order(steps []*mission.Step) ([]string, error) {
	inDegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string, len(steps))
	for _, s := range steps {
		inDegree[s.ID] = 0
	}

	for _, s := range steps {
		for _, dep := range s.DependsOn {
			if _, ok := inDegree[dep]; !ok {
				return nil, &UnknownDependencyError{StepID: s.ID, Dependency: dep}
			}
			dependents[dep] = append(dependents[dep], s.ID)
			inDegree[s.ID]++
		}
	}

	// Seed the FIFO queue from the step list, not the in-degree map.
	queue := make([]string, 0, len(steps))
	for _, s := range steps {
		if inDegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}

	order := make([]string, 0, len(steps))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, next := range dependents[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(steps) {
		ordered := make(map[string]struct{}, len(order))
		for _, id := range order {
			ordered[id] = struct{}{}
		}
		var remaining []string
		for _, s := range steps {
			if _, ok := ordered[s.ID]; !ok {
				remaining = append(remaining, s.ID)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{Remaining: remaining}
	}

	return order, nil
}
