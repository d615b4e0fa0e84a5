package mission

import (
	"errors"
	"fmt"
)

// ErrNoSteps is returned for a mission whose step list is empty.
var ErrNoSteps = errors.New("mission must have at least one step")

// Validate checks the structural invariants a mission must satisfy before
// execution: a non-empty step list, unique step ids, and dependencies that
// resolve to existing steps. Validation failures are fatal and surface
// before any step runs.
func Validate(m *Mission) error {
	if len(m.Steps) == 0 {
		return ErrNoSteps
	}

	seen := make(map[string]struct{}, len(m.Steps))
	for _, s := range m.Steps {
		if s.ID == "" {
			return fmt.Errorf("step %q has an empty id", s.Name)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate step id: %s", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	for _, s := range m.Steps {
		for _, dep := range s.DependsOn {
			if _, ok := seen[dep]; !ok {
				return fmt.Errorf("step %s depends on non-existent step: %s", s.ID, dep)
			}
		}
	}

	return nil
}
