package mission

// Mission is a complete workflow definition.
type Mission struct {
	Version     string  `yaml:"version" json:"version"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Steps       []*Step `yaml:"steps" json:"steps"`
	Config      *Config `yaml:"config,omitempty" json:"config,omitempty"`
}

// Step is a single unit of work. Capability is an open-ended tag selecting
// which registered handler executes the step; new tags can be added without
// engine changes.
type Step struct {
	ID              string         `yaml:"id" json:"id"`
	Name            string         `yaml:"name" json:"name"`
	Capability      string         `yaml:"capability" json:"capability"`
	DependsOn       []string       `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	TimeoutSeconds  int            `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
	ContinueOnError bool           `yaml:"continue_on_error,omitempty" json:"continue_on_error,omitempty"`
	Parameters      map[string]any `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Config holds mission-level policy knobs.
type Config struct {
	// MaxParallelSteps caps how many mutually-independent steps may run at
	// once. Zero or one selects strictly sequential execution.
	MaxParallelSteps int `yaml:"max_parallel_steps,omitempty" json:"max_parallel_steps,omitempty"`
	// TimeoutSeconds is the default per-step timeout when a step carries no
	// override.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
	// FailFast aborts the whole run on the first unforgiven step failure.
	// Nil means true.
	FailFast *bool `yaml:"fail_fast,omitempty" json:"fail_fast,omitempty"`
}

// FailFast reports the effective fail-fast policy, defaulting to true when
// the mission carries no config or the knob is unset.
func (m *Mission) FailFast() bool {
	if m.Config == nil || m.Config.FailFast == nil {
		return true
	}
	return *m.Config.FailFast
}

// MaxParallelSteps reports the declared parallelism cap, or zero when unset.
func (m *Mission) MaxParallelSteps() int {
	if m.Config == nil {
		return 0
	}
	return m.Config.MaxParallelSteps
}

// DefaultTimeoutSeconds reports the mission-level per-step timeout default,
// or zero when unset.
func (m *Mission) DefaultTimeoutSeconds() int {
	if m.Config == nil {
		return 0
	}
	return m.Config.TimeoutSeconds
}

// StepByID returns the step with the given id, or nil.
func (m *Mission) StepByID(id string) *Step {
	for _, s := range m.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}
