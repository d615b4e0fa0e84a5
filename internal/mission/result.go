package mission

// StepStatus is the state-machine state of a single step within a run.
// Pending and Running are transient; Success, Failed and Skipped are
// terminal for the run.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepSuccess StepStatus = "success"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// Terminal reports whether the status is final for the run.
func (s StepStatus) Terminal() bool {
	return s == StepSuccess || s == StepFailed || s == StepSkipped
}

// Status is the overall outcome of a mission run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// StepResult records the terminal outcome of one step. Produced exactly once
// per run and immutable thereafter.
type StepResult struct {
	StepID     string     `json:"step_id"`
	Status     StepStatus `json:"status"`
	Output     any        `json:"output,omitempty"`
	Error      string     `json:"error,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

// Result is the full, auditable trace of a mission run, consumed by
// reporting and compliance layers downstream.
type Result struct {
	MissionID       string                 `json:"mission_id"`
	Status          Status                 `json:"status"`
	StepResults     map[string]*StepResult `json:"step_results"`
	TotalDurationMS int64                  `json:"total_duration_ms"`
}
