package history

import "time"

// Status describes where a run ended up.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID           int64
	RunID        string
	Command      string
	Input        string
	Speakers     []string
	Language     string
	Output       string
	Status       Status
	FailureKind  string
	ErrorMessage string
	Blocks       int
	Utterances   int
	AudioSeconds float64
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns how long the run took, or zero while it is still running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome carries the fields Finish records.
type Outcome struct {
	Status       Status
	Output       string
	Blocks       int
	Utterances   int
	AudioSeconds float64
	FailureKind  string
	ErrorMessage string
}
