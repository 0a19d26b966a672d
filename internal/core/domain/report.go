package domain

import "time"

// Conclusion is the final outcome of a job, step or run.
type Conclusion string

const (
	// ConclusionSuccess indicates every invocation exited zero.
	ConclusionSuccess Conclusion = "success"
	// ConclusionFailure indicates at least one invocation exited non-zero.
	ConclusionFailure Conclusion = "failure"
	// ConclusionSkipped indicates the unit did not run (unmatched trigger,
	// failed need, or aborted job).
	ConclusionSkipped Conclusion = "skipped"
	// ConclusionCached indicates the step was skipped on a cache hit.
	ConclusionCached Conclusion = "cached"
)

// StepResult records the outcome of a single step.
type StepResult struct {
	Name       string        `json:"name"`
	Conclusion Conclusion    `json:"conclusion"`
	ExitCode   int           `json:"exit_code"`
	Duration   time.Duration `json:"duration"`
}

// JobResult records the outcome of a job and its steps.
type JobResult struct {
	Name       string        `json:"name"`
	Conclusion Conclusion    `json:"conclusion"`
	Steps      []StepResult  `json:"steps"`
	Duration   time.Duration `json:"duration"`
}

// RunReport aggregates the results of one workflow run.
type RunReport struct {
	ID        string        `json:"id"`
	Event     string        `json:"event,omitempty"`
	Branch    string        `json:"branch,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Jobs      []JobResult   `json:"jobs"`
}

// Conclusion returns the overall run outcome: the conjunction of all
// job outcomes. An empty run (no jobs scheduled) is a success.
func (r *RunReport) Conclusion() Conclusion {
	for _, job := range r.Jobs {
		if job.Conclusion == ConclusionFailure {
			return ConclusionFailure
		}
	}
	return ConclusionSuccess
}

// Failed reports whether any job in the run failed.
func (r *RunReport) Failed() bool {
	return r.Conclusion() == ConclusionFailure
}
