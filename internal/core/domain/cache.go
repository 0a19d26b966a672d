package domain

import "time"

// CacheEntry records the key hash of a step's last successful run.
// A matching hash on a later run means the step can be skipped; a
// mismatch falls through to a full run and the entry is rewritten.
type CacheEntry struct {
	JobName   string    `json:"job_name"`
	StepName  string    `json:"step_name"`
	KeyHash   string    `json:"key_hash"`
	Timestamp time.Time `json:"timestamp"`
}

// RunSummary is a condensed run record kept in the history store.
type RunSummary struct {
	ID         string
	Event      string
	Branch     string
	Conclusion Conclusion
	StartedAt  time.Time
	Duration   time.Duration
}
