package telemetry

import (
	"time"

	"go.trai.ch/gate/internal/core/domain"
)

// MsgPlan signals that the scheduler has planned a run and carries the
// full job list so the UI can initialize its layout.
type MsgPlan struct {
	Jobs  []string
	Needs map[string][]string
	Event string
}

// MsgSpanStart indicates a new job or step (span) has started.
type MsgSpanStart struct {
	SpanID    string
	ParentID  string // empty for job spans
	Name      string
	StartTime time.Time
}

// MsgSpanLog carries a chunk of log output for a specific span.
type MsgSpanLog struct {
	SpanID string
	Data   []byte
}

// MsgSpanComplete indicates a job or step (span) has finished.
type MsgSpanComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgRunComplete carries the aggregated report once the whole run has
// finished. Jobs skipped because a need failed never opened a span, so
// their conclusion arrives only through this message.
type MsgRunComplete struct {
	Report *domain.RunReport
}
