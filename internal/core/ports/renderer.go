package ports

import (
	"context"
	"time"

	"go.trai.ch/gate/internal/core/domain"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for shutdown.
	// It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error

	// OnPlanEmit is called when the scheduler has planned the run.
	// jobs: list of all job names in execution order
	// needs: dependency map (job -> list of needs)
	// event: the event the run was invoked for (empty for local runs)
	OnPlanEmit(jobs []string, needs map[string][]string, event string)

	// OnSpanStart is called when a job or step begins execution.
	// spanID: unique identifier for this execution
	// parentID: spanID of the enclosing job (empty for job spans)
	// name: human-readable job or step name
	// startTime: when the unit started
	OnSpanStart(spanID, parentID, name string, startTime time.Time)

	// OnSpanLog is called when a unit emits output.
	// spanID: identifier for the unit
	// data: raw log bytes (may contain partial lines or ANSI sequences)
	OnSpanLog(spanID string, data []byte)

	// OnSpanComplete is called when a unit finishes execution.
	// spanID: identifier for the unit
	// endTime: when the unit completed
	// err: nil if successful, error otherwise
	OnSpanComplete(spanID string, endTime time.Time, err error)

	// OnRunComplete is called once after the scheduler returns with the
	// aggregated report. Jobs that never ran (a need failed) appear here
	// even though no span was ever opened for them.
	OnRunComplete(report *domain.RunReport)
}
