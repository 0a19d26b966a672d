package ports

import (
	"context"
	"io"
)

// SpanConfig holds configuration applied when starting a span.
type SpanConfig struct{}

// SpanOption configures a span at start time.
type SpanOption func(*SpanConfig)

// Span represents a unit of traced work. It doubles as an io.Writer so
// that executor output can be streamed into the span's log channel.
type Span interface {
	io.Writer

	// End completes the span and flushes any buffered log output.
	End()

	// RecordError marks the span as failed with the given error.
	RecordError(err error)

	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Tracer defines the interface for collecting run telemetry.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Start creates a new span as a child of the span in ctx, if any.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)

	// EmitPlan signals that a set of jobs is planned for execution.
	EmitPlan(ctx context.Context, jobs []string, needs map[string][]string, event string)

	// Shutdown stops background processing and flushes pending events.
	Shutdown(ctx context.Context) error
}
