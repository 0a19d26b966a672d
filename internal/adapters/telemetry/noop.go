package telemetry

import (
	"context"

	"go.trai.ch/gate/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that discards all telemetry. It is used for
// code paths that execute commands outside a rendered run, such as hooks.
type NoOpTracer struct{}

// NewNoOpTracer returns a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns the context unchanged and a span that discards everything.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, &NoOpSpan{}
}

// EmitPlan does nothing.
func (t *NoOpTracer) EmitPlan(_ context.Context, _ []string, _ map[string][]string, _ string) {
}

// Shutdown does nothing.
func (t *NoOpTracer) Shutdown(_ context.Context) error {
	return nil
}

// NoOpSpan discards all writes and span operations.
type NoOpSpan struct{}

// Write discards the data and reports it as written.
func (s *NoOpSpan) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// End does nothing.
func (s *NoOpSpan) End() {}

// RecordError does nothing.
func (s *NoOpSpan) RecordError(_ error) {}

// SetAttribute does nothing.
func (s *NoOpSpan) SetAttribute(_ string, _ any) {}
