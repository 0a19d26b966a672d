package telemetry

// Batcher exposes the span's batch processor for tests.
func (s *OTelSpan) Batcher() *BatchProcessor {
	return s.batcher
}
