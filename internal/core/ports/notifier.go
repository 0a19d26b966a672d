package ports

import (
	"context"

	"go.trai.ch/gate/internal/core/domain"
)

// Notifier defines the interface for publishing run results to an
// external service (e.g. a commit status API).
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	// Publish sends the run report. It is best-effort from the
	// scheduler's perspective: a publish failure does not change the
	// run's conclusion.
	Publish(ctx context.Context, report *domain.RunReport) error
}
