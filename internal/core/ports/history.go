package ports

import (
	"context"

	"go.trai.ch/gate/internal/core/domain"
)

// HistoryStore defines the interface for the persistent run history.
//
//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks
type HistoryStore interface {
	// Record persists the outcome of one run.
	Record(ctx context.Context, report *domain.RunReport) error

	// Recent returns up to limit run summaries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Close releases the underlying database handle.
	Close() error
}
