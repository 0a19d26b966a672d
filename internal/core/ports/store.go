package ports

import "go.trai.ch/gate/internal/core/domain"

// CacheStore defines the interface for storing and retrieving step cache entries.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Get retrieves the cache entry for a given job and step.
	// Returns nil, nil if not found.
	Get(root, jobName, stepName string) (*domain.CacheEntry, error)

	// Put stores the cache entry.
	Put(root string, entry domain.CacheEntry) error
}
