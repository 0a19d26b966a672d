// Package cas implements the content addressed step cache.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheStore using a file-per-step strategy.
// Entries live under <root>/.gate/cache, one JSON file per (job, step)
// pair, named by the SHA-256 of "job/step" so arbitrary names never
// escape the cache directory.
type Store struct{}

// NewStore creates a new cache store.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Get retrieves the cache entry for a step. A missing entry is not an
// error: it returns (nil, nil) and the caller treats it as a cache miss.
func (s *Store) Get(root, jobName, stepName string) (*domain.CacheEntry, error) {
	filename := s.getFilename(root, jobName, stepName)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}

	return &entry, nil
}

// Put stores the cache entry, overwriting any previous entry for the
// same (job, step) pair.
func (s *Store) Put(root string, entry domain.CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.getFilename(root, entry.JobName, entry.StepName)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

func (s *Store) getFilename(root, jobName, stepName string) string {
	hash := sha256.Sum256([]byte(jobName + "/" + stepName))
	hexHash := hex.EncodeToString(hash[:])
	cacheDir := filepath.Join(root, domain.DefaultCachePath())
	return filepath.Join(cacheDir, hexHash+".json")
}
