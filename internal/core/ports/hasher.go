package ports

// Hasher defines the interface for computing content hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeKeyHash computes a single hash over the given files and the
	// deterministic serialization of env. Directories are hashed
	// recursively. The result is the cache key for a step.
	ComputeKeyHash(files []string, env map[string]string, root string) (string, error)

	// ComputeFileHash computes the content hash of a single file.
	ComputeFileHash(path string) (uint64, error)
}

// FileResolver defines the interface for resolving file patterns to paths.
type FileResolver interface {
	// Resolve expands the given glob patterns relative to root into a
	// sorted, deduplicated list of concrete paths.
	Resolve(patterns []string, root string) ([]string, error)
}
