package domain

import "go.trai.ch/zerr"

var (
	// ErrJobAlreadyExists is returned when attempting to add a job with a name that already exists.
	ErrJobAlreadyExists = zerr.New("job already exists")

	// ErrMissingNeed is returned when a job references a need that doesn't exist in the workflow.
	ErrMissingNeed = zerr.New("missing need")

	// ErrCycleDetected is returned when a cycle is detected in the job dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrJobNotFound is returned when a requested job is not found in the workflow.
	ErrJobNotFound = zerr.New("job not found")

	// ErrReservedJobName is returned when a job uses a reserved name (e.g., "all").
	ErrReservedJobName = zerr.New("job name 'all' is reserved")

	// ErrInvalidJobName is returned when a job name contains invalid characters.
	ErrInvalidJobName = zerr.New("job name can only contain alphanumeric characters, hyphens and underscores")

	// ErrEmptyStepCommand is returned when a step declares no command.
	ErrEmptyStepCommand = zerr.New("step has no command")

	// ErrEmptyHookCommand is returned when a hook declares no command.
	ErrEmptyHookCommand = zerr.New("hook has no command")

	// ErrDuplicateHookID is returned when multiple hooks share an ID.
	ErrDuplicateHookID = zerr.New("duplicate hook id")

	// ErrUnknownEvent is returned when an event name is not part of the trigger surface.
	ErrUnknownEvent = zerr.New("unknown event, expected 'push' or 'pull_request'")

	// ErrConfigReadFailed is returned when the workflow file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read workflow file")

	// ErrConfigParseFailed is returned when the workflow file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse workflow file")

	// ErrConfigNotFound is returned when no workflow file can be found.
	ErrConfigNotFound = zerr.New("could not find gate.yaml")

	// ErrRunFailed is returned when the workflow run fails.
	ErrRunFailed = zerr.New("workflow run failed")

	// ErrJobExecutionFailed is returned when a job execution fails.
	ErrJobExecutionFailed = zerr.New("job execution failed")

	// ErrStepExecutionFailed is returned when a step execution fails.
	ErrStepExecutionFailed = zerr.New("step execution failed")

	// ErrHooksFailed is returned when one or more hooks report violations.
	ErrHooksFailed = zerr.New("hooks reported violations")

	// ErrKeyFileResolutionFailed is returned when cache key file resolution fails.
	ErrKeyFileResolutionFailed = zerr.New("failed to resolve cache key files")

	// ErrKeyHashComputationFailed is returned when cache key hash computation fails.
	ErrKeyHashComputationFailed = zerr.New("failed to compute cache key hash")

	// ErrKeyFileNotFound is returned when a declared cache key file is not found.
	ErrKeyFileNotFound = zerr.New("cache key file not found")

	// ErrStoreCreateFailed is returned when the cache store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache store directory")

	// ErrStoreReadFailed is returned when a cache entry cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache entry")

	// ErrStoreUnmarshalFailed is returned when a cache entry cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal cache entry")

	// ErrStoreMarshalFailed is returned when a cache entry cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache entry")

	// ErrStoreWriteFailed is returned when a cache entry cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache entry")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrWriteHashFailed is returned when writing the hash to the digest fails.
	ErrWriteHashFailed = zerr.New("failed to write hash to digest")

	// ErrHistoryOpenFailed is returned when the history database cannot be opened.
	ErrHistoryOpenFailed = zerr.New("failed to open history database")

	// ErrHistoryWriteFailed is returned when recording a run fails.
	ErrHistoryWriteFailed = zerr.New("failed to record run in history")

	// ErrHistoryReadFailed is returned when reading run history fails.
	ErrHistoryReadFailed = zerr.New("failed to read run history")

	// ErrPublishFailed is returned when publishing a run report fails.
	ErrPublishFailed = zerr.New("failed to publish run report")

	// ErrNotifierNotConfigured is returned when status publishing is requested
	// without the repository and commit being known.
	ErrNotifierNotConfigured = zerr.New("status publishing requires repository, commit and token")
)
