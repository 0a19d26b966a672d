package domain

import "path/filepath"

const (
	// GateDirName is the name of the internal workspace directory.
	GateDirName = ".gate"

	// CacheDirName is the name of the step cache directory.
	CacheDirName = "cache"

	// HistoryFileName is the name of the run history database.
	HistoryFileName = "history.db"

	// WorkflowFileName is the name of the workflow configuration file.
	WorkflowFileName = "gate.yaml"

	// DebugLogFile is the name of the debug log file.
	DebugLogFile = "debug.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultGatePath returns the default root directory for gate metadata.
func DefaultGatePath() string {
	return GateDirName
}

// DefaultCachePath returns the default path for the step cache.
// It joins .gate and cache.
func DefaultCachePath() string {
	return filepath.Join(GateDirName, CacheDirName)
}

// DefaultHistoryPath returns the default path for the run history database.
// It joins .gate and history.db.
func DefaultHistoryPath() string {
	return filepath.Join(GateDirName, HistoryFileName)
}

// DefaultDebugLogPath returns the default path for the debug log.
// It joins .gate and debug.log.
func DefaultDebugLogPath() string {
	return filepath.Join(GateDirName, DebugLogFile)
}
