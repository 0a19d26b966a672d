// Package history persists run outcomes in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	// Registers the sqlite3 database/sql driver.
	_ "github.com/mattn/go-sqlite3"
	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HistoryStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	event       TEXT NOT NULL,
	branch      TEXT NOT NULL,
	conclusion  TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	jobs        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at DESC);
`

// Store implements ports.HistoryStore on a SQLite database under the
// workspace's .gate directory.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at the given path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrHistoryOpenFailed.Error())
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrHistoryOpenFailed.Error())
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, domain.ErrHistoryOpenFailed.Error())
	}

	return &Store{db: db}, nil
}

// Record persists the outcome of one run. A report without an ID is
// assigned one.
func (s *Store) Record(ctx context.Context, report *domain.RunReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	jobs, err := json.Marshal(report.Jobs)
	if err != nil {
		return zerr.Wrap(err, domain.ErrHistoryWriteFailed.Error())
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, event, branch, conclusion, started_at, duration_ms, jobs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Event,
		report.Branch,
		string(report.Conclusion()),
		report.StartedAt.UnixMilli(),
		report.Duration.Milliseconds(),
		string(jobs),
	)
	if err != nil {
		return zerr.Wrap(err, domain.ErrHistoryWriteFailed.Error())
	}
	return nil
}

// Recent returns up to limit run summaries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event, branch, conclusion, started_at, duration_ms
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrHistoryReadFailed.Error())
	}
	defer rows.Close()

	var summaries []domain.RunSummary
	for rows.Next() {
		var (
			summary    domain.RunSummary
			conclusion string
			startedAt  int64
			durationMS int64
		)
		if err := rows.Scan(&summary.ID, &summary.Event, &summary.Branch, &conclusion, &startedAt, &durationMS); err != nil {
			return nil, zerr.Wrap(err, domain.ErrHistoryReadFailed.Error())
		}
		summary.Conclusion = domain.Conclusion(conclusion)
		summary.StartedAt = time.UnixMilli(startedAt)
		summary.Duration = time.Duration(durationMS) * time.Millisecond
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrHistoryReadFailed.Error())
	}
	return summaries, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
