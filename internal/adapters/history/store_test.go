package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gate/internal/adapters/history"
	"go.trai.ch/gate/internal/core/domain"
)

func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.NewStore(filepath.Join(t.TempDir(), ".gate", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport(id string, startedAt time.Time, conclusions ...domain.Conclusion) *domain.RunReport {
	report := &domain.RunReport{
		ID:        id,
		Event:     "push",
		Branch:    "main",
		StartedAt: startedAt,
		Duration:  90 * time.Second,
	}
	for i, c := range conclusions {
		report.Jobs = append(report.Jobs, domain.JobResult{
			Name:       "job" + string(rune('a'+i)),
			Conclusion: c,
			Duration:   45 * time.Second,
		})
	}
	return report
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	report := sampleReport("run-1", started, domain.ConclusionSuccess, domain.ConclusionCached)
	require.NoError(t, store.Record(ctx, report))

	summaries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	summary := summaries[0]
	assert.Equal(t, "run-1", summary.ID)
	assert.Equal(t, "push", summary.Event)
	assert.Equal(t, "main", summary.Branch)
	assert.Equal(t, domain.ConclusionSuccess, summary.Conclusion)
	assert.Equal(t, started.UnixMilli(), summary.StartedAt.UnixMilli())
	assert.Equal(t, 90*time.Second, summary.Duration)
}

func TestStore_Record_AssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report := sampleReport("", time.Now(), domain.ConclusionSuccess)
	require.NoError(t, store.Record(ctx, report))

	assert.NotEmpty(t, report.ID)

	summaries, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, report.ID, summaries[0].ID)
}

func TestStore_Record_FailureConclusion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report := sampleReport("run-1", time.Now(), domain.ConclusionSuccess, domain.ConclusionFailure)
	require.NoError(t, store.Record(ctx, report))

	summaries, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.ConclusionFailure, summaries[0].Conclusion)
}

func TestStore_Recent_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		report := sampleReport(id, base.Add(time.Duration(i)*time.Minute), domain.ConclusionSuccess)
		require.NoError(t, store.Record(ctx, report))
	}

	summaries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "run-3", summaries[0].ID)
	assert.Equal(t, "run-2", summaries[1].ID)
	assert.Equal(t, "run-1", summaries[2].ID)
}

func TestStore_Recent_RespectsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i := range 5 {
		report := sampleReport("", base.Add(time.Duration(i)*time.Second), domain.ConclusionSuccess)
		require.NoError(t, store.Record(ctx, report))
	}

	summaries, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestStore_Recent_Empty(t *testing.T) {
	store := newTestStore(t)

	summaries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestStore_Record_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report := sampleReport("run-1", time.Now(), domain.ConclusionSuccess)
	require.NoError(t, store.Record(ctx, report))

	err := store.Record(ctx, report)
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrHistoryWriteFailed.Error())
}

func TestStore_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gate", "history.db")
	ctx := context.Background()

	store, err := history.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, sampleReport("run-1", time.Now(), domain.ConclusionSuccess)))
	require.NoError(t, store.Close())

	reopened, err := history.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	summaries, err := reopened.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "run-1", summaries[0].ID)
}
