package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiri-win/helix/internal/model"
	"github.com/thiri-win/helix/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func outcomeAt(name string, status model.RouteStatus, at time.Time) model.RouteOutcome {
	return model.RouteOutcome{
		RoutedAt: at,
		Filename: name,
		Status:   status,
	}
}

func TestNewSQLiteStorageRequiresPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))

	var version int
	err := store.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestRecordAndListOutcomes(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	routedAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	outcome := model.RouteOutcome{
		RoutedAt:    routedAt,
		Filename:    "CLINICALDATA_20240101000000.CSV",
		Status:      model.StatusArchived,
		ArchiveName: "CLINICALDATA_20240101000000_20240315.CSV",
		RecordCount: 12,
	}
	require.NoError(t, store.RecordOutcome(ctx, outcome))

	entries, err := store.ListOutcomes(ctx, service.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, outcome.Filename, entries[0].Filename)
	assert.Equal(t, model.StatusArchived, entries[0].Status)
	assert.Equal(t, 12, entries[0].RecordCount)
	assert.True(t, entries[0].RoutedAt.Equal(routedAt))
}

func TestRecordOutcomeRequiresFilename(t *testing.T) {
	store := newTestStorage(t)
	err := store.RecordOutcome(context.Background(), model.RouteOutcome{Status: model.StatusArchived})
	assert.Error(t, err)
}

func TestListOutcomesNewestFirst(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordOutcome(ctx, outcomeAt("old.CSV", model.StatusArchived, base)))
	require.NoError(t, store.RecordOutcome(ctx, outcomeAt("new.CSV", model.StatusArchived, base.Add(time.Hour))))

	entries, err := store.ListOutcomes(ctx, service.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "new.CSV", entries[0].Filename)
	assert.Equal(t, "old.CSV", entries[1].Filename)
}

func TestListOutcomesFilters(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordOutcome(ctx, outcomeAt("a.CSV", model.StatusArchived, base)))
	require.NoError(t, store.RecordOutcome(ctx, outcomeAt("b.CSV", model.StatusRejected, base.Add(time.Hour))))
	require.NoError(t, store.RecordOutcome(ctx, outcomeAt("c.CSV", model.StatusArchived, base.Add(2*time.Hour))))

	t.Run("by status", func(t *testing.T) {
		entries, err := store.ListOutcomes(ctx, service.HistoryFilter{Status: model.StatusRejected})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "b.CSV", entries[0].Filename)
	})

	t.Run("since", func(t *testing.T) {
		since := base.Add(30 * time.Minute)
		entries, err := store.ListOutcomes(ctx, service.HistoryFilter{Since: &since})
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("limit", func(t *testing.T) {
		entries, err := store.ListOutcomes(ctx, service.HistoryFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "c.CSV", entries[0].Filename)
	})
}
