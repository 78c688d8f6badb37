package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/storage"
	"taskflow/internal/storage/storagetest"
)

// setupTestDB opens a fresh in-memory SQLite database.
func setupTestDB(t *testing.T) *EntryRepository {
	t.Helper()

	db, err := NewDB(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewEntryRepository(db)
}

func TestEntryRepositoryKV(t *testing.T) {
	storagetest.RunKV(t, func(t *testing.T) storage.KV {
		return setupTestDB(t)
	})
}

func TestEntryRepositorySurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "taskflow.db")

	db, err := NewDB(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, NewEntryRepository(db).Set(ctx, "theme", "dark"))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err = NewDB(dsn, nil)
	require.NoError(t, err)
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	v, ok, err := NewEntryRepository(db).Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

func TestDSNHelpers(t *testing.T) {
	assert.Equal(t, "data/app.db", sqlitePath("file:data/app.db?cache=shared"))
	assert.Equal(t, "app.db?"+busyTimeout, withParam("app.db", busyTimeout))
	assert.Equal(t, "app.db?cache=shared&"+busyTimeout, withParam("app.db?cache=shared", busyTimeout))
	assert.Equal(t, "app.db?_busy_timeout=100", withParam("app.db?_busy_timeout=100", busyTimeout))
	assert.True(t, isMemoryDSN("file::memory:?cache=shared"))
	assert.False(t, isMemoryDSN("taskflow.db"))
}
