package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
	"taskflow/internal/storage"
	"taskflow/internal/store"
)

type fixture struct {
	kv       *storage.Memory
	db       *storage.Adapter
	store    *store.Store
	tasks    *TaskService
	settings *SettingsService
	themes   *ThemeService
	backups  *BackupService
	reports  *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := storage.NewMemory()
	db := storage.NewAdapter(kv, nil)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := store.New(context.Background(), db, store.WithClock(func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}))
	settings := NewSettingsService(db)
	return &fixture{
		kv:       kv,
		db:       db,
		store:    s,
		tasks:    NewTaskService(s),
		settings: settings,
		themes:   NewThemeService(db, nil),
		backups:  NewBackupService(s, settings, nil),
		reports:  NewReportService(s),
	}
}

func (f *fixture) add(t *testing.T, in TaskInput) model.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), in)
	require.NoError(t, err)
	return task
}
