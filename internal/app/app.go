// Package app wires storage, the task store and services from a Config.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/repository"
	"taskflow/internal/service"
	"taskflow/internal/storage"
	"taskflow/internal/store"
)

// App is everything a front end needs.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Storage  *storage.Adapter
	Store    *store.Store
	Tasks    *service.TaskService
	Themes   *service.ThemeService
	Settings *service.SettingsService
	Backups  *service.BackupService
	Reports  *service.ReportService

	closers []io.Closer
}

// New opens the configured backend and loads the task store.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	kv, err := a.openKV(ctx)
	if err != nil {
		return nil, err
	}

	a.Storage = storage.NewAdapter(kv, logger.Named("storage"))
	a.Store = store.New(ctx, a.Storage, store.WithLogger(logger.Named("store")))
	a.Tasks = service.NewTaskService(a.Store)
	a.Themes = service.NewThemeService(a.Storage, logger.Named("theme"))
	a.Settings = service.NewSettingsService(a.Storage)
	a.Backups = service.NewBackupService(a.Store, a.Settings, logger.Named("backup"))
	a.Reports = service.NewReportService(a.Store)

	logger.Debug("app ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.Int("tasks", len(a.Store.Tasks())))
	return a, nil
}

func (a *App) openKV(ctx context.Context) (storage.KV, error) {
	switch a.Config.Storage.Driver {
	case config.DriverMemory:
		return storage.NewMemory(), nil
	case config.DriverRedis:
		kv, err := storage.DialRedis(ctx, a.Config.Storage.RedisAddr, a.Config.Storage.RedisPrefix)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, kv)
		return kv, nil
	case config.DriverSQLite, "":
		db, err := repository.NewDB(a.Config.Storage.DSN, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		sqlDB, err := db.DB()
		if err == nil {
			a.closers = append(a.closers, sqlDB)
		}
		return repository.NewEntryRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.Config.Storage.Driver)
	}
}

// Close releases the backend connection.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
