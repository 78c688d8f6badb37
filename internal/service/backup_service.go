package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// ErrMalformedBackup is returned when an import file is not a backup document.
var ErrMalformedBackup = errors.New("malformed backup")

// ImportOptions controls what Import re-seeds. Settings and profile are
// always restored when present; tasks only when Tasks is set.
type ImportOptions struct {
	Tasks bool
}

// ImportResult reports what Import changed.
type ImportResult struct {
	Settings bool
	Profile  bool
	Tasks    int
}

// BackupService exports and imports the full application state.
type BackupService struct {
	store    *store.Store
	settings *SettingsService
	logger   *zap.Logger
	now      func() time.Time
}

func NewBackupService(s *store.Store, settings *SettingsService, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{store: s, settings: settings, logger: logger, now: time.Now}
}

// FileName is the suggested name of a backup taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("taskflow-backup-%s.json", now.UTC().Format("2006-01-02"))
}

// Snapshot builds the backup document for the current state.
func (s *BackupService) Snapshot(ctx context.Context) model.Backup {
	profile := s.settings.Profile(ctx)
	settings := s.settings.Settings(ctx)
	return model.Backup{
		Todos:      s.store.Tasks(),
		Profile:    &profile,
		Settings:   &settings,
		ExportDate: model.NewTimestamp(s.now()),
	}
}

// Export writes the backup document as indented JSON.
func (s *BackupService) Export(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Snapshot(ctx)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ExportToDir writes a dated backup file into dir and returns its path.
func (s *BackupService) ExportToDir(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %q: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(s.now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	if err := s.Export(ctx, f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close backup file: %w", err)
	}
	s.logger.Info("backup written", zap.String("path", path))
	return path, nil
}

// Import reads a backup document. Nothing is changed when it does not parse.
func (s *BackupService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	var res ImportResult

	data, err := io.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("read backup: %w", err)
	}
	var doc struct {
		Todos    *[]model.Task   `json:"todos"`
		Profile  json.RawMessage `json:"profile"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return res, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if doc.Todos == nil && isAbsent(doc.Profile) && isAbsent(doc.Settings) {
		return res, fmt.Errorf("%w: no todos, profile or settings", ErrMalformedBackup)
	}

	// Partial objects are merged onto the defaults; everything is checked
	// before the first write so a bad document changes nothing.
	settings := model.DefaultSettings()
	if !isAbsent(doc.Settings) {
		if err := json.Unmarshal(doc.Settings, &settings); err != nil {
			return res, fmt.Errorf("%w: settings: %v", ErrMalformedBackup, err)
		}
		if _, err := model.ParseTheme(string(settings.Theme)); err != nil {
			return res, fmt.Errorf("%w: settings: %v", ErrMalformedBackup, err)
		}
	}
	profile := model.DefaultProfile()
	if !isAbsent(doc.Profile) {
		if err := json.Unmarshal(doc.Profile, &profile); err != nil {
			return res, fmt.Errorf("%w: profile: %v", ErrMalformedBackup, err)
		}
	}

	if !isAbsent(doc.Settings) {
		if err := s.settings.SaveSettings(ctx, settings); err != nil {
			return res, fmt.Errorf("import settings: %w", err)
		}
		res.Settings = true
	}
	if !isAbsent(doc.Profile) {
		if err := s.settings.SaveProfile(ctx, profile); err != nil {
			return res, fmt.Errorf("import profile: %w", err)
		}
		res.Profile = true
	}
	if opts.Tasks && doc.Todos != nil {
		if err := s.store.ReplaceTasks(ctx, *doc.Todos); err != nil {
			return res, fmt.Errorf("import tasks: %w", err)
		}
		res.Tasks = len(s.store.Tasks())
	}

	s.logger.Info("backup imported",
		zap.Bool("settings", res.Settings),
		zap.Bool("profile", res.Profile),
		zap.Int("tasks", res.Tasks))
	return res, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
