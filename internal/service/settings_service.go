package service

import (
	"context"
	"fmt"

	"taskflow/internal/model"
	"taskflow/internal/storage"
)

// SettingsService reads and writes the user's cosmetic preferences and profile.
type SettingsService struct {
	db *storage.Adapter
}

func NewSettingsService(db *storage.Adapter) *SettingsService {
	return &SettingsService{db: db}
}

// Settings falls back to defaults on missing or malformed data.
func (s *SettingsService) Settings(ctx context.Context) model.AppSettings {
	settings := model.DefaultSettings()
	if !s.db.Load(ctx, storage.KeyAppSettings, &settings) {
		return model.DefaultSettings()
	}
	return settings
}

func (s *SettingsService) SaveSettings(ctx context.Context, settings model.AppSettings) error {
	if _, err := model.ParseTheme(string(settings.Theme)); err != nil {
		return err
	}
	return s.db.Save(ctx, storage.KeyAppSettings, settings)
}

// Profile falls back to defaults on missing or malformed data.
func (s *SettingsService) Profile(ctx context.Context) model.UserProfile {
	profile := model.DefaultProfile()
	if !s.db.Load(ctx, storage.KeyUserProfile, &profile) {
		return model.DefaultProfile()
	}
	return profile
}

func (s *SettingsService) SaveProfile(ctx context.Context, profile model.UserProfile) error {
	return s.db.Save(ctx, storage.KeyUserProfile, profile)
}

// ResetSettings drops the stored preferences so defaults apply again.
func (s *SettingsService) ResetSettings(ctx context.Context) error {
	return s.db.Remove(ctx, storage.KeyAppSettings)
}

// ResetProfile drops the stored profile so the default one applies again.
func (s *SettingsService) ResetProfile(ctx context.Context) error {
	return s.db.Remove(ctx, storage.KeyUserProfile)
}

// StoredKeys lists the keys ClearAll would erase.
func (s *SettingsService) StoredKeys(ctx context.Context) ([]string, error) {
	keys, err := s.db.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// ClearAll removes every stored key, tasks included.
func (s *SettingsService) ClearAll(ctx context.Context) error {
	if err := s.db.Clear(ctx); err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	return nil
}
