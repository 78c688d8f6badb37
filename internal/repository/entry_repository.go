package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one key of the local store.
type Entry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// EntryRepository is a storage.KV backed by the entries table.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	switch {
	case err == nil:
		return entry.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("find entry: %w", err)
	}
}

// Set upserts key.
func (r *EntryRepository) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	return nil
}

func (r *EntryRepository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).Model(&Entry{}).Order("key ASC").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return keys, nil
}
