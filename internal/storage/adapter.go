package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Persisted keys.
const (
	KeyTodos       = "todos"
	KeyTodosSchema = KeyTodos + schemaSuffix
	KeyTheme       = "theme"
	KeyAppSettings = "appSettings"
	KeyUserProfile = "userProfile"
)

const schemaSuffix = "SchemaVersion"

// SchemaKey is the key holding the schema version of the value under key.
func SchemaKey(key string) string {
	return key + schemaSuffix
}

// Adapter serializes values to JSON on top of a KV.
// Reads never fail: a missing or unparsable value reports ok=false.
type Adapter struct {
	kv     KV
	logger *zap.Logger
}

func NewAdapter(kv KV, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{kv: kv, logger: logger}
}

// Load decodes the value at key into dst.
func (a *Adapter) Load(ctx context.Context, key string, dst any) bool {
	raw, ok := a.LoadString(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.logger.Warn("discard malformed value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// LoadString returns the raw value at key.
func (a *Adapter) LoadString(ctx context.Context, key string) (string, bool) {
	raw, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		a.logger.Warn("read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return raw, ok
}

// Save encodes v as JSON and writes it under key.
func (a *Adapter) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return a.SaveString(ctx, key, string(data))
}

// SaveString writes value unmodified.
func (a *Adapter) SaveString(ctx context.Context, key, value string) error {
	if err := a.kv.Set(ctx, key, value); err != nil {
		a.logger.Error("write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key; a missing key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Clear wipes every key.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Clear(ctx); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	return nil
}

// Keys lists the stored keys in sorted order.
func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	return a.kv.Keys(ctx)
}
