package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type failingKV struct {
	*Memory
	err error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(), nil)

	type profile struct {
		Name string `json:"name"`
	}
	require.NoError(t, a.Save(ctx, KeyUserProfile, profile{Name: "Ada"}))

	var got profile
	require.True(t, a.Load(ctx, KeyUserProfile, &got))
	assert.Equal(t, "Ada", got.Name)
}

func TestAdapterLoadMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	core, logs := observer.New(zap.WarnLevel)
	a := NewAdapter(kv, zap.New(core))

	var dst []int
	assert.False(t, a.Load(ctx, KeyTodos, &dst))
	assert.Zero(t, logs.Len(), "a missing key is not worth a warning")

	require.NoError(t, kv.Set(ctx, KeyTodos, "[1, 2,"))
	assert.False(t, a.Load(ctx, KeyTodos, &dst))
	assert.Nil(t, dst)

	entries := logs.FilterMessage("discard malformed value").All()
	require.Len(t, entries, 1)
	assert.Equal(t, KeyTodos, entries[0].ContextMap()["key"])
}

func TestAdapterRawStrings(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	a := NewAdapter(kv, nil)

	require.NoError(t, a.SaveString(ctx, KeyTheme, "dark"))
	raw, _, _ := kv.Get(ctx, KeyTheme)
	assert.Equal(t, "dark", raw, "theme is stored unquoted")
}

func TestAdapterBackendFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	a := NewAdapter(failingKV{Memory: NewMemory(), err: boom}, nil)

	var dst map[string]any
	assert.False(t, a.Load(ctx, KeyAppSettings, &dst))

	err := a.Save(ctx, KeyAppSettings, map[string]any{"x": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
