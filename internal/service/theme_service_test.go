package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
	"taskflow/internal/storage"
)

func TestThemeDefaultsToSystem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	assert.Equal(t, model.ThemeSystem, f.themes.Theme(ctx))

	require.NoError(t, f.kv.Set(ctx, storage.KeyTheme, "neon"))
	assert.Equal(t, model.ThemeSystem, f.themes.Theme(ctx))
}

func TestThemeStoredRaw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.themes.SetTheme(ctx, model.ThemeDark))

	raw, _, _ := f.kv.Get(ctx, storage.KeyTheme)
	assert.Equal(t, "dark", raw)
	assert.True(t, f.themes.IsDark(ctx, false))
}

func TestThemeToggle(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		start      model.Theme
		systemDark bool
		want       model.Theme
	}{
		{model.ThemeLight, true, model.ThemeDark},
		{model.ThemeDark, false, model.ThemeLight},
		{model.ThemeSystem, true, model.ThemeLight},
		{model.ThemeSystem, false, model.ThemeDark},
	}
	for _, tt := range tests {
		f := newFixture(t)
		require.NoError(t, f.themes.SetTheme(ctx, tt.start))
		got, err := f.themes.Toggle(ctx, tt.systemDark)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "toggle from %s (systemDark=%t)", tt.start, tt.systemDark)
		assert.Equal(t, tt.want, f.themes.Theme(ctx))
	}
}
