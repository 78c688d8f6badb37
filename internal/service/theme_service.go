package service

import (
	"context"

	"go.uber.org/zap"

	"taskflow/internal/model"
	"taskflow/internal/storage"
)

// ThemeService keeps the appearance preference under the "theme" key.
type ThemeService struct {
	db     *storage.Adapter
	logger *zap.Logger
}

func NewThemeService(db *storage.Adapter, logger *zap.Logger) *ThemeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeService{db: db, logger: logger}
}

// Theme returns the stored theme, or system when unset or unrecognised.
func (s *ThemeService) Theme(ctx context.Context) model.Theme {
	raw, ok := s.db.LoadString(ctx, storage.KeyTheme)
	if !ok {
		return model.ThemeSystem
	}
	theme, err := model.ParseTheme(raw)
	if err != nil {
		s.logger.Warn("ignore stored theme", zap.String("value", raw))
		return model.ThemeSystem
	}
	return theme
}

func (s *ThemeService) SetTheme(ctx context.Context, theme model.Theme) error {
	return s.db.SaveString(ctx, storage.KeyTheme, string(theme))
}

// IsDark resolves the theme against the system appearance.
func (s *ThemeService) IsDark(ctx context.Context, systemDark bool) bool {
	return resolveDark(s.Theme(ctx), systemDark)
}

// Toggle switches to the opposite of what is currently shown. A system
// theme becomes an explicit light or dark one.
func (s *ThemeService) Toggle(ctx context.Context, systemDark bool) (model.Theme, error) {
	next := model.ThemeDark
	if resolveDark(s.Theme(ctx), systemDark) {
		next = model.ThemeLight
	}
	return next, s.SetTheme(ctx, next)
}

func resolveDark(theme model.Theme, systemDark bool) bool {
	if theme == model.ThemeSystem {
		return systemDark
	}
	return theme == model.ThemeDark
}
