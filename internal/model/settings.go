package model

import (
	"fmt"
	"strings"
)

// Theme is the appearance preference stored under the "theme" key.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme accepts light, dark or system.
func ParseTheme(raw string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(raw))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", raw)
	}
}

// AppSettings holds cosmetic preferences ("appSettings" key).
type AppSettings struct {
	Theme           Theme `json:"theme"`
	Notifications   bool  `json:"notifications"`
	AutoSave        bool  `json:"autoSave"`
	CompletionSound bool  `json:"completionSound"`
}

// DefaultSettings mirrors a fresh install.
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:           ThemeSystem,
		Notifications:   true,
		AutoSave:        true,
		CompletionSound: false,
	}
}

// UserProfile describes the single local user ("userProfile" key).
type UserProfile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

const defaultAvatar = "https://images.pexels.com/photos/1587009/pexels-photo-1587009.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop"

// DefaultProfile mirrors a fresh install.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:   "TaskFlow User",
		Email:  "user@taskflow.com",
		Avatar: defaultAvatar,
	}
}

// Backup is the full-state export document.
type Backup struct {
	Todos      []Task       `json:"todos"`
	Profile    *UserProfile `json:"profile,omitempty"`
	Settings   *AppSettings `json:"settings,omitempty"`
	ExportDate Timestamp    `json:"exportDate"`
}
