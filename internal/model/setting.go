package model

import "time"

// ConsoleSetting represents a key-value pair for console-wide configuration.
type ConsoleSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Theme is the console colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// UpdateThemeRequest is the payload for explicitly setting the theme.
type UpdateThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}
