package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/repository"
)

var ErrInvalidTheme = errors.New("theme must be light or dark")

// SettingStore persists console settings.
type SettingStore interface {
	GetByKey(ctx context.Context, key string) (*model.ConsoleSetting, error)
	Upsert(ctx context.Context, key, value string) error
}

// ThemeService holds the console theme: loaded once by Init, written through on
// every change. It is the only reader and writer of the stored flag.
type ThemeService struct {
	store SettingStore
	log   zerolog.Logger

	mu      sync.RWMutex
	current model.Theme
}

func NewThemeService(store SettingStore, log zerolog.Logger) *ThemeService {
	return &ThemeService{
		store:   store,
		log:     log.With().Str("component", "theme_service").Logger(),
		current: model.ThemeLight,
	}
}

// Init reads the persisted theme. A missing or unknown value leaves light.
func (s *ThemeService) Init(ctx context.Context) error {
	setting, err := s.store.GetByKey(ctx, config.SettingKeyTheme)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			s.log.Info().Str("theme", string(model.ThemeLight)).Msg("No stored theme, using default")
			return nil
		}
		return fmt.Errorf("load theme: %w", err)
	}

	theme := model.Theme(setting.Value)
	if !theme.Valid() {
		s.log.Warn().Str("value", setting.Value).Msg("Ignoring unknown stored theme")
		return nil
	}

	s.mu.Lock()
	s.current = theme
	s.mu.Unlock()
	s.log.Info().Str("theme", string(theme)).Msg("Theme loaded")
	return nil
}

// Current returns the active theme.
func (s *ThemeService) Current() model.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Toggle flips the theme and persists it before it takes effect.
func (s *ThemeService) Toggle(ctx context.Context) (model.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, s.current.Toggled())
}

// Set persists an explicit theme.
func (s *ThemeService) Set(ctx context.Context, theme model.Theme) (model.Theme, error) {
	if !theme.Valid() {
		return "", ErrInvalidTheme
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, theme)
}

func (s *ThemeService) setLocked(ctx context.Context, theme model.Theme) (model.Theme, error) {
	if err := s.store.Upsert(ctx, config.SettingKeyTheme, string(theme)); err != nil {
		s.log.Error().Err(err).Msg("failed to persist theme")
		return s.current, fmt.Errorf("save theme: %w", err)
	}
	s.current = theme
	return theme, nil
}
