package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/client/repositories/settings"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// SettingsStore reads and writes the persisted theme and grid density.
// Missing or invalid stored values fall back to the defaults, which are
// then written back.
type SettingsStore interface {
	Load(ctx context.Context) (models.Settings, error)
	Current() models.Settings
	SetTheme(ctx context.Context, theme string) (models.Settings, error)
	SetGridSize(ctx context.Context, size string) (models.Settings, error)
}

type settingsStore struct {
	repo settings.Repository
	log  logging.Logger

	mu  sync.RWMutex
	cur models.Settings
}

func NewSettingsStore(repo settings.Repository, log logging.Logger) SettingsStore {
	return &settingsStore{repo: repo, log: log, cur: models.DefaultSettings()}
}

func (s *settingsStore) Load(ctx context.Context) (models.Settings, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return s.Current(), fmt.Errorf("load settings: %w", err)
	}

	next := models.DefaultSettings()
	if v, ok := stored[settings.KeyTheme]; ok {
		if models.ValidateTheme(v) == nil {
			next.Theme = v
		} else {
			s.log.Warn(ctx, "ignoring stored theme", "value", v)
		}
	}
	if v, ok := stored[settings.KeyGridSize]; ok {
		if _, err := models.GridColumns(v); err == nil {
			next.GridSize = v
		} else {
			s.log.Warn(ctx, "ignoring stored grid size", "value", v)
		}
	}

	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()

	normalized := map[string]string{settings.KeyTheme: next.Theme, settings.KeyGridSize: next.GridSize}
	if stored[settings.KeyTheme] != next.Theme || stored[settings.KeyGridSize] != next.GridSize {
		if err := s.repo.SetMany(ctx, normalized); err != nil {
			return next, fmt.Errorf("normalize settings: %w", err)
		}
	}
	return next, nil
}

func (s *settingsStore) Current() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// SetTheme persists theme and applies it immediately.
func (s *settingsStore) SetTheme(ctx context.Context, theme string) (models.Settings, error) {
	if err := models.ValidateTheme(theme); err != nil {
		return s.Current(), invalid("Unknown theme %q, choose light or dark.", theme)
	}
	return s.apply(ctx, settings.KeyTheme, theme, func(st *models.Settings) { st.Theme = theme })
}

// SetGridSize persists size ("auto" or 1-6 columns) and applies it immediately.
func (s *settingsStore) SetGridSize(ctx context.Context, size string) (models.Settings, error) {
	if _, err := models.GridColumns(size); err != nil {
		return s.Current(), invalid("Grid size must be auto or a number from 1 to %d.", models.MaxGridColumns)
	}
	return s.apply(ctx, settings.KeyGridSize, size, func(st *models.Settings) { st.GridSize = size })
}

// apply updates the in-memory value first so the view changes even when
// persisting fails.
func (s *settingsStore) apply(ctx context.Context, key, value string, fn func(*models.Settings)) (models.Settings, error) {
	s.mu.Lock()
	fn(&s.cur)
	cur := s.cur
	s.mu.Unlock()

	if err := s.repo.Set(ctx, key, value); err != nil {
		s.log.Error(ctx, "persist setting failed", "key", key, logging.Err(err))
		return cur, fmt.Errorf("save %s: %w", key, err)
	}
	return cur, nil
}
