package config

import (
	"sync"

	"github.com/liveicon/liveicon/internal/models"
)

// SettingsStore caches the global settings for long-running agents.
// Reload is called whenever settings.yaml changes on disk.
type SettingsStore struct {
	mu       sync.RWMutex
	settings *models.Settings
}

// NewSettingsStore loads the current settings into a new store.
func NewSettingsStore() (*SettingsStore, error) {
	s := &SettingsStore{}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSettingsStoreWith creates a store holding the given settings.
func NewSettingsStoreWith(settings *models.Settings) *SettingsStore {
	return &SettingsStore{settings: settings}
}

// Get returns a copy of the cached settings.
func (s *SettingsStore) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.settings
}

// Reload re-reads settings.yaml. On error the cached settings are kept.
func (s *SettingsStore) Reload() error {
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

// Update applies fn to the settings, persists them and refreshes the cache.
func (s *SettingsStore) Update(fn func(*models.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := *s.settings
	fn(&updated)
	if err := SaveSettings(&updated); err != nil {
		return err
	}
	s.settings = &updated
	return nil
}
