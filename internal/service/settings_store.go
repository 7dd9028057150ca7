package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// SettingsKey is the storage key holding the serialized CountySettings.
const SettingsKey = "settings"

// KeyValueStore is the durable storage behind SettingsStore.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// SettingsStore is the single source of truth for the selected county.
// Updates replace the whole value; there are no partial merges.
type SettingsStore struct {
	kv KeyValueStore

	mu        sync.RWMutex
	current   models.CountySettings
	listeners []func(models.CountySettings)
}

// NewSettingsStore constructs a store holding the default (empty) settings.
func NewSettingsStore(kv KeyValueStore) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// Get returns the current in-memory settings.
func (s *SettingsStore) Get() models.CountySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to be called with the new value after every change.
func (s *SettingsStore) Subscribe(fn func(models.CountySettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set replaces the settings and persists them. A persistence failure is
// logged and returned wrapped in utils.ErrPersistence, but the in-memory
// value stays updated.
func (s *SettingsStore) Set(ctx context.Context, settings models.CountySettings) error {
	s.replace(settings)

	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: encode settings: %w", utils.ErrPersistence, err)
	}
	if err := s.kv.Set(ctx, SettingsKey, string(payload), 0); err != nil {
		log.Warn().Err(err).Str("county", settings.SelectedCounty).Msg("Failed to persist settings")
		return fmt.Errorf("%w: %w", utils.ErrPersistence, err)
	}
	log.Debug().Str("county", settings.SelectedCounty).Msg("Settings persisted")
	return nil
}

// LoadPersisted reads the stored settings once at startup. Missing, unreadable
// or corrupt data leaves the current value untouched and reports false.
func (s *SettingsStore) LoadPersisted(ctx context.Context) (models.CountySettings, bool) {
	raw, err := s.kv.Get(ctx, SettingsKey)
	if err != nil {
		log.Debug().Err(err).Msg("No persisted settings loaded")
		return models.CountySettings{}, false
	}

	var settings models.CountySettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		log.Warn().Err(err).Msg("Ignoring corrupt persisted settings")
		return models.CountySettings{}, false
	}

	s.replace(settings)
	log.Info().Str("county", settings.SelectedCounty).Msg("Settings loaded")
	return settings, true
}

func (s *SettingsStore) replace(settings models.CountySettings) {
	s.mu.Lock()
	s.current = settings
	listeners := append([]func(models.CountySettings){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(settings)
	}
}
