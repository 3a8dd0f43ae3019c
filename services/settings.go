package services

import (
	"github.com/bobinette/inkwell"
	"github.com/bobinette/inkwell/errors"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

type SettingsService struct {
	store  *replica.Store
	engine *syncer.Engine
}

func NewSettingsService(store *replica.Store, engine *syncer.Engine) *SettingsService {
	return &SettingsService{
		store:  store,
		engine: engine,
	}
}

// Get returns the settings singleton, falling back on the defaults
// when nothing has been saved yet.
func (s *SettingsService) Get() inkwell.Settings {
	if settings, ok := s.store.Settings(); ok {
		return settings
	}
	return inkwell.DefaultSettings()
}

// Save merges a partial update into the settings singleton. Settings
// are not authorization-sensitive beyond requiring a signed-in user.
func (s *SettingsService) Save(session Session, patch inkwell.SettingsPatch) (inkwell.Settings, error) {
	if session.IsGuest() {
		return inkwell.Settings{}, errors.New("permission denied", errors.Forbidden())
	}

	snapshot := s.store.SettingsSnapshot()
	settings := patch.Apply(s.Get())
	s.store.SetSettings(settings)
	s.engine.PushSettings(snapshot)

	return settings, nil
}
