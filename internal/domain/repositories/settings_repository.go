package repositories

import "github.com/rios0rios0/clubcms/internal/domain/entities"

// SettingsRepository persists the durable CMS settings.
type SettingsRepository interface {
	// Load returns the stored settings, or the defaults when nothing is stored yet.
	Load() (*entities.Settings, error)
	Save(settings *entities.Settings) error
	Location() string
}

// SettingsRepositoryFactory opens the settings store at path; an empty path
// means "auto-detect".
type SettingsRepositoryFactory func(path string) SettingsRepository
