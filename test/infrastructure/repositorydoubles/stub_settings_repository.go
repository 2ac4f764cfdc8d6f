//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// StubSettingsRepository implements repositories.SettingsRepository in memory.
type StubSettingsRepository struct {
	mu sync.Mutex

	Path     string
	Settings *entities.Settings
	LoadErr  error
	SaveErr  error

	// spy: every settings value passed to Save
	Saved []entities.Settings
	// spy: paths requested through Factory
	OpenedPaths []string
}

var _ repositories.SettingsRepository = (*StubSettingsRepository)(nil)

// Factory returns a SettingsRepositoryFactory that records the path and hands
// out this stub.
func (s *StubSettingsRepository) Factory() repositories.SettingsRepositoryFactory {
	return func(path string) repositories.SettingsRepository {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.OpenedPaths = append(s.OpenedPaths, path)
		return s
	}
}

func (s *StubSettingsRepository) Load() (*entities.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.Settings == nil {
		return entities.NewDefaultSettings(), nil
	}
	copied := *s.Settings
	return &copied, nil
}

func (s *StubSettingsRepository) Save(settings *entities.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saved = append(s.Saved, *settings)
	if s.SaveErr != nil {
		return s.SaveErr
	}
	copied := *settings
	s.Settings = &copied
	return nil
}

func (s *StubSettingsRepository) Location() string {
	if s.Path == "" {
		return "memory://settings.yaml"
	}
	return s.Path
}
