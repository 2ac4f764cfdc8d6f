package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/clubcms/internal/domain/repositories"
	"github.com/rios0rios0/clubcms/internal/infrastructure/repositories/cache"
	ghRepo "github.com/rios0rios0/clubcms/internal/infrastructure/repositories/github"
	"github.com/rios0rios0/clubcms/internal/infrastructure/repositories/session"
	"github.com/rios0rios0/clubcms/internal/infrastructure/repositories/settings"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register(ghRepo.Name(), ghRepo.NewGitDataRepository)
		return reg
	}); err != nil {
		return err
	}
	if err := container.Provide(func(reg *ProviderRegistry) domainRepos.GitDataRepositoryFactory {
		return reg.Get
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.SettingsRepositoryFactory {
		return settings.NewYAMLSettingsRepository
	}); err != nil {
		return err
	}
	if err := container.Provide(session.NewEnvSessionRepository); err != nil {
		return err
	}
	if err := container.Provide(cache.NewRistrettoFeedCache); err != nil {
		return err
	}

	return nil
}
