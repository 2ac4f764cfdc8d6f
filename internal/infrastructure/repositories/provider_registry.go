package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	domainRepos "github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// ProviderRegistry manages all registered Git hosting implementations.
type ProviderRegistry struct {
	providers map[string]domainRepos.GitDataRepositoryFactory
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]domainRepos.GitDataRepositoryFactory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
func (r *ProviderRegistry) Register(name string, factory domainRepos.GitDataRepositoryFactory) {
	r.providers[name] = factory
}

// Get returns a configured repository for the provider named in settings.
func (r *ProviderRegistry) Get(settings *entities.Settings, token string) (domainRepos.GitDataRepository, error) {
	name := entities.DefaultProvider
	if settings != nil && settings.Provider != "" {
		name = settings.Provider
	}
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider type %q", entities.ErrValidation, name)
	}
	return factory(settings, token)
}

// Names returns the registered provider names, sorted.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
