//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/clubcms/test/infrastructure/repositorydoubles"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should hand out the provider named in the settings", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		reg := repositories.NewProviderRegistry()
		reg.Register("test-provider", spy.Factory())
		settings := entities.NewDefaultSettings()
		settings.Provider = "test-provider"

		// when
		repo, err := reg.Get(settings, "fake-token")

		// then
		require.NoError(t, err)
		assert.Same(t, spy, repo)
		assert.Equal(t, []string{"fake-token"}, spy.FactoryTokens)
	})

	t.Run("should fall back to github when settings name no provider", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		reg := repositories.NewProviderRegistry()
		reg.Register(entities.DefaultProvider, spy.Factory())

		// when
		repo, err := reg.Get(&entities.Settings{}, "fake-token")

		// then
		require.NoError(t, err)
		assert.Same(t, spy, repo)
	})

	t.Run("should return a validation error for an unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewProviderRegistry()
		settings := entities.NewDefaultSettings()
		settings.Provider = "nonexistent"

		// when
		repo, err := reg.Get(settings, "token")

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
		assert.Nil(t, repo)
		assert.Contains(t, err.Error(), "unknown provider type")
	})

	t.Run("should list registered provider names sorted", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewProviderRegistry()
		reg.Register("gitlab", doubles.NewSpyGitDataRepository(nil).Factory())
		reg.Register("github", doubles.NewSpyGitDataRepository(nil).Factory())

		// when
		names := reg.Names()

		// then
		assert.Equal(t, []string{"github", "gitlab"}, names)
	})
}
