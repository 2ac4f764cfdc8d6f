//go:build unit

package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

func TestSettings(t *testing.T) {
	t.Parallel()

	t.Run("should start from the default repository and github", func(t *testing.T) {
		t.Parallel()

		// given / when
		settings := entities.NewDefaultSettings()

		// then
		assert.Equal(t, entities.DefaultRepositoryIdentity(), settings.RepositoryIdentity)
		assert.Equal(t, entities.DefaultProvider, settings.Provider)
		assert.Equal(t, 4, settings.BlobConcurrency)
		assert.Equal(t, time.Hour, settings.FeedTTL)
		assert.Equal(t, 30*time.Second, settings.RequestTimeout)
		require.NoError(t, settings.Validate())
	})

	t.Run("should fill zero values and cap the blob concurrency", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{BlobConcurrency: 100}

		// when
		settings.ApplyDefaults()

		// then
		assert.Equal(t, entities.DefaultProvider, settings.Provider)
		assert.Equal(t, 16, settings.BlobConcurrency)
		assert.Equal(t, time.Hour, settings.FeedTTL)
		assert.Equal(t, 30*time.Second, settings.RequestTimeout)
	})

	t.Run("should reject a relative API URL", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.NewDefaultSettings()
		settings.APIURL = "ghe.example.com/api/v3"

		// when
		err := settings.Validate()

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("should accept an enterprise API URL", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.NewDefaultSettings()
		settings.APIURL = "https://ghe.example.com/api/v3"

		// when
		err := settings.Validate()

		// then
		require.NoError(t, err)
	})
}
