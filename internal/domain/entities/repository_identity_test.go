//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

func TestNewRepositoryIdentity(t *testing.T) {
	t.Parallel()

	t.Run("should trim fields and strip the refs/heads prefix", func(t *testing.T) {
		t.Parallel()

		// given
		owner, repo, branch := "  xaxela ", "myweb\n", "refs/heads/main"

		// when
		identity, err := entities.NewRepositoryIdentity(owner, repo, branch)

		// then
		require.NoError(t, err)
		assert.Equal(t, "xaxela", identity.Owner)
		assert.Equal(t, "myweb", identity.RepoName)
		assert.Equal(t, "main", identity.Branch)
	})

	t.Run("should reject missing fields and name them", func(t *testing.T) {
		t.Parallel()

		// given
		owner, repo, branch := "xaxela", " ", ""

		// when
		_, err := entities.NewRepositoryIdentity(owner, repo, branch)

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
		assert.Contains(t, err.Error(), "repo, branch")
	})
}

func TestRepositoryIdentity(t *testing.T) {
	t.Parallel()

	t.Run("should default to the club site repository", func(t *testing.T) {
		t.Parallel()

		// given / when
		identity := entities.DefaultRepositoryIdentity()

		// then
		assert.Equal(t, "xaxela/myweb@main", identity.String())
		assert.True(t, identity.IsComplete())
	})

	t.Run("should build the Git Data ref path", func(t *testing.T) {
		t.Parallel()

		// given
		identity := entities.RepositoryIdentity{Owner: "o", RepoName: "r", Branch: "gh-pages"}

		// when
		ref := identity.BranchRef()

		// then
		assert.Equal(t, "heads/gh-pages", ref)
	})

	t.Run("should not be complete when any field is empty", func(t *testing.T) {
		t.Parallel()

		tests := []entities.RepositoryIdentity{
			{RepoName: "r", Branch: "b"},
			{Owner: "o", Branch: "b"},
			{Owner: "o", RepoName: "r"},
			{},
		}
		for _, identity := range tests {
			assert.False(t, identity.IsComplete(), identity.String())
		}
	})
}
