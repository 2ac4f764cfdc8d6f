//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/clubcms/test/infrastructure/repositorydoubles"
)

func feedFile(t *testing.T, titles ...string) map[string][]byte {
	t.Helper()
	document := entities.UpdatesDocument{Updates: []entities.Update{}}
	for _, title := range titles {
		document.Updates = append(document.Updates, entitybuilders.NewUpdateBuilder().WithTitle(title).BuildUpdate())
	}
	content, err := json.MarshalIndent(document, "", "  ")
	require.NoError(t, err)
	return map[string][]byte{entities.UpdatesPath: content}
}

func titlesOf(document *entities.UpdatesDocument) []string {
	titles := make([]string, 0, len(document.Updates))
	for _, update := range document.Updates {
		titles = append(titles, update.Title)
	}
	return titles
}

func TestUpdatesCommandList(t *testing.T) {
	t.Parallel()

	t.Run("should read the feed once and then serve it from the cache", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "b", "a"))
		session := newTestSession(spy, testToken)
		cache := doubles.NewInMemoryFeedCache()
		command := commands.NewUpdatesCommand(cache)

		// when
		first, err := command.List(context.Background(), session)
		require.NoError(t, err)
		second, err := command.List(context.Background(), session)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, titlesOf(first))
		assert.Equal(t, first, second)
		assert.Len(t, spy.FileReads, 1)
		assert.Equal(t, 1, cache.Hits)
		assert.Equal(t, []time.Duration{time.Hour}, cache.SetTTLs)
		assert.Equal(t, []string{"xaxela/myweb@main:UPDATES/updates.json"}, cache.SetKeys)
	})

	t.Run("should return an empty feed when the file does not exist yet", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())

		// when
		document, err := command.List(context.Background(), session)

		// then
		require.NoError(t, err)
		assert.NotNil(t, document.Updates)
		assert.Empty(t, document.Updates)
	})

	t.Run("should reject a malformed feed file", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(map[string][]byte{entities.UpdatesPath: []byte("<html>")})
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())

		// when
		_, err := command.List(context.Background(), session)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid updates document")
	})

	t.Run("should fail with ErrAuth without a token", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "a"))
		session := newTestSession(spy, "")
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())

		// when
		_, err := command.List(context.Background(), session)

		// then
		require.ErrorIs(t, err, entities.ErrAuth)
		assert.Empty(t, spy.FileReads)
	})
}

func TestUpdatesCommandMutations(t *testing.T) {
	t.Parallel()

	t.Run("should prepend a new update and commit the whole feed", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "older"))
		session := newTestSession(spy, testToken)
		cache := doubles.NewInMemoryFeedCache()
		command := commands.NewUpdatesCommand(cache)
		update := entitybuilders.NewUpdateBuilder().WithTitle("Cup final").BuildUpdate()

		// when
		result, err := command.Add(context.Background(), session, update)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"Cup final", "older"}, titlesOf(result.Document))
		assert.Equal(t, result.Commit.SHA, spy.CurrentHead().CommitSHA)
		assert.Equal(t, `Add update "Cup final" via CMS`, spy.CommitInputs[0].Message)
		assert.Equal(t, []string{"xaxela/myweb@main:UPDATES/updates.json"}, cache.Invalidations)

		var stored entities.UpdatesDocument
		require.NoError(t, json.Unmarshal(spy.Files[entities.UpdatesPath], &stored))
		assert.Equal(t, []string{"Cup final", "older"}, titlesOf(&stored))
	})

	t.Run("should start from the remote feed even when the cache is stale", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "a"))
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())
		_, err := command.List(context.Background(), session)
		require.NoError(t, err)
		spy.AdvanceBranch(entities.UpdatesPath, feedFile(t, "from-someone-else", "a")[entities.UpdatesPath])

		// when
		result, err := command.Add(context.Background(), session, entitybuilders.NewUpdateBuilder().WithTitle("mine").BuildUpdate())

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"mine", "from-someone-else", "a"}, titlesOf(result.Document))
	})

	t.Run("should serve the new feed after a mutation", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "a"))
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())
		_, err := command.List(context.Background(), session)
		require.NoError(t, err)

		// when
		_, err = command.Add(context.Background(), session, entitybuilders.NewUpdateBuilder().WithTitle("b").BuildUpdate())
		require.NoError(t, err)
		document, err := command.List(context.Background(), session)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, titlesOf(document))
	})

	t.Run("should edit an update by index", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "a", "b", "c"))
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())

		// when
		result, err := command.Edit(context.Background(), session, 2,
			entitybuilders.NewUpdateBuilder().WithTitle("C").BuildUpdate())

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "C"}, titlesOf(result.Document))
		assert.Equal(t, `Edit update "C" via CMS`, spy.CommitInputs[0].Message)
	})

	t.Run("should delete an update by index", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "a", "b"))
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())

		// when
		result, err := command.Delete(context.Background(), session, 0)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, titlesOf(result.Document))
		assert.Equal(t, "Update news feed via CMS", spy.CommitInputs[0].Message)
	})

	t.Run("should keep unmanaged fields through an edit and a delete", func(t *testing.T) {
		t.Parallel()

		// given
		feed := []byte(`{"updates":[` +
			`{"title":"a","date":"2026-01-02","content":"x","image":"IMAGES/a.jpg"},` +
			`{"title":"b","date":"2026-01-01","content":"y","link":"https://club.example/b"}]}`)
		spy := doubles.NewSpyGitDataRepository(map[string][]byte{entities.UpdatesPath: feed})
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())

		// when
		_, editErr := command.Edit(context.Background(), session, 0,
			entitybuilders.NewUpdateBuilder().WithTitle("A & B").BuildUpdate())
		_, deleteErr := command.Delete(context.Background(), session, 1)

		// then
		require.NoError(t, editErr)
		require.NoError(t, deleteErr)
		stored := string(spy.Files[entities.UpdatesPath])
		assert.Contains(t, stored, `"image": "IMAGES/a.jpg"`)
		assert.Contains(t, stored, `"title": "A & B"`)
		assert.NotContains(t, stored, `"link"`)

		var document map[string][]map[string]any
		require.NoError(t, json.Unmarshal(spy.Files[entities.UpdatesPath], &document))
		require.Len(t, document["updates"], 1)
		assert.Equal(t, "IMAGES/a.jpg", document["updates"][0]["image"])
	})

	t.Run("should not commit when the index is out of range", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(feedFile(t, "a"))
		session := newTestSession(spy, testToken)
		cache := doubles.NewInMemoryFeedCache()
		command := commands.NewUpdatesCommand(cache)

		// when
		_, err := command.Delete(context.Background(), session, 5)

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
		assert.Zero(t, spy.NetworkCalls())
		assert.Empty(t, cache.Invalidations)
	})

	t.Run("should not commit an invalid update", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		session := newTestSession(spy, testToken)
		command := commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache())

		// when
		_, err := command.Add(context.Background(), session, entitybuilders.NewUpdateBuilder().WithDate("yesterday").BuildUpdate())

		// then
		require.ErrorIs(t, err, entities.ErrValidation)
		assert.Zero(t, spy.NetworkCalls())
	})
}
