//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
	doubles "github.com/rios0rios0/clubcms/test/infrastructure/repositorydoubles"
)

func TestStatusCommand(t *testing.T) {
	t.Parallel()

	t.Run("should report the session without contacting the remote", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		session := newTestSession(spy, testToken)
		command := newStatusCommand()

		// when
		report, err := command.Execute(context.Background(), session, commands.StatusOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultRepositoryIdentity(), report.Identity)
		assert.True(t, report.HasToken)
		assert.True(t, report.Ready)
		assert.Nil(t, report.Head)
		assert.Equal(t, "memory://settings.yaml", report.SettingsLocation)
		assert.Zero(t, spy.NetworkCalls())
	})

	t.Run("should resolve the head when verifying", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		session := newTestSession(spy, testToken)
		command := newStatusCommand()

		// when
		report, err := command.Execute(context.Background(), session, commands.StatusOptions{Verify: true})

		// then
		require.NoError(t, err)
		require.NotNil(t, report.Head)
		assert.Equal(t, spy.CurrentHead(), *report.Head)
	})

	t.Run("should return the report with the error when verification fails", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		spy.ResolveErr = &entities.RemoteError{Kind: entities.ErrAuth, StatusCode: 401, Message: "Bad credentials"}
		session := newTestSession(spy, testToken)
		command := newStatusCommand()

		// when
		report, err := command.Execute(context.Background(), session, commands.StatusOptions{Verify: true})

		// then
		require.ErrorIs(t, err, entities.ErrAuth)
		require.NotNil(t, report)
		assert.Nil(t, report.Head)
		assert.Nil(t, report.Counts)
	})

	t.Run("should count the content of every section when verifying", func(t *testing.T) {
		t.Parallel()

		// given
		feed := []byte(`{"updates":[{"title":"a","date":"2026-01-02","content":"x"},{"title":"b","date":"2026-01-01","content":"y"}]}`)
		spy := doubles.NewSpyGitDataRepository(map[string][]byte{
			"IMAGES/slider/slidder1.jpg":    pngImage,
			"IMAGES/slider/slidder2.jpg":    pngImage,
			"IMAGES/slider/notes.txt":       []byte("not an image"),
			"IMAGES/TEAM/team-member-1.png": pngImage,
			entities.UpdatesPath:            feed,
		})
		session := newTestSession(spy, testToken)
		command := newStatusCommand()

		// when
		report, err := command.Execute(context.Background(), session, commands.StatusOptions{Verify: true})

		// then
		require.NoError(t, err)
		require.NotNil(t, report.Counts)
		assert.Equal(t, commands.SectionCounts{Slider: 2, Team: 1, Patrons: 0, Updates: 2}, *report.Counts)
	})

	t.Run("should not count anything without verification", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(map[string][]byte{"IMAGES/slider/slidder1.jpg": pngImage})
		session := newTestSession(spy, testToken)
		command := newStatusCommand()

		// when
		report, err := command.Execute(context.Background(), session, commands.StatusOptions{})

		// then
		require.NoError(t, err)
		assert.Nil(t, report.Counts)
		assert.Empty(t, spy.FileReads)
	})

	t.Run("should keep the head when counting fails", func(t *testing.T) {
		t.Parallel()

		// given
		spy := doubles.NewSpyGitDataRepository(nil)
		spy.ListErr = &entities.RemoteError{Kind: entities.ErrTransient, StatusCode: 503, Message: "unavailable"}
		session := newTestSession(spy, testToken)
		command := newStatusCommand()

		// when
		report, err := command.Execute(context.Background(), session, commands.StatusOptions{Verify: true})

		// then
		require.ErrorIs(t, err, entities.ErrTransient)
		require.NotNil(t, report.Head)
		assert.Nil(t, report.Counts)
	})
}

func newStatusCommand() *commands.StatusCommand {
	return commands.NewStatusCommand(
		commands.NewMediaCommand(),
		commands.NewUpdatesCommand(doubles.NewInMemoryFeedCache()),
	)
}
