//go:build unit

package commands_test

import (
	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
	doubles "github.com/rios0rios0/clubcms/test/infrastructure/repositorydoubles"
)

const testToken = "ghp_test-token"

func newTestSession(spy *doubles.SpyGitDataRepository, token string) *commands.Session {
	credentials := commands.NewCredentialStore(&doubles.StubSettingsRepository{}, entities.NewDefaultSettings(), token)
	return &commands.Session{
		Credentials: credentials,
		Pipeline:    commands.NewCommitPipeline(credentials, spy.Factory()),
	}
}

func isHexSHA(sha string) bool {
	if len(sha) != 40 {
		return false
	}
	for _, c := range sha {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
