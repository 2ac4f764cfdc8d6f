package session

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// environment lists where a session token may come from, most specific first.
type environment struct {
	CMSToken    string `env:"CLUBCMS_GITHUB_TOKEN"`
	GitHubToken string `env:"GITHUB_TOKEN"`
	GHToken     string `env:"GH_TOKEN"`
}

// EnvSessionRepository reads the session token from the process environment.
type EnvSessionRepository struct {
	lookuper envconfig.Lookuper
}

// NewEnvSessionRepository reads from the real process environment.
func NewEnvSessionRepository() repositories.SessionRepository {
	return &EnvSessionRepository{lookuper: envconfig.OsLookuper()}
}

// NewEnvSessionRepositoryFromMap reads from a fixed map; used by tests.
func NewEnvSessionRepositoryFromMap(values map[string]string) repositories.SessionRepository {
	return &EnvSessionRepository{lookuper: envconfig.MapLookuper(values)}
}

func (r *EnvSessionRepository) LoadToken(ctx context.Context) (string, error) {
	var env environment
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: r.lookuper,
	}); err != nil {
		return "", fmt.Errorf("failed to read token from environment: %w", err)
	}

	for _, candidate := range []string{env.CMSToken, env.GitHubToken, env.GHToken} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", nil
}
