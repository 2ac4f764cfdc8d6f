package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// OpenSession is the interface for loading settings and the session token.
type OpenSession interface {
	Execute(ctx context.Context, opts SessionOptions) (*Session, error)
}

// SessionOptions come from the global command line flags.
type SessionOptions struct {
	ConfigPath string
	Token      string
}

// Session bundles the credential store with the pipeline bound to it.
type Session struct {
	Credentials *CredentialStore
	Pipeline    *CommitPipeline
}

// OpenSessionCommand loads the durable settings and the session token.
type OpenSessionCommand struct {
	settingsFactory   repositories.SettingsRepositoryFactory
	sessionRepository repositories.SessionRepository
	gitDataFactory    repositories.GitDataRepositoryFactory
}

// NewOpenSessionCommand creates a new OpenSessionCommand.
func NewOpenSessionCommand(
	settingsFactory repositories.SettingsRepositoryFactory,
	sessionRepository repositories.SessionRepository,
	gitDataFactory repositories.GitDataRepositoryFactory,
) *OpenSessionCommand {
	return &OpenSessionCommand{
		settingsFactory:   settingsFactory,
		sessionRepository: sessionRepository,
		gitDataFactory:    gitDataFactory,
	}
}

// Execute opens a session. A flag token wins over the environment.
func (it *OpenSessionCommand) Execute(ctx context.Context, opts SessionOptions) (*Session, error) {
	settingsRepository := it.settingsFactory(opts.ConfigPath)
	settings, err := settingsRepository.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logger.Debugf("Using settings from %s (%s)", settingsRepository.Location(), settings.RepositoryIdentity)

	token := opts.Token
	if token == "" {
		token, err = it.sessionRepository.LoadToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read session token: %w", err)
		}
	}

	credentials := NewCredentialStore(settingsRepository, settings, token)
	return &Session{
		Credentials: credentials,
		Pipeline:    NewCommitPipeline(credentials, it.gitDataFactory),
	}, nil
}
