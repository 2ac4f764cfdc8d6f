package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// Configure is the interface for changing the repository identity.
type Configure interface {
	Execute(ctx context.Context, session *Session, opts ConfigureOptions) (*entities.Settings, error)
}

// ConfigureOptions holds the new values; blank fields keep their current value.
type ConfigureOptions struct {
	Owner  string
	Repo   string
	Branch string
	APIURL *string
	Token  string
}

// ConfigureCommand updates and persists the repository identity.
type ConfigureCommand struct{}

// NewConfigureCommand creates a new ConfigureCommand.
func NewConfigureCommand() *ConfigureCommand {
	return &ConfigureCommand{}
}

// Execute merges opts into the current identity, persists it, and keeps the
// token (if any) for the session only.
func (it *ConfigureCommand) Execute(
	_ context.Context,
	session *Session,
	opts ConfigureOptions,
) (*entities.Settings, error) {
	credentials := session.Credentials
	current := credentials.Identity()

	identity, err := entities.NewRepositoryIdentity(
		firstNonEmpty(opts.Owner, current.Owner),
		firstNonEmpty(opts.Repo, current.RepoName),
		firstNonEmpty(opts.Branch, current.Branch),
	)
	if err != nil {
		return nil, err
	}

	if err = credentials.Configure(identity); err != nil {
		return nil, err
	}
	if opts.APIURL != nil {
		if err = credentials.ConfigureAPI(*opts.APIURL); err != nil {
			return nil, err
		}
	}

	if opts.Token != "" {
		credentials.SetToken(opts.Token)
		logger.Info("Access token kept for this session only; it is not written to disk")
	} else if !credentials.HasToken() {
		logger.Warn("No access token set: commits will fail until one is provided")
	}

	settings := credentials.Settings()
	return &settings, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
