package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	constructors := []any{
		NewOpenSessionCommand,
		NewConfigureCommand,
		NewStatusCommand,
		NewCommitFilesCommand,
		NewUpdatesCommand,
		NewMediaCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	bindings := []any{
		func(impl *OpenSessionCommand) OpenSession { return impl },
		func(impl *ConfigureCommand) Configure { return impl },
		func(impl *StatusCommand) Status { return impl },
		func(impl *CommitFilesCommand) CommitFiles { return impl },
		func(impl *UpdatesCommand) Updates { return impl },
		func(impl *MediaCommand) Media { return impl },
	}
	for _, binding := range bindings {
		if err := container.Provide(binding); err != nil {
			return err
		}
	}

	return nil
}
