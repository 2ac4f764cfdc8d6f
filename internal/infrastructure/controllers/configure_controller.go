package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// ConfigureController handles the "configure" subcommand.
type ConfigureController struct {
	opener  commands.OpenSession
	command commands.Configure
}

// NewConfigureController creates a new ConfigureController.
func NewConfigureController(opener commands.OpenSession, command commands.Configure) *ConfigureController {
	return &ConfigureController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the configure controller.
func (it *ConfigureController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "configure",
		Short: "Set the repository and branch the CMS commits to",
		Long: `Set the GitHub owner, repository and branch the CMS commits to.

The values are saved to the settings file. A token passed with --token is
only used for this invocation and is never written to disk; export
CLUBCMS_GITHUB_TOKEN (or GITHUB_TOKEN) to keep one for a shell session.`,
		Args: cobra.NoArgs,
	}
}

// AddFlags adds the configure-specific flags to the given Cobra command.
func (it *ConfigureController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "Repository owner (user or organization)")
	cmd.Flags().String("repo", "", "Repository name")
	cmd.Flags().String("branch", "", "Branch to commit to")
	cmd.Flags().String("api-url", "", "API root for GitHub Enterprise (empty for api.github.com)")
}

// Execute saves the new identity.
func (it *ConfigureController) Execute(cmd *cobra.Command, _ []string) error {
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	owner, _ := cmd.Flags().GetString("owner")
	repo, _ := cmd.Flags().GetString("repo")
	branch, _ := cmd.Flags().GetString("branch")
	token, _ := cmd.Flags().GetString("token")

	opts := commands.ConfigureOptions{Owner: owner, Repo: repo, Branch: branch, Token: token}
	if cmd.Flags().Changed("api-url") {
		apiURL, _ := cmd.Flags().GetString("api-url")
		opts.APIURL = &apiURL
	}

	settings, err := it.command.Execute(ctx, session, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configured %s (saved to %s)\n",
		settings.RepositoryIdentity, session.Credentials.SettingsLocation())
	return nil
}
