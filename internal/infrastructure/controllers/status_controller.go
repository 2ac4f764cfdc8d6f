package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// StatusController handles the "status" subcommand.
type StatusController struct {
	opener  commands.OpenSession
	command commands.Status
}

// NewStatusController creates a new StatusController.
func NewStatusController(opener commands.OpenSession, command commands.Status) *StatusController {
	return &StatusController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the status controller.
func (it *StatusController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "status",
		Short: "Show the configured repository and whether commits are possible",
		Args:  cobra.NoArgs,
	}
}

// AddFlags adds the status-specific flags to the given Cobra command.
func (it *StatusController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("verify", false, "Resolve the branch head and count the content of every section")
}

// Execute prints the session state.
func (it *StatusController) Execute(cmd *cobra.Command, _ []string) error {
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}
	verify, _ := cmd.Flags().GetBool("verify")

	report, err := it.command.Execute(ctx, session, commands.StatusOptions{Verify: verify})
	if report != nil {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "repository: %s\n", report.Identity)
		if report.APIURL != "" {
			_, _ = fmt.Fprintf(out, "api:        %s\n", report.APIURL)
		}
		_, _ = fmt.Fprintf(out, "settings:   %s\n", report.SettingsLocation)
		_, _ = fmt.Fprintf(out, "token:      %t\n", report.HasToken)
		_, _ = fmt.Fprintf(out, "ready:      %t\n", report.Ready)
		if report.Head != nil {
			_, _ = fmt.Fprintf(out, "head:       %s (tree %s)\n", report.Head.CommitSHA, report.Head.TreeSHA)
		}
		if counts := report.Counts; counts != nil {
			_, _ = fmt.Fprintf(out, "content:    %d slider, %d team, %d patrons, %d updates\n",
				counts.Slider, counts.Team, counts.Patrons, counts.Updates)
		}
	}
	return err
}
