package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// CommitController handles the "commit" subcommand.
type CommitController struct {
	opener  commands.OpenSession
	command commands.CommitFiles
}

// NewCommitController creates a new CommitController.
func NewCommitController(opener commands.OpenSession, command commands.CommitFiles) *CommitController {
	return &CommitController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the commit controller.
func (it *CommitController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "commit local[=remote]...",
		Short: "Commit local files to the repository in a single commit",
		Long: `Commit one or more local files to the configured branch as a single commit.

Each argument is "local=remote" (or just "path" to use the same path on both
sides). The branch only moves if every file was stored; if the branch moved
in the meantime the command fails and can simply be run again.`,
		Args: cobra.MinimumNArgs(1),
	}
}

// AddFlags adds the commit-specific flags to the given Cobra command.
func (it *CommitController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("message", "m", commands.DefaultUploadMessage, "Commit message")
	cmd.Flags().String("encoding", string(entities.EncodingBase64), "Blob encoding (base64 or utf-8)")
}

// Execute commits the files.
func (it *CommitController) Execute(cmd *cobra.Command, args []string) error {
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	message, _ := cmd.Flags().GetString("message")
	encoding, _ := cmd.Flags().GetString("encoding")

	files := make([]commands.FileMapping, 0, len(args))
	for _, arg := range args {
		mapping, parseErr := commands.ParseFileMapping(arg)
		if parseErr != nil {
			return parseErr
		}
		files = append(files, mapping)
	}

	commit, err := it.command.Execute(ctx, session, commands.CommitFilesOptions{
		Files:    files,
		Message:  message,
		Encoding: entities.Encoding(encoding),
	})
	if err != nil {
		return err
	}
	printCommit(cmd, commit)
	return nil
}
