package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// CatController handles the "cat" subcommand.
type CatController struct {
	opener commands.OpenSession
}

// NewCatController creates a new CatController.
func NewCatController(opener commands.OpenSession) *CatController {
	return &CatController{opener: opener}
}

// GetBind returns the Cobra command metadata for the cat controller.
func (it *CatController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "cat path",
		Short: "Print a file from the configured branch",
		Args:  cobra.ExactArgs(1),
	}
}

// AddFlags adds nothing; cat only uses the global flags.
func (it *CatController) AddFlags(_ *cobra.Command) {}

// Execute prints the file, or reports that it does not exist.
func (it *CatController) Execute(cmd *cobra.Command, args []string) error {
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	content, found, err := session.Pipeline.ReadFile(ctx, args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s does not exist on %s", entities.ErrNotFound, args[0], session.Credentials.Identity())
	}
	_, err = cmd.OutOrStdout().Write(content)
	return err
}
