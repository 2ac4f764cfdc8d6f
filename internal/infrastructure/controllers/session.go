package controllers

import (
	"context"
	"fmt"
	"strconv"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// openSession reads the global flags and opens a session with them.
func openSession(cmd *cobra.Command, opener commands.OpenSession) (context.Context, *commands.Session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, _ := cmd.Flags().GetString("config")
	token, _ := cmd.Flags().GetString("token")
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	session, err := opener.Execute(ctx, commands.SessionOptions{ConfigPath: configPath, Token: token})
	if err != nil {
		return ctx, nil, err
	}
	return ctx, session, nil
}

func parseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an update index", entities.ErrValidation, raw)
	}
	return index, nil
}

func printCommit(cmd *cobra.Command, commit *entities.CommitResult) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (parent %s) on %s\n", commit.SHA, commit.ParentSHA, commit.Branch)
}
