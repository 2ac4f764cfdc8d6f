package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal"
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "clubcms",
		Short: "Content manager for a club website stored in a GitHub repository",
		Long: `Manage the content of a static club website that lives in a GitHub repository.

Every change (news updates, slider images, team photos, patron logos, raw
files) becomes exactly one commit on the configured branch, created through
the GitHub Git Data API. Nothing is cloned and nothing is stored locally.

The access token is read from --token, CLUBCMS_GITHUB_TOKEN, GITHUB_TOKEN or
GH_TOKEN, in that order, and is never written to disk.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to settings file (default: auto-detect)")
	cmd.PersistentFlags().String("token", "",
		"GitHub access token (overrides env var detection)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  bind.Args,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}
		ctrl.AddFlags(subCmd)
		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	appContext, err := injectAppContext()
	if err != nil {
		logger.Fatalf("Error wiring 'clubcms': %s", err)
	}

	cobraRoot := buildRootCommand()
	addSubcommands(cobraRoot, appContext)

	if err = cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'clubcms': %s", err)
	}
}
