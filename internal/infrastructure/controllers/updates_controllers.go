package controllers

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// UpdatesController handles the "updates" subcommand (list the news feed).
type UpdatesController struct {
	opener  commands.OpenSession
	command commands.Updates
}

// NewUpdatesController creates a new UpdatesController.
func NewUpdatesController(opener commands.OpenSession, command commands.Updates) *UpdatesController {
	return &UpdatesController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the updates controller.
func (it *UpdatesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "updates",
		Short: "List the news updates shown on the site",
		Long: `List the entries of UPDATES/updates.json, newest first.

The index printed in front of each entry is what update-edit and
update-delete expect. By default only the entries the site displays are
listed; use --all for the whole document.`,
		Args: cobra.NoArgs,
	}
}

// AddFlags adds the updates-specific flags to the given Cobra command.
func (it *UpdatesController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("all", false, "List every entry, not only the ones the site shows")
}

// Execute prints the feed.
func (it *UpdatesController) Execute(cmd *cobra.Command, _ []string) error {
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	document, err := it.command.List(ctx, session)
	if err != nil {
		return err
	}

	updates := document.Latest(entities.FeedSize)
	if all, _ := cmd.Flags().GetBool("all"); all {
		updates = document.Updates
	}
	out := cmd.OutOrStdout()
	if len(updates) == 0 {
		_, _ = fmt.Fprintln(out, "No updates found")
		return nil
	}
	for i, update := range updates {
		_, _ = fmt.Fprintf(out, "[%d] %s  %s\n    %s\n", i, update.Date, update.Title, update.Content)
	}
	return nil
}

// UpdateAddController handles the "update-add" subcommand.
type UpdateAddController struct {
	opener  commands.OpenSession
	command commands.Updates
	now     func() time.Time
}

// NewUpdateAddController creates a new UpdateAddController.
func NewUpdateAddController(opener commands.OpenSession, command commands.Updates) *UpdateAddController {
	return &UpdateAddController{opener: opener, command: command, now: time.Now}
}

// GetBind returns the Cobra command metadata for the update-add controller.
func (it *UpdateAddController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update-add",
		Short: "Publish a new update at the top of the news feed",
		Args:  cobra.NoArgs,
	}
}

// AddFlags adds the update fields to the given Cobra command.
func (it *UpdateAddController) AddFlags(cmd *cobra.Command) {
	addUpdateFlags(cmd)
}

// Execute commits the new entry.
func (it *UpdateAddController) Execute(cmd *cobra.Command, _ []string) error {
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	update := updateFromFlags(cmd, entities.Update{Date: entities.Today(it.now())})
	result, err := it.command.Add(ctx, session, update)
	if err != nil {
		return err
	}
	printCommit(cmd, result.Commit)
	return nil
}

// UpdateEditController handles the "update-edit" subcommand.
type UpdateEditController struct {
	opener  commands.OpenSession
	command commands.Updates
}

// NewUpdateEditController creates a new UpdateEditController.
func NewUpdateEditController(opener commands.OpenSession, command commands.Updates) *UpdateEditController {
	return &UpdateEditController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the update-edit controller.
func (it *UpdateEditController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update-edit index",
		Short: "Change an existing update; unset fields keep their value",
		Args:  cobra.ExactArgs(1),
	}
}

// AddFlags adds the update fields to the given Cobra command.
func (it *UpdateEditController) AddFlags(cmd *cobra.Command) {
	addUpdateFlags(cmd)
}

// Execute commits the edited entry.
func (it *UpdateEditController) Execute(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	document, err := it.command.List(ctx, session)
	if err != nil {
		return err
	}
	var current entities.Update
	if index >= 0 && index < len(document.Updates) {
		current = document.Updates[index]
	}

	result, err := it.command.Edit(ctx, session, index, updateFromFlags(cmd, current))
	if err != nil {
		return err
	}
	printCommit(cmd, result.Commit)
	return nil
}

// UpdateDeleteController handles the "update-delete" subcommand.
type UpdateDeleteController struct {
	opener  commands.OpenSession
	command commands.Updates
}

// NewUpdateDeleteController creates a new UpdateDeleteController.
func NewUpdateDeleteController(opener commands.OpenSession, command commands.Updates) *UpdateDeleteController {
	return &UpdateDeleteController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the update-delete controller.
func (it *UpdateDeleteController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update-delete index",
		Short: "Remove an update from the news feed",
		Args:  cobra.ExactArgs(1),
	}
}

// AddFlags adds nothing; the index is positional.
func (it *UpdateDeleteController) AddFlags(_ *cobra.Command) {}

// Execute commits the feed without the entry.
func (it *UpdateDeleteController) Execute(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	result, err := it.command.Delete(ctx, session, index)
	if err != nil {
		return err
	}
	printCommit(cmd, result.Commit)
	return nil
}

func addUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Update title")
	cmd.Flags().String("date", "", "Update date (YYYY-MM-DD, default today)")
	cmd.Flags().String("content", "", "Update text")
}

// updateFromFlags overlays the flags that were set on base.
func updateFromFlags(cmd *cobra.Command, base entities.Update) entities.Update {
	if cmd.Flags().Changed("title") {
		base.Title, _ = cmd.Flags().GetString("title")
	}
	if cmd.Flags().Changed("date") {
		base.Date, _ = cmd.Flags().GetString("date")
	}
	if cmd.Flags().Changed("content") {
		base.Content, _ = cmd.Flags().GetString("content")
	}
	return base
}
