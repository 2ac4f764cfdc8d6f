package controllers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/clubcms/internal/domain/commands"
	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// MediaController handles the "media" subcommand (list images of a section).
type MediaController struct {
	opener  commands.OpenSession
	command commands.Media
}

// NewMediaController creates a new MediaController.
func NewMediaController(opener commands.OpenSession, command commands.Media) *MediaController {
	return &MediaController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the media controller.
func (it *MediaController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "media slider|team|patrons",
		Short: "List the images of a site section",
		Args:  cobra.ExactArgs(1),
	}
}

// AddFlags adds nothing; the kind is positional.
func (it *MediaController) AddFlags(_ *cobra.Command) {}

// Execute prints one line per image.
func (it *MediaController) Execute(cmd *cobra.Command, args []string) error {
	kind, err := entities.ParseMediaKind(args[0])
	if err != nil {
		return err
	}
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	images, err := it.command.List(ctx, session, kind)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(images) == 0 {
		_, _ = fmt.Fprintf(out, "No %s images found\n", kind)
		return nil
	}
	for _, image := range images {
		_, _ = fmt.Fprintf(out, "%-40s  %s\n", image.Path, entities.ShortSHA(image.ObjectID))
	}
	return nil
}

// UploadController handles the "upload" subcommand.
type UploadController struct {
	opener  commands.OpenSession
	command commands.Media
}

// NewUploadController creates a new UploadController.
func NewUploadController(opener commands.OpenSession, command commands.Media) *UploadController {
	return &UploadController{opener: opener, command: command}
}

// GetBind returns the Cobra command metadata for the upload controller.
func (it *UploadController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "upload slider|team|patrons file...",
		Short: "Upload images to a site section",
		Long: `Upload JPEG, PNG, GIF or WebP images (5MB at most each) to a site section.
All files go into a single commit.

Slider images are stored as IMAGES/slider/slidderN.<ext> with N counting up
from the highest existing number; team photos and patrons get a timestamped
name in IMAGES/TEAM and IMAGES/PATRONS.`,
		Args: cobra.MinimumNArgs(2), //nolint:mnd // kind + at least one file
	}
}

// AddFlags adds nothing; kind and files are positional.
func (it *UploadController) AddFlags(_ *cobra.Command) {}

// Execute uploads the files in one commit.
func (it *UploadController) Execute(cmd *cobra.Command, args []string) error {
	kind, err := entities.ParseMediaKind(args[0])
	if err != nil {
		return err
	}
	uploads := make([]entities.MediaUpload, 0, len(args)-1)
	for _, file := range args[1:] {
		content, readErr := os.ReadFile(file)
		if readErr != nil {
			return fmt.Errorf("failed to read %q: %w", file, readErr)
		}
		uploads = append(uploads, entities.MediaUpload{
			Kind:     kind,
			FileName: filepath.Base(file),
			Content:  content,
		})
	}
	ctx, session, err := openSession(cmd, it.opener)
	if err != nil {
		return err
	}

	result, err := it.command.UploadMany(ctx, session, uploads)
	if err != nil {
		return err
	}
	for _, image := range result.Images {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", image.Path)
	}
	printCommit(cmd, result.Commit)
	return nil
}
