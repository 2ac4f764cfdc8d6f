package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		NewConfigureController,
		NewStatusController,
		NewCommitController,
		NewCatController,
		NewUpdatesController,
		NewUpdateAddController,
		NewUpdateEditController,
		NewUpdateDeleteController,
		NewMediaController,
		NewUploadController,
		NewServeController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}
	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	configureController *ConfigureController,
	statusController *StatusController,
	commitController *CommitController,
	catController *CatController,
	updatesController *UpdatesController,
	updateAddController *UpdateAddController,
	updateEditController *UpdateEditController,
	updateDeleteController *UpdateDeleteController,
	mediaController *MediaController,
	uploadController *UploadController,
	serveController *ServeController,
) *[]entities.Controller {
	return &[]entities.Controller{
		configureController,
		statusController,
		commitController,
		catController,
		updatesController,
		updateAddController,
		updateEditController,
		updateDeleteController,
		mediaController,
		uploadController,
		serveController,
	}
}
