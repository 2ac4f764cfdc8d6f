//go:build unit

package entities_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

func TestPipelineError(t *testing.T) {
	t.Parallel()

	t.Run("should expose the step, the kind and the HTTP status", func(t *testing.T) {
		t.Parallel()

		// given
		cause := errors.New("422 Update is not a fast forward")
		err := fmt.Errorf("publishing: %w", &entities.PipelineError{
			Step: entities.StepUpdateRef,
			Err: &entities.RemoteError{
				Kind: entities.ErrConflict, StatusCode: 422, Message: "Update is not a fast forward", Err: cause,
			},
		})

		// when
		var pipelineErr *entities.PipelineError
		ok := errors.As(err, &pipelineErr)

		// then
		require.True(t, ok)
		assert.Equal(t, entities.StepUpdateRef, pipelineErr.Step)
		assert.Equal(t, 422, pipelineErr.StatusCode())
		require.ErrorIs(t, err, entities.ErrConflict)
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "step 5 (update ref)")
	})

	t.Run("should report no status for local failures", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.PipelineError{Step: entities.StepValidate, Err: entities.ErrValidation}

		// when
		status := err.StatusCode()

		// then
		assert.Zero(t, status)
		require.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("should name every step", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "validate", entities.StepValidate.String())
		assert.Equal(t, "resolve branch head", entities.StepResolveHead.String())
		assert.Equal(t, "create blobs", entities.StepCreateBlobs.String())
		assert.Equal(t, "create tree", entities.StepCreateTree.String())
		assert.Equal(t, "create commit", entities.StepCreateCommit.String())
		assert.Equal(t, "update ref", entities.StepUpdateRef.String())
		assert.Equal(t, "step 9", entities.PipelineStep(9).String())
	})
}

func TestRemoteError(t *testing.T) {
	t.Parallel()

	t.Run("should match its kind without a cause", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.RemoteError{Kind: entities.ErrTransient, Message: "connection refused"}

		// when
		msg := err.Error()

		// then
		require.ErrorIs(t, err, entities.ErrTransient)
		assert.NotErrorIs(t, err, entities.ErrAuth)
		assert.Equal(t, "transient network failure: connection refused", msg)
	})

	t.Run("should include the status in the message", func(t *testing.T) {
		t.Parallel()

		// given
		err := &entities.RemoteError{Kind: entities.ErrAuth, StatusCode: 401, Message: "Bad credentials"}

		// when
		msg := err.Error()

		// then
		assert.Equal(t, "authentication required or rejected (HTTP 401): Bad credentials", msg)
	})
}
