package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth means credentials are absent, or the remote host rejected them (401/403).
	ErrAuth = errors.New("authentication required or rejected")
	// ErrNotFound means the requested path or ref does not exist (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict means the ref update was rejected as a non-fast-forward.
	ErrConflict = errors.New("branch moved since the commit was built")
	// ErrTransient covers connectivity problems, timeouts, rate limits and 5xx answers.
	ErrTransient = errors.New("transient network failure")
	// ErrValidation means the caller supplied something malformed.
	ErrValidation = errors.New("invalid input")
	// ErrRemote is any other non-2xx answer.
	ErrRemote = errors.New("unexpected remote response")
)

// PipelineStep identifies where in the commit sequence a failure happened.
type PipelineStep int

const (
	StepValidate PipelineStep = iota
	StepResolveHead
	StepCreateBlobs
	StepCreateTree
	StepCreateCommit
	StepUpdateRef
)

func (s PipelineStep) String() string {
	switch s {
	case StepValidate:
		return "validate"
	case StepResolveHead:
		return "resolve branch head"
	case StepCreateBlobs:
		return "create blobs"
	case StepCreateTree:
		return "create tree"
	case StepCreateCommit:
		return "create commit"
	case StepUpdateRef:
		return "update ref"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

// RemoteError is a failed call against the Git hosting API.
type RemoteError struct {
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// PipelineError records which step of a commit failed. The branch is untouched
// whenever Step is before StepUpdateRef.
type PipelineError struct {
	Step PipelineStep
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("commit failed at step %d (%s): %v", int(e.Step), e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of the underlying remote failure, or 0.
func (e *PipelineError) StatusCode() int {
	var remote *RemoteError
	if errors.As(e.Err, &remote) {
		return remote.StatusCode
	}
	return 0
}
