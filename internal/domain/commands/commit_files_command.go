package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// CommitFiles is the interface for committing local files to the repository.
type CommitFiles interface {
	Execute(ctx context.Context, session *Session, opts CommitFilesOptions) (*entities.CommitResult, error)
}

// FileMapping maps a local file to its path in the repository.
type FileMapping struct {
	Local  string
	Remote string
}

// ParseFileMapping accepts "local=remote", or just "path" for the same path on both sides.
func ParseFileMapping(raw string) (FileMapping, error) {
	local, remote, found := strings.Cut(raw, "=")
	if !found {
		remote = local
	}
	if local == "" || remote == "" {
		return FileMapping{}, fmt.Errorf("%w: %q is not local=remote", entities.ErrValidation, raw)
	}
	return FileMapping{Local: local, Remote: remote}, nil
}

// CommitFilesOptions holds the files and message of one commit.
type CommitFilesOptions struct {
	Files    []FileMapping
	Message  string
	Encoding entities.Encoding
}

// CommitFilesCommand reads local files and commits them in one go.
type CommitFilesCommand struct {
	readFile func(name string) ([]byte, error)
}

// NewCommitFilesCommand creates a new CommitFilesCommand.
func NewCommitFilesCommand() *CommitFilesCommand {
	return &CommitFilesCommand{readFile: os.ReadFile}
}

// Execute builds one change per file and commits them together.
func (it *CommitFilesCommand) Execute(
	ctx context.Context,
	session *Session,
	opts CommitFilesOptions,
) (*entities.CommitResult, error) {
	changes := make([]entities.Change, 0, len(opts.Files))
	for _, file := range opts.Files {
		content, err := it.readFile(file.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", file.Local, err)
		}
		changes = append(changes, entities.Change{
			Path:     file.Remote,
			Content:  content,
			Encoding: opts.Encoding,
		})
	}

	message := opts.Message
	if message == "" {
		message = DefaultUploadMessage
	}
	return session.Pipeline.Commit(ctx, changes, message)
}
