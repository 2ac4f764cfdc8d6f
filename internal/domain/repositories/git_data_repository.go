package repositories

import (
	"context"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
)

// GitDataRepository is the subset of a Git hosting REST API the CMS needs:
// the Git Data endpoints used to build a commit, and the Contents endpoint
// used to read files back.
//
// Failures are returned as *entities.RemoteError so callers can match them
// against the entities.Err* kinds.
type GitDataRepository interface {
	// ResolveBranchHead returns the latest commit on the identity's branch and its tree.
	ResolveBranchHead(ctx context.Context, identity entities.RepositoryIdentity) (*entities.BranchHead, error)
	// CreateBlob stores one change and returns the blob SHA.
	CreateBlob(ctx context.Context, identity entities.RepositoryIdentity, change entities.Change) (string, error)
	// CreateTree overlays the blobs on baseTreeSHA and returns the new tree SHA.
	CreateTree(
		ctx context.Context, identity entities.RepositoryIdentity, baseTreeSHA string, blobs []entities.TreeBlob,
	) (string, error)
	// CreateCommit creates a commit object with a single parent.
	CreateCommit(
		ctx context.Context, identity entities.RepositoryIdentity, message, treeSHA, parentSHA string,
	) (string, error)
	// UpdateRef moves the branch to commitSHA without forcing.
	UpdateRef(ctx context.Context, identity entities.RepositoryIdentity, commitSHA string) error
	// GetFileContent returns a file's bytes; a missing file is entities.ErrNotFound.
	GetFileContent(ctx context.Context, identity entities.RepositoryIdentity, path string) ([]byte, error)
	// ListDirectory returns the entries of a directory; a missing one is entities.ErrNotFound.
	ListDirectory(ctx context.Context, identity entities.RepositoryIdentity, path string) ([]entities.File, error)
}

// GitDataRepositoryFactory builds a GitDataRepository that authenticates with token
// against the API configured in settings.
type GitDataRepositoryFactory func(settings *entities.Settings, token string) (GitDataRepository, error)
