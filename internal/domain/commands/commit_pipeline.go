package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

const (
	DefaultUploadMessage = "Upload file via CMS"
	DefaultJSONMessage   = "Update JSON file via CMS"
)

// CommitPipeline turns a set of changes into a single commit on the configured
// branch: resolve head -> blobs -> tree -> commit -> ref.
//
// Nothing moves the branch until the last step, so a failure anywhere leaves
// the branch as it was found. Objects created by a failed run are left behind
// unreferenced. There is no retry and no locking between concurrent runs; a run
// that loses the race fails with entities.ErrConflict and must start over.
type CommitPipeline struct {
	credentials *CredentialStore
	factory     repositories.GitDataRepositoryFactory
}

// NewCommitPipeline creates a pipeline bound to one credential store.
func NewCommitPipeline(
	credentials *CredentialStore,
	factory repositories.GitDataRepositoryFactory,
) *CommitPipeline {
	return &CommitPipeline{credentials: credentials, factory: factory}
}

// Credentials returns the store the pipeline authenticates with.
func (it *CommitPipeline) Credentials() *CredentialStore {
	return it.credentials
}

// Commit writes all changes as one commit with message.
func (it *CommitPipeline) Commit(
	ctx context.Context,
	changes []entities.Change,
	message string,
) (*entities.CommitResult, error) {
	settings, repo, err := it.open()
	if err != nil {
		return nil, stepError(entities.StepValidate, err)
	}

	normalized, err := entities.NormalizeChanges(changes)
	if err != nil {
		return nil, stepError(entities.StepValidate, err)
	}
	if strings.TrimSpace(message) == "" {
		return nil, stepError(entities.StepValidate,
			fmt.Errorf("%w: commit message is required", entities.ErrValidation))
	}

	identity := settings.RepositoryIdentity

	logger.Debugf("Resolving head of %s", identity)
	head, err := repo.ResolveBranchHead(ctx, identity)
	if err != nil {
		return nil, stepError(entities.StepResolveHead, err)
	}

	logger.Debugf("Creating %d blob(s) on top of %s", len(normalized), entities.ShortSHA(head.CommitSHA))
	blobs, err := createBlobs(ctx, repo, identity, normalized, settings.BlobConcurrency)
	if err != nil {
		return nil, stepError(entities.StepCreateBlobs, err)
	}

	treeSHA, err := repo.CreateTree(ctx, identity, head.TreeSHA, blobs)
	if err != nil {
		return nil, stepError(entities.StepCreateTree, err)
	}
	logger.Debugf("Created tree %s", entities.ShortSHA(treeSHA))

	commitSHA, err := repo.CreateCommit(ctx, identity, message, treeSHA, head.CommitSHA)
	if err != nil {
		return nil, stepError(entities.StepCreateCommit, err)
	}
	logger.Debugf("Created commit %s", entities.ShortSHA(commitSHA))

	if err = repo.UpdateRef(ctx, identity, commitSHA); err != nil {
		return nil, stepError(entities.StepUpdateRef, err)
	}

	logger.Infof(
		"Committed %d file(s) to %s: %s -> %s",
		len(normalized), identity, entities.ShortSHA(head.CommitSHA), entities.ShortSHA(commitSHA),
	)
	return &entities.CommitResult{
		SHA:       commitSHA,
		ParentSHA: head.CommitSHA,
		TreeSHA:   treeSHA,
		Branch:    identity.Branch,
	}, nil
}

// CommitSingleFile commits one file.
func (it *CommitPipeline) CommitSingleFile(
	ctx context.Context,
	path string,
	content []byte,
	encoding entities.Encoding,
	message string,
) (*entities.CommitResult, error) {
	if message == "" {
		message = DefaultUploadMessage
	}
	return it.Commit(ctx, []entities.Change{{Path: path, Content: content, Encoding: encoding}}, message)
}

// CommitJSONDocument commits value as two-space indented JSON. Characters
// such as &, < and > are written as is.
func (it *CommitPipeline) CommitJSONDocument(
	ctx context.Context,
	path string,
	value any,
	message string,
) (*entities.CommitResult, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return nil, stepError(entities.StepValidate,
			fmt.Errorf("%w: cannot encode %s as JSON: %w", entities.ErrValidation, path, err))
	}
	content := bytes.TrimSuffix(buffer.Bytes(), []byte("\n"))
	if message == "" {
		message = DefaultJSONMessage
	}
	return it.CommitSingleFile(ctx, path, content, entities.EncodingBase64, message)
}

// ResolveHead returns the current head of the configured branch.
func (it *CommitPipeline) ResolveHead(ctx context.Context) (*entities.BranchHead, error) {
	settings, repo, err := it.open()
	if err != nil {
		return nil, err
	}
	return repo.ResolveBranchHead(ctx, settings.RepositoryIdentity)
}

// ReadFile fetches a file from the configured branch. A missing file is not an
// error: it returns found == false.
func (it *CommitPipeline) ReadFile(ctx context.Context, path string) ([]byte, bool, error) {
	settings, repo, err := it.open()
	if err != nil {
		return nil, false, err
	}

	content, err := repo.GetFileContent(ctx, settings.RepositoryIdentity, strings.TrimPrefix(path, "/"))
	if errors.Is(err, entities.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return content, true, nil
}

// ListDirectory lists a directory on the configured branch; a missing directory
// is empty.
func (it *CommitPipeline) ListDirectory(ctx context.Context, path string) ([]entities.File, error) {
	settings, repo, err := it.open()
	if err != nil {
		return nil, err
	}

	files, err := repo.ListDirectory(ctx, settings.RepositoryIdentity, strings.Trim(path, "/"))
	if errors.Is(err, entities.ErrNotFound) {
		return []entities.File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", path, err)
	}
	return files, nil
}

// open fails fast with ErrAuth before any repository is built.
func (it *CommitPipeline) open() (entities.Settings, repositories.GitDataRepository, error) {
	settings, token, ready := it.credentials.snapshot()
	if !ready {
		if token == "" {
			return settings, nil, fmt.Errorf("%w: no access token set for this session", entities.ErrAuth)
		}
		return settings, nil, fmt.Errorf("%w: repository is not configured", entities.ErrAuth)
	}

	repo, err := it.factory(&settings, token)
	if err != nil {
		return settings, nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return settings, repo, nil
}

// createBlobs uploads every change concurrently, at most limit at a time, and
// returns the blobs in the order of changes. Any failure fails the whole step.
func createBlobs(
	ctx context.Context,
	repo repositories.GitDataRepository,
	identity entities.RepositoryIdentity,
	changes []entities.Change,
	limit int,
) ([]entities.TreeBlob, error) {
	blobs := make([]entities.TreeBlob, len(changes))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(limit, 1))
	for i, change := range changes {
		group.Go(func() error {
			sha, err := repo.CreateBlob(groupCtx, identity, change)
			if err != nil {
				return fmt.Errorf("blob for %q: %w", change.Path, err)
			}
			blobs[i] = entities.TreeBlob{Path: change.Path, BlobSHA: sha}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return blobs, nil
}

func stepError(step entities.PipelineStep, err error) error {
	return &entities.PipelineError{Step: step, Err: err}
}
