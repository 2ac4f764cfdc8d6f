package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

const (
	providerName = "github"
	blobMode     = "100644"
	blobType     = "blob"
	userAgent    = "clubcms"
)

// GitDataRepository implements repositories.GitDataRepository with go-github.
type GitDataRepository struct {
	client *gh.Client
}

// NewGitDataRepository creates a client that sends token as a bearer token to the
// API root in settings (api.github.com when unset). Every request is bounded by
// the settings' request timeout.
func NewGitDataRepository(settings *entities.Settings, token string) (repositories.GitDataRepository, error) {
	httpClient := oauth2.NewClient(
		context.Background(),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
	)
	httpClient.Timeout = entities.NewDefaultSettings().RequestTimeout
	if settings != nil && settings.RequestTimeout > 0 {
		httpClient.Timeout = settings.RequestTimeout
	}
	client := gh.NewClient(httpClient)
	client.UserAgent = userAgent

	if settings != nil && settings.APIURL != "" {
		baseURL, err := url.Parse(settings.APIURL)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid api_url %q: %w", entities.ErrValidation, settings.APIURL, err)
		}
		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		client.BaseURL = baseURL
	}

	return &GitDataRepository{client: client}, nil
}

func (r *GitDataRepository) ResolveBranchHead(
	ctx context.Context,
	identity entities.RepositoryIdentity,
) (*entities.BranchHead, error) {
	commit, _, err := r.client.Repositories.GetCommit(
		ctx, identity.Owner, identity.RepoName, identity.Branch, nil,
	)
	if err != nil {
		return nil, classify(err, classifyOptions{unprocessableIs: entities.ErrNotFound})
	}

	head := &entities.BranchHead{
		CommitSHA: commit.GetSHA(),
		TreeSHA:   commit.GetCommit().GetTree().GetSHA(),
	}
	if head.CommitSHA == "" || head.TreeSHA == "" {
		return nil, &entities.RemoteError{
			Kind:    entities.ErrRemote,
			Message: fmt.Sprintf("latest commit of %q came back without commit or tree SHA", identity.Branch),
		}
	}
	return head, nil
}

func (r *GitDataRepository) CreateBlob(
	ctx context.Context,
	identity entities.RepositoryIdentity,
	change entities.Change,
) (string, error) {
	content := change.WireContent()
	encoding := string(change.Encoding)
	blob, _, err := r.client.Git.CreateBlob(
		ctx, identity.Owner, identity.RepoName,
		&gh.Blob{Content: &content, Encoding: &encoding},
	)
	if err != nil {
		return "", classify(err, classifyOptions{})
	}

	sha := blob.GetSHA()
	if expected := plumbing.ComputeHash(plumbing.BlobObject, change.Content).String(); sha != expected {
		return "", &entities.RemoteError{
			Kind:    entities.ErrRemote,
			Message: fmt.Sprintf("blob for %q was stored as %s, expected %s from the local content", change.Path, sha, expected),
		}
	}
	logger.Debugf("Stored blob %s for %q", entities.ShortSHA(sha), change.Path)
	return sha, nil
}

func (r *GitDataRepository) CreateTree(
	ctx context.Context,
	identity entities.RepositoryIdentity,
	baseTreeSHA string,
	blobs []entities.TreeBlob,
) (string, error) {
	entries := make([]*gh.TreeEntry, 0, len(blobs))
	for _, blob := range blobs {
		path := blob.Path
		sha := blob.BlobSHA
		mode := blobMode
		entryType := blobType
		entries = append(entries, &gh.TreeEntry{
			Path: &path,
			Mode: &mode,
			Type: &entryType,
			SHA:  &sha,
		})
	}

	tree, _, err := r.client.Git.CreateTree(ctx, identity.Owner, identity.RepoName, baseTreeSHA, entries)
	if err != nil {
		return "", classify(err, classifyOptions{})
	}
	return tree.GetSHA(), nil
}

func (r *GitDataRepository) CreateCommit(
	ctx context.Context,
	identity entities.RepositoryIdentity,
	message, treeSHA, parentSHA string,
) (string, error) {
	commit, _, err := r.client.Git.CreateCommit(
		ctx, identity.Owner, identity.RepoName,
		&gh.Commit{
			Message: &message,
			Tree:    &gh.Tree{SHA: &treeSHA},
			Parents: []*gh.Commit{{SHA: &parentSHA}},
		},
		nil,
	)
	if err != nil {
		return "", classify(err, classifyOptions{})
	}
	return commit.GetSHA(), nil
}

func (r *GitDataRepository) UpdateRef(
	ctx context.Context,
	identity entities.RepositoryIdentity,
	commitSHA string,
) error {
	ref := identity.BranchRef()
	_, _, err := r.client.Git.UpdateRef(
		ctx, identity.Owner, identity.RepoName,
		&gh.Reference{
			Ref:    &ref,
			Object: &gh.GitObject{SHA: &commitSHA},
		},
		false,
	)
	if err != nil {
		// GitHub answers a non-fast-forward PATCH with 422 "Update is not a fast forward".
		return classify(err, classifyOptions{unprocessableIs: entities.ErrConflict, conflictIs: entities.ErrConflict})
	}
	return nil
}

func (r *GitDataRepository) GetFileContent(
	ctx context.Context,
	identity entities.RepositoryIdentity,
	path string,
) ([]byte, error) {
	file, _, _, err := r.client.Repositories.GetContents(
		ctx, identity.Owner, identity.RepoName, path,
		&gh.RepositoryContentGetOptions{Ref: identity.Branch},
	)
	if err != nil {
		return nil, classify(err, classifyOptions{})
	}
	if file == nil {
		return nil, &entities.RemoteError{
			Kind:    entities.ErrValidation,
			Message: fmt.Sprintf("path %q is a directory, not a file", path),
		}
	}

	// Files above 1MB come back without inline content.
	if file.GetEncoding() == "none" || (file.Content == nil && file.GetSize() > 0) {
		raw, _, blobErr := r.client.Git.GetBlobRaw(ctx, identity.Owner, identity.RepoName, file.GetSHA())
		if blobErr != nil {
			return nil, classify(blobErr, classifyOptions{})
		}
		return raw, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, &entities.RemoteError{
			Kind:    entities.ErrRemote,
			Message: fmt.Sprintf("failed to decode content of %q", path),
			Err:     err,
		}
	}
	return []byte(content), nil
}

func (r *GitDataRepository) ListDirectory(
	ctx context.Context,
	identity entities.RepositoryIdentity,
	path string,
) ([]entities.File, error) {
	_, entries, _, err := r.client.Repositories.GetContents(
		ctx, identity.Owner, identity.RepoName, path,
		&gh.RepositoryContentGetOptions{Ref: identity.Branch},
	)
	if err != nil {
		return nil, classify(err, classifyOptions{})
	}

	files := make([]entities.File, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entities.File{
			Path:     entry.GetPath(),
			ObjectID: entry.GetSHA(),
			IsDir:    entry.GetType() == "dir",
		})
	}
	return files, nil
}

// classifyOptions adjusts the mapping of statuses whose meaning depends on the call.
type classifyOptions struct {
	unprocessableIs error // 422
	conflictIs      error // 409
}

// classify maps a go-github error onto the entities error kinds.
func classify(err error, opts classifyOptions) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &entities.RemoteError{
			Kind: entities.ErrTransient, StatusCode: statusOf(rateErr.Response), Message: rateErr.Message, Err: err,
		}
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &entities.RemoteError{
			Kind: entities.ErrTransient, StatusCode: statusOf(abuseErr.Response), Message: abuseErr.Message, Err: err,
		}
	}

	if errors.Is(err, gh.ErrPathForbidden) {
		return &entities.RemoteError{Kind: entities.ErrValidation, Message: err.Error(), Err: err}
	}
	var otpErr *gh.TwoFactorAuthError
	if errors.As(err, &otpErr) {
		return &entities.RemoteError{
			Kind: entities.ErrAuth, StatusCode: statusOf(otpErr.Response), Message: otpErr.Message, Err: err,
		}
	}

	var respErr *gh.ErrorResponse
	if !errors.As(err, &respErr) {
		return &entities.RemoteError{Kind: entities.ErrTransient, Message: err.Error(), Err: err}
	}

	status := statusOf(respErr.Response)
	kind := entities.ErrRemote
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = entities.ErrAuth
	case status == http.StatusNotFound:
		kind = entities.ErrNotFound
	case status == http.StatusConflict && opts.conflictIs != nil:
		kind = opts.conflictIs
	case status == http.StatusUnprocessableEntity && opts.unprocessableIs != nil:
		kind = opts.unprocessableIs
	case status >= http.StatusInternalServerError:
		kind = entities.ErrTransient
	}

	return &entities.RemoteError{Kind: kind, StatusCode: status, Message: respErr.Message, Err: err}
}

func statusOf(response *http.Response) int {
	if response == nil {
		return 0
	}
	return response.StatusCode
}

// Name is the key this implementation is registered under.
func Name() string { return providerName }
