//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, fakes) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

// TreeInput is what CreateTree received.
type TreeInput struct {
	BaseTreeSHA string
	Blobs       []entities.TreeBlob
}

// CommitInput is what CreateCommit received.
type CommitInput struct {
	Message   string
	TreeSHA   string
	ParentSHA string
}

// SpyGitDataRepository implements repositories.GitDataRepository as a
// configurable spy over a tiny in-memory branch: a successful UpdateRef moves
// the head and makes the committed files readable through GetFileContent and
// ListDirectory.
type SpyGitDataRepository struct {
	mu sync.Mutex

	// --- branch state ---
	Head  entities.BranchHead
	Files map[string][]byte

	// --- configured failures ---
	ResolveErr  error
	BlobErr     error
	BlobErrPath string // when set, only this path fails with BlobErr
	TreeErr     error
	CommitErr   error
	UpdateErrs  []error // consumed one per UpdateRef call; nil entries succeed

	// BeforeUpdateRef runs at the start of every UpdateRef, outside the lock.
	BeforeUpdateRef func()

	// BlobDelay holds every CreateBlob call open, outside the lock.
	BlobDelay time.Duration

	FileErr error
	ListErr error

	// --- spy ---
	Calls        []string
	BlobInputs   []entities.Change
	TreeInputs   []TreeInput
	CommitInputs []CommitInput
	UpdatedRefs  []string
	FileReads    []string
	Identities   []entities.RepositoryIdentity

	// --- factory spy ---
	FactoryTokens []string
	FactoryErr    error

	trees map[string]map[string][]byte
	blobs map[string][]byte

	blobsInFlight    int
	maxBlobsInFlight int
}

var _ repositories.GitDataRepository = (*SpyGitDataRepository)(nil)

// NewSpyGitDataRepository creates a spy whose branch holds files.
func NewSpyGitDataRepository(files map[string][]byte) *SpyGitDataRepository {
	if files == nil {
		files = map[string][]byte{}
	}
	spy := &SpyGitDataRepository{
		Files: files,
		trees: map[string]map[string][]byte{},
		blobs: map[string][]byte{},
	}
	tree := spy.storeTree(copyFiles(files))
	spy.Head = entities.BranchHead{
		CommitSHA: hashOf(plumbing.CommitObject, "initial commit\n"+tree),
		TreeSHA:   tree,
	}
	return spy
}

// Factory returns a GitDataRepositoryFactory that records the token and hands
// out this spy.
func (s *SpyGitDataRepository) Factory() repositories.GitDataRepositoryFactory {
	return func(_ *entities.Settings, token string) (repositories.GitDataRepository, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.FactoryTokens = append(s.FactoryTokens, token)
		if s.FactoryErr != nil {
			return nil, s.FactoryErr
		}
		return s, nil
	}
}

// NetworkCalls returns how many pipeline calls reached the repository.
func (s *SpyGitDataRepository) NetworkCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// CallsTo counts the calls to one method.
func (s *SpyGitDataRepository) CallsTo(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, call := range s.Calls {
		if call == method {
			count++
		}
	}
	return count
}

// MaxBlobsInFlight is the highest number of CreateBlob calls seen running at once.
func (s *SpyGitDataRepository) MaxBlobsInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxBlobsInFlight
}

// CurrentHead returns the branch head under the lock.
func (s *SpyGitDataRepository) CurrentHead() entities.BranchHead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Head
}

// AdvanceBranch simulates another writer committing file to the branch.
func (s *SpyGitDataRepository) AdvanceBranch(filePath string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := copyFiles(s.trees[s.Head.TreeSHA])
	files[filePath] = content
	tree := s.storeTree(files)
	s.Head = entities.BranchHead{
		CommitSHA: hashOf(plumbing.CommitObject, "concurrent\n"+tree+"\n"+s.Head.CommitSHA),
		TreeSHA:   tree,
	}
	s.Files = copyFiles(files)
}

func (s *SpyGitDataRepository) ResolveBranchHead(
	_ context.Context,
	identity entities.RepositoryIdentity,
) (*entities.BranchHead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ResolveBranchHead", identity)
	if s.ResolveErr != nil {
		return nil, s.ResolveErr
	}
	head := s.Head
	return &head, nil
}

func (s *SpyGitDataRepository) CreateBlob(
	_ context.Context,
	identity entities.RepositoryIdentity,
	change entities.Change,
) (string, error) {
	s.mu.Lock()
	s.blobsInFlight++
	s.maxBlobsInFlight = max(s.maxBlobsInFlight, s.blobsInFlight)
	delay := s.BlobDelay
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.blobsInFlight--
		s.mu.Unlock()
	}()
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CreateBlob", identity)
	s.BlobInputs = append(s.BlobInputs, change)
	if s.BlobErr != nil && (s.BlobErrPath == "" || s.BlobErrPath == change.Path) {
		return "", s.BlobErr
	}
	sha := plumbing.ComputeHash(plumbing.BlobObject, change.Content).String()
	s.blobs[sha] = change.Content
	return sha, nil
}

func (s *SpyGitDataRepository) CreateTree(
	_ context.Context,
	identity entities.RepositoryIdentity,
	baseTreeSHA string,
	blobs []entities.TreeBlob,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CreateTree", identity)
	s.TreeInputs = append(s.TreeInputs, TreeInput{BaseTreeSHA: baseTreeSHA, Blobs: blobs})
	if s.TreeErr != nil {
		return "", s.TreeErr
	}

	base, ok := s.trees[baseTreeSHA]
	if !ok {
		return "", &entities.RemoteError{Kind: entities.ErrRemote, StatusCode: 422, Message: "base_tree is not a tree"}
	}
	files := copyFiles(base)
	for _, blob := range blobs {
		content, found := s.blobs[blob.BlobSHA]
		if !found {
			return "", &entities.RemoteError{Kind: entities.ErrRemote, StatusCode: 422, Message: "unknown blob"}
		}
		files[blob.Path] = content
	}
	return s.storeTree(files), nil
}

func (s *SpyGitDataRepository) CreateCommit(
	_ context.Context,
	identity entities.RepositoryIdentity,
	message, treeSHA, parentSHA string,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CreateCommit", identity)
	s.CommitInputs = append(s.CommitInputs, CommitInput{Message: message, TreeSHA: treeSHA, ParentSHA: parentSHA})
	if s.CommitErr != nil {
		return "", s.CommitErr
	}
	return hashOf(plumbing.CommitObject, message+"\n"+treeSHA+"\n"+parentSHA), nil
}

func (s *SpyGitDataRepository) UpdateRef(
	_ context.Context,
	identity entities.RepositoryIdentity,
	commitSHA string,
) error {
	if s.BeforeUpdateRef != nil {
		s.BeforeUpdateRef()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("UpdateRef", identity)
	s.UpdatedRefs = append(s.UpdatedRefs, commitSHA)
	if len(s.UpdateErrs) > 0 {
		err := s.UpdateErrs[0]
		s.UpdateErrs = s.UpdateErrs[1:]
		if err != nil {
			return err
		}
	}

	var commit *CommitInput
	for i := range s.CommitInputs {
		input := s.CommitInputs[i]
		if hashOf(plumbing.CommitObject, input.Message+"\n"+input.TreeSHA+"\n"+input.ParentSHA) == commitSHA {
			commit = &input
		}
	}
	if commit == nil {
		return &entities.RemoteError{Kind: entities.ErrConflict, StatusCode: 422, Message: "Object does not exist"}
	}
	if commit.ParentSHA != s.Head.CommitSHA {
		return &entities.RemoteError{Kind: entities.ErrConflict, StatusCode: 422, Message: "Update is not a fast forward"}
	}
	s.Head = entities.BranchHead{CommitSHA: commitSHA, TreeSHA: commit.TreeSHA}
	s.Files = copyFiles(s.trees[commit.TreeSHA])
	return nil
}

func (s *SpyGitDataRepository) GetFileContent(
	_ context.Context,
	_ entities.RepositoryIdentity,
	filePath string,
) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FileReads = append(s.FileReads, filePath)
	if s.FileErr != nil {
		return nil, s.FileErr
	}
	content, ok := s.Files[filePath]
	if !ok {
		return nil, &entities.RemoteError{Kind: entities.ErrNotFound, StatusCode: 404, Message: "Not Found"}
	}
	return content, nil
}

func (s *SpyGitDataRepository) ListDirectory(
	_ context.Context,
	_ entities.RepositoryIdentity,
	dir string,
) ([]entities.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	var listing []entities.File
	for filePath, content := range s.Files {
		if path.Dir(filePath) != dir {
			continue
		}
		listing = append(listing, entities.File{
			Path:     filePath,
			ObjectID: plumbing.ComputeHash(plumbing.BlobObject, content).String(),
		})
	}
	if listing == nil {
		return nil, &entities.RemoteError{Kind: entities.ErrNotFound, StatusCode: 404, Message: "Not Found"}
	}
	sort.Slice(listing, func(i, j int) bool { return listing[i].Path < listing[j].Path })
	return listing, nil
}

func (s *SpyGitDataRepository) record(method string, identity entities.RepositoryIdentity) {
	s.Calls = append(s.Calls, method)
	s.Identities = append(s.Identities, identity)
}

func (s *SpyGitDataRepository) storeTree(files map[string][]byte) string {
	paths := make([]string, 0, len(files))
	for filePath := range files {
		paths = append(paths, filePath)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, filePath := range paths {
		fmt.Fprintf(&b, "%s %s\n", filePath, plumbing.ComputeHash(plumbing.BlobObject, files[filePath]))
	}
	sha := hashOf(plumbing.TreeObject, b.String())
	s.trees[sha] = files
	return sha
}

func hashOf(objectType plumbing.ObjectType, body string) string {
	return plumbing.ComputeHash(objectType, []byte(body)).String()
}

func copyFiles(files map[string][]byte) map[string][]byte {
	copied := make(map[string][]byte, len(files))
	for filePath, content := range files {
		copied[filePath] = content
	}
	return copied
}
