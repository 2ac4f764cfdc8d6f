//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Route names used by FakeGitHubServer.Fail and RequestCount.
const (
	RouteGetCommit    = "get-commit"
	RouteCreateBlob   = "create-blob"
	RouteGetBlob      = "get-blob"
	RouteCreateTree   = "create-tree"
	RouteCreateCommit = "create-commit"
	RouteUpdateRef    = "update-ref"
	RouteGetContents  = "get-contents"
)

// RecordedRequest is one request the fake server received.
type RecordedRequest struct {
	Route         string
	Method        string
	Path          string
	Authorization string
	Accept        string
}

type fakeCommit struct {
	tree   string
	parent string
}

type fakeFailure struct {
	status  int
	message string
	headers map[string]string
}

// FakeGitHubServer is an httptest server speaking the slice of the GitHub REST
// API the CMS uses: commits, Git Data objects, refs and contents. Object ids are
// real git hashes of what was stored.
type FakeGitHubServer struct {
	*httptest.Server

	Owner  string
	Repo   string
	Branch string

	// InlineLimit makes the contents endpoint answer with encoding "none" for
	// files larger than it, as GitHub does above 1MB. Zero disables it.
	InlineLimit int

	// Delay holds every response back until it passes or the client gives up.
	Delay time.Duration

	mu       sync.Mutex
	head     string
	blobs    map[string][]byte
	trees    map[string]map[string]string // tree sha -> path -> blob sha
	commits  map[string]fakeCommit
	failures map[string]fakeFailure
	requests []RecordedRequest
}

// NewFakeGitHubServer starts a server whose branch holds files. It is closed
// when the test ends.
func NewFakeGitHubServer(t *testing.T, owner, repo, branch string, files map[string][]byte) *FakeGitHubServer {
	t.Helper()

	server := &FakeGitHubServer{
		Owner:    owner,
		Repo:     repo,
		Branch:   branch,
		blobs:    map[string][]byte{},
		trees:    map[string]map[string]string{},
		commits:  map[string]fakeCommit{},
		failures: map[string]fakeFailure{},
	}

	entries := map[string]string{}
	for filePath, content := range files {
		entries[filePath] = server.storeBlob(content)
	}
	tree := server.storeTree(entries)
	server.head = server.storeCommit("initial commit", tree, "")

	prefix := fmt.Sprintf("/repos/%s/%s", owner, repo)
	router := chi.NewRouter()
	router.Get(prefix+"/commits/{ref}", server.handle(RouteGetCommit, server.getCommit))
	router.Post(prefix+"/git/blobs", server.handle(RouteCreateBlob, server.createBlob))
	router.Get(prefix+"/git/blobs/{sha}", server.handle(RouteGetBlob, server.getBlob))
	router.Post(prefix+"/git/trees", server.handle(RouteCreateTree, server.createTree))
	router.Post(prefix+"/git/commits", server.handle(RouteCreateCommit, server.createCommit))
	router.Patch(prefix+"/git/refs/heads/{branch}", server.handle(RouteUpdateRef, server.updateRef))
	router.Get(prefix+"/contents/*", server.handle(RouteGetContents, server.getContents))
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	server.Server = httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// Fail makes every request to route answer with status and message.
func (s *FakeGitHubServer) Fail(route string, status int, message string) {
	s.FailWithHeaders(route, status, message, nil)
}

// FailWithHeaders is Fail with extra response headers (e.g. rate limit headers).
func (s *FakeGitHubServer) FailWithHeaders(route string, status int, message string, headers map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = fakeFailure{status: status, message: message, headers: headers}
}

// Recover removes a failure set with Fail.
func (s *FakeGitHubServer) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Head is the commit the branch points at.
func (s *FakeGitHubServer) Head() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head
}

// Parent is the first parent of commit sha.
func (s *FakeGitHubServer) Parent(sha string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits[sha].parent
}

// File returns a file from the branch head.
func (s *FakeGitHubServer) File(filePath string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.trees[s.commits[s.head].tree][filePath]
	if !ok {
		return nil, false
	}
	return s.blobs[blob], true
}

// AdvanceBranch commits file directly, as another writer would.
func (s *FakeGitHubServer) AdvanceBranch(filePath string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := copyEntries(s.trees[s.commits[s.head].tree])
	entries[filePath] = s.storeBlob(content)
	s.head = s.storeCommit("concurrent change", s.storeTree(entries), s.head)
}

// Requests returns every request received so far.
func (s *FakeGitHubServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// RequestCount counts the requests to route; an empty route counts them all.
func (s *FakeGitHubServer) RequestCount(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, request := range s.requests {
		if route == "" || request.Route == route {
			count++
		}
	}
	return count
}

func (s *FakeGitHubServer) handle(
	route string,
	next func(w http.ResponseWriter, r *http.Request),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Route:         route,
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Accept:        r.Header.Get("Accept"),
		})
		failure, failing := s.failures[route]
		delay := s.Delay
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if failing {
			for key, value := range failure.headers {
				w.Header().Set(key, value)
			}
			writeJSON(w, failure.status, map[string]string{"message": failure.message})
			return
		}
		next(w, r)
	}
}

func (s *FakeGitHubServer) getCommit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := chi.URLParam(r, "ref")
	sha := ref
	if ref == s.Branch {
		sha = s.head
	}
	commit, ok := s.commits[sha]
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "No commit found for SHA: " + ref})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sha": sha,
		"commit": map[string]any{
			"tree": map[string]string{"sha": commit.tree},
		},
	})
}

func (s *FakeGitHubServer) createBlob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	content := []byte(body.Content)
	switch body.Encoding {
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(body.Content)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid base64 content"})
			return
		}
		content = decoded
	case "utf-8", "":
	default:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid encoding"})
		return
	}

	s.mu.Lock()
	sha := s.storeBlob(content)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"sha": sha})
}

func (s *FakeGitHubServer) getBlob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	content, ok := s.blobs[chi.URLParam(r, "sha")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	w.Header().Set("Content-Type", "application/vnd.github.raw")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (s *FakeGitHubServer) createTree(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BaseTree string `json:"base_tree"`
		Tree     []struct {
			Path string `json:"path"`
			Mode string `json:"mode"`
			Type string `json:"type"`
			SHA  string `json:"sha"`
		} `json:"tree"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	base, ok := s.trees[body.BaseTree]
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid tree info"})
		return
	}
	entries := copyEntries(base)
	for _, entry := range body.Tree {
		if _, known := s.blobs[entry.SHA]; !known || entry.Mode != "100644" || entry.Type != "blob" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid tree info"})
			return
		}
		entries[entry.Path] = entry.SHA
	}
	writeJSON(w, http.StatusCreated, map[string]string{"sha": s.storeTree(entries)})
}

func (s *FakeGitHubServer) createCommit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string   `json:"message"`
		Tree    string   `json:"tree"`
		Parents []string `json:"parents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[body.Tree]; !ok || len(body.Parents) != 1 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Tree SHA does not exist"})
		return
	}
	if _, ok := s.commits[body.Parents[0]]; !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Parent SHA does not exist"})
		return
	}
	sha := s.storeCommit(body.Message, body.Tree, body.Parents[0])
	writeJSON(w, http.StatusCreated, map[string]string{"sha": sha})
}

func (s *FakeGitHubServer) updateRef(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SHA   string `json:"sha"`
		Force bool   `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if chi.URLParam(r, "branch") != s.Branch {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Reference does not exist"})
		return
	}
	commit, ok := s.commits[body.SHA]
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Object does not exist"})
		return
	}
	if !body.Force && commit.parent != s.head {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Update is not a fast forward"})
		return
	}
	s.head = body.SHA
	writeJSON(w, http.StatusOK, map[string]any{
		"ref":    "refs/heads/" + s.Branch,
		"object": map[string]string{"type": "commit", "sha": body.SHA},
	})
}

func (s *FakeGitHubServer) getContents(w http.ResponseWriter, r *http.Request) {
	target := strings.Trim(chi.URLParam(r, "*"), "/")

	s.mu.Lock()
	defer s.mu.Unlock()
	if ref := r.URL.Query().Get("ref"); ref != "" && ref != s.Branch {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No commit found for the ref " + ref})
		return
	}
	entries := s.trees[s.commits[s.head].tree]

	if blob, ok := entries[target]; ok {
		content := s.blobs[blob]
		file := map[string]any{
			"type":     "file",
			"name":     path.Base(target),
			"path":     target,
			"sha":      blob,
			"size":     len(content),
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString(content),
		}
		if s.InlineLimit > 0 && len(content) > s.InlineLimit {
			file["encoding"] = "none"
			file["content"] = ""
		}
		writeJSON(w, http.StatusOK, file)
		return
	}

	listing := s.listDirectory(entries, target)
	if len(listing) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *FakeGitHubServer) listDirectory(entries map[string]string, dir string) []map[string]any {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	seenDirs := map[string]bool{}
	var listing []map[string]any
	for filePath, blob := range entries {
		if !strings.HasPrefix(filePath, prefix) {
			continue
		}
		rest := strings.TrimPrefix(filePath, prefix)
		if name, _, nested := strings.Cut(rest, "/"); nested {
			if !seenDirs[name] {
				seenDirs[name] = true
				listing = append(listing, map[string]any{
					"type": "dir", "name": name, "path": prefix + name, "sha": "", "size": 0,
				})
			}
			continue
		}
		listing = append(listing, map[string]any{
			"type": "file", "name": rest, "path": filePath, "sha": blob, "size": len(s.blobs[blob]),
		})
	}
	sort.Slice(listing, func(i, j int) bool {
		return listing[i]["path"].(string) < listing[j]["path"].(string)
	})
	return listing
}

func (s *FakeGitHubServer) storeBlob(content []byte) string {
	sha := plumbing.ComputeHash(plumbing.BlobObject, content).String()
	s.blobs[sha] = content
	return sha
}

func (s *FakeGitHubServer) storeTree(entries map[string]string) string {
	paths := make([]string, 0, len(entries))
	for filePath := range entries {
		paths = append(paths, filePath)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, filePath := range paths {
		fmt.Fprintf(&b, "100644 %s %s\n", filePath, entries[filePath])
	}
	sha := plumbing.ComputeHash(plumbing.TreeObject, []byte(b.String())).String()
	s.trees[sha] = entries
	return sha
}

func (s *FakeGitHubServer) storeCommit(message, tree, parent string) string {
	body := "tree " + tree + "\n"
	if parent != "" {
		body += "parent " + parent + "\n"
	}
	body += "\n" + message + "\n"
	sha := plumbing.ComputeHash(plumbing.CommitObject, []byte(body)).String()
	s.commits[sha] = fakeCommit{tree: tree, parent: parent}
	return sha
}

func copyEntries(entries map[string]string) map[string]string {
	copied := make(map[string]string, len(entries))
	for filePath, blob := range entries {
		copied[filePath] = blob
	}
	return copied
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
