package entities

// BranchHead is the commit a branch pointed at when a pipeline started.
type BranchHead struct {
	CommitSHA string `json:"commit_sha"`
	TreeSHA   string `json:"tree_sha"`
}

// TreeBlob is one path->blob overlay entry of a new tree.
type TreeBlob struct {
	Path    string
	BlobSHA string
}

// CommitResult is what a successful commit leaves behind.
type CommitResult struct {
	SHA       string `json:"sha"`
	ParentSHA string `json:"parent_sha"`
	TreeSHA   string `json:"tree_sha"`
	Branch    string `json:"branch"`
}

// ShortSHA abbreviates a 40-hex object id for log lines.
func ShortSHA(sha string) string {
	const short = 7
	if len(sha) <= short {
		return sha
	}
	return sha[:short]
}

