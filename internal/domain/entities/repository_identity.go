package entities

import (
	"fmt"
	"strings"
)

const (
	DefaultOwner  = "xaxela"
	DefaultRepo   = "myweb"
	DefaultBranch = "main"
)

// RepositoryIdentity names the repository and branch the CMS commits to.
type RepositoryIdentity struct {
	Owner    string `yaml:"owner"  json:"owner"`
	RepoName string `yaml:"repo"   json:"repo"`
	Branch   string `yaml:"branch" json:"branch"`
}

// NewRepositoryIdentity trims and validates the three fields.
func NewRepositoryIdentity(owner, repoName, branch string) (RepositoryIdentity, error) {
	identity := RepositoryIdentity{
		Owner:    strings.TrimSpace(owner),
		RepoName: strings.TrimSpace(repoName),
		Branch:   strings.TrimPrefix(strings.TrimSpace(branch), "refs/heads/"),
	}
	if err := identity.Validate(); err != nil {
		return RepositoryIdentity{}, err
	}
	return identity, nil
}

// DefaultRepositoryIdentity is used until the editor configures something else.
func DefaultRepositoryIdentity() RepositoryIdentity {
	return RepositoryIdentity{Owner: DefaultOwner, RepoName: DefaultRepo, Branch: DefaultBranch}
}

// Validate checks that owner, repository and branch are all present.
func (r RepositoryIdentity) Validate() error {
	var missing []string
	if r.Owner == "" {
		missing = append(missing, "owner")
	}
	if r.RepoName == "" {
		missing = append(missing, "repo")
	}
	if r.Branch == "" {
		missing = append(missing, "branch")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: repository identity is missing %s",
			ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// IsComplete reports whether Validate would succeed.
func (r RepositoryIdentity) IsComplete() bool {
	return r.Validate() == nil
}

// BranchRef is the ref path as the Git Data API expects it ("heads/<branch>").
func (r RepositoryIdentity) BranchRef() string {
	return "heads/" + r.Branch
}

func (r RepositoryIdentity) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Owner, r.RepoName, r.Branch)
}
