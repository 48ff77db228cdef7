package model

import (
	"fmt"
	"strings"
)

// Destination identifies the repository a liberated project is published to.
type Destination struct {
	Owner string
	Repo  string
}

// String returns the "owner/repo" form.
func (d Destination) String() string {
	return d.Owner + "/" + d.Repo
}

// ParseDestination splits an "owner/repo" identifier. A malformed identifier
// is a ValidationError.
func ParseDestination(s string) (Destination, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return Destination{}, &ValidationError{Reason: fmt.Sprintf("destination must be owner/repo, got %q", s)}
	}
	return Destination{Owner: parts[0], Repo: parts[1]}, nil
}

// RepoInfo is the subset of repository metadata the pipeline needs.
type RepoInfo struct {
	DefaultBranch string
	HTMLURL       string
	Private       bool
}

// BranchHead is the resolved tip of a branch: the commit sha and the sha of
// the tree that commit points at.
type BranchHead struct {
	CommitSHA string
	TreeSHA   string
}

// RepoState is the outcome of one repository resolution. BaseCommitSHA and
// BaseTreeSHA are empty only when the target branch has no prior history,
// which selects the root-commit path. Never cached across publishes: branch
// heads are externally mutable.
type RepoState struct {
	Owner         string
	Repo          string
	Branch        string
	BaseCommitSHA string
	BaseTreeSHA   string
	HTMLURL       string
	Created       bool // True when resolution had to create the repository.
}

// HasBase reports whether the branch had prior history at resolution time.
func (s *RepoState) HasBase() bool {
	return s.BaseCommitSHA != ""
}

// Git object modes and types used by the tree builder. Every published file
// is a regular non-executable blob.
const (
	TreeModeFile = "100644"
	TreeTypeBlob = "blob"
)

// TreeEntry is one path in the tree-creation payload. Exactly one of Content
// and SHA is set: Content for files at or under the inline threshold, SHA for
// files uploaded as separate blobs.
type TreeEntry struct {
	Path    string
	Mode    string
	Type    string
	Content string
	SHA     string
}

// PublishResult is the terminal value of one liberation. The pipeline holds
// no state after producing it.
type PublishResult struct {
	Success        bool
	RepoURL        string
	CommitSHA      string
	Branch         string
	FilesPublished int
	TotalChanges   int
	Excluded       []string
}
