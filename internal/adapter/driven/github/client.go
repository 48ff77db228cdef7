// Package github implements the GitHost port using the go-github library.
package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/libreshift/libreshift/internal/domain/model"
	"github.com/libreshift/libreshift/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHost = (*Client)(nil)

// Client implements the driven.GitHost port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// GetRepository fetches repository metadata and maps it to the domain type.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*model.RepoInfo, error) {
	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, mapError("repository "+owner+"/"+repo, resp, err)
	}

	return &model.RepoInfo{
		DefaultBranch: r.GetDefaultBranch(),
		HTMLURL:       r.GetHTMLURL(),
		Private:       r.GetPrivate(),
	}, nil
}

// CreateRepository creates a private repository under the authenticated user
// with auto-init disabled, so the bootstrap path controls the first commit.
func (c *Client) CreateRepository(ctx context.Context, owner, repo, description string) (*model.RepoInfo, error) {
	r, resp, err := c.gh.Repositories.Create(ctx, "", &gh.Repository{
		Name:        gh.Ptr(repo),
		Description: gh.Ptr(description),
		Private:     gh.Ptr(true),
		AutoInit:    gh.Ptr(false),
	})
	if err != nil {
		return nil, mapError("creating repository "+owner+"/"+repo, resp, err)
	}

	return &model.RepoInfo{
		DefaultBranch: r.GetDefaultBranch(),
		HTMLURL:       r.GetHTMLURL(),
		Private:       r.GetPrivate(),
	}, nil
}

// GetBranchHead resolves a branch to its head commit sha and that commit's
// tree sha. Two calls: the ref lookup, then the commit object read.
func (c *Client) GetBranchHead(ctx context.Context, owner, repo, branch string) (*model.BranchHead, error) {
	ref, resp, err := c.gh.Git.GetRef(ctx, owner, repo, "refs/heads/"+branch)
	if err != nil {
		return nil, mapError("ref "+branch, resp, err)
	}

	commitSHA := ref.GetObject().GetSHA()
	commit, resp, err := c.gh.Git.GetCommit(ctx, owner, repo, commitSHA)
	if err != nil {
		return nil, mapError("commit "+commitSHA, resp, err)
	}

	return &model.BranchHead{
		CommitSHA: commitSHA,
		TreeSHA:   commit.GetTree().GetSHA(),
	}, nil
}

// CreateFile writes a single file through the contents endpoint, creating
// the branch's initial commit when none exists.
func (c *Client) CreateFile(ctx context.Context, owner, repo, branch, path, message string, content []byte) error {
	_, resp, err := c.gh.Repositories.CreateFile(ctx, owner, repo, path, &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: content,
		Branch:  gh.Ptr(branch),
	})
	if err != nil {
		return mapContentError(resp, err)
	}
	return nil
}

// CreateBlob uploads file bytes as a standalone base64-encoded blob.
func (c *Client) CreateBlob(ctx context.Context, owner, repo string, content []byte) (string, error) {
	blob, resp, err := c.gh.Git.CreateBlob(ctx, owner, repo, gh.Blob{
		Content:  gh.Ptr(base64.StdEncoding.EncodeToString(content)),
		Encoding: gh.Ptr("base64"),
	})
	if err != nil {
		return "", mapError("creating blob", resp, err)
	}
	return blob.GetSHA(), nil
}

// CreateTree assembles one tree-creation call from the domain entries.
// baseTreeSHA is passed through when non-empty (incremental tree) and
// omitted otherwise (root tree).
func (c *Client) CreateTree(ctx context.Context, owner, repo, baseTreeSHA string, entries []model.TreeEntry) (string, error) {
	ghEntries := make([]*gh.TreeEntry, 0, len(entries))
	for _, e := range entries {
		entry := &gh.TreeEntry{
			Path: gh.Ptr(e.Path),
			Mode: gh.Ptr(e.Mode),
			Type: gh.Ptr(e.Type),
		}
		// Exactly one of Content/SHA per entry; setting both would make
		// the host reject the tree.
		if e.SHA != "" {
			entry.SHA = gh.Ptr(e.SHA)
		} else {
			entry.Content = gh.Ptr(e.Content)
		}
		ghEntries = append(ghEntries, entry)
	}

	tree, resp, err := c.gh.Git.CreateTree(ctx, owner, repo, baseTreeSHA, ghEntries)
	if err != nil {
		return "", mapError("creating tree", resp, err)
	}
	return tree.GetSHA(), nil
}

// CreateCommit creates a commit object pointing at treeSHA with the given
// parents; none for a root commit.
func (c *Client) CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parentSHAs []string) (string, error) {
	parents := make([]*gh.Commit, 0, len(parentSHAs))
	for _, sha := range parentSHAs {
		parents = append(parents, &gh.Commit{SHA: gh.Ptr(sha)})
	}

	commit, resp, err := c.gh.Git.CreateCommit(ctx, owner, repo, gh.Commit{
		Message: gh.Ptr(message),
		Tree:    &gh.Tree{SHA: gh.Ptr(treeSHA)},
		Parents: parents,
	}, nil)
	if err != nil {
		return "", mapError("creating commit", resp, err)
	}

	slog.Debug("commit object created", "repo", owner+"/"+repo, "sha", commit.GetSHA())
	return commit.GetSHA(), nil
}

// CreateRef creates the branch ref pointing at commitSHA.
func (c *Client) CreateRef(ctx context.Context, owner, repo, branch, commitSHA string) error {
	_, resp, err := c.gh.Git.CreateRef(ctx, owner, repo, gh.CreateRef{
		Ref: "refs/heads/" + branch,
		SHA: commitSHA,
	})
	if err != nil {
		if isAlreadyExists(err) {
			return model.ErrRefExists
		}
		return mapError("creating ref "+branch, resp, err)
	}
	return nil
}

// UpdateRef moves the branch ref to commitSHA. A rejected non-force update
// means the branch moved concurrently and maps to *model.ConflictError.
func (c *Client) UpdateRef(ctx context.Context, owner, repo, branch, commitSHA string, force bool) error {
	_, resp, err := c.gh.Git.UpdateRef(ctx, owner, repo, "refs/heads/"+branch, gh.UpdateRef{
		SHA:   commitSHA,
		Force: gh.Ptr(force),
	})
	if err != nil {
		if !force && statusOf(resp, err) == http.StatusUnprocessableEntity {
			return &model.ConflictError{Branch: branch}
		}
		return mapError("updating ref "+branch, resp, err)
	}
	return nil
}

// mapError translates go-github errors into the domain's typed error kinds.
func mapError(resource string, resp *gh.Response, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &model.RateLimitError{Remaining: rateErr.Rate.Remaining, Message: rateErr.Message}
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &model.RateLimitError{Remaining: -1, Message: abuseErr.Message}
	}

	switch status := statusOf(resp, err); {
	case status == http.StatusNotFound:
		return &model.NotFoundError{Resource: resource}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &model.AuthError{StatusCode: status, Message: errMessage(err)}
	case status >= 500, status == 0:
		// 5xx, or no HTTP response at all (network failure).
		return &model.TransientHostError{Stage: resource, Err: err}
	default:
		return fmt.Errorf("%s: %w", resource, err)
	}
}

// mapContentError handles the contents endpoint's bootstrap-specific
// responses: an already-initialized file is reported so the resolver can
// treat the retry as success, and a rejected branch name triggers the
// legacy-branch fallback.
func mapContentError(resp *gh.Response, err error) error {
	status := statusOf(resp, err)
	msg := strings.ToLower(errMessage(err))

	switch {
	case status == http.StatusConflict:
		return model.ErrContentExists
	case status == http.StatusUnprocessableEntity && (strings.Contains(msg, "exist") || strings.Contains(msg, "sha")):
		return model.ErrContentExists
	case status == http.StatusUnprocessableEntity:
		return model.ErrBranchRejected
	default:
		return mapError("bootstrap content write", resp, err)
	}
}

func isAlreadyExists(err error) bool {
	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	return ghErr.Response != nil &&
		ghErr.Response.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(strings.ToLower(ghErr.Message), "already exists")
}

// statusOf extracts the HTTP status from either the response or the error.
// Returns 0 when the request never produced an HTTP response.
func statusOf(resp *gh.Response, err error) int {
	if resp != nil {
		return resp.StatusCode
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

func errMessage(err error) string {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
