package driven

import (
	"context"

	"github.com/libreshift/libreshift/internal/domain/model"
)

// GitHost defines the driven port for the version-control host's REST API.
// It exposes exactly the low-level object operations the publish pipeline
// needs: repository metadata, branch refs, the single-file contents write
// used for bootstrap, and blob/tree/commit creation.
//
// Implementations map host responses to the typed error kinds in
// internal/domain/model: *model.AuthError, *model.RateLimitError,
// *model.NotFoundError, *model.TransientHostError, *model.ConflictError,
// and the sentinels model.ErrContentExists, model.ErrBranchRejected,
// model.ErrRefExists.
type GitHost interface {
	// GetRepository fetches repository metadata. A missing repository is a
	// *model.NotFoundError.
	GetRepository(ctx context.Context, owner, repo string) (*model.RepoInfo, error)

	// CreateRepository creates a private repository with no auto-initialized
	// first commit. Auto-init is deliberately avoided: it forces a README
	// commit that races with the bootstrap path.
	CreateRepository(ctx context.Context, owner, repo, description string) (*model.RepoInfo, error)

	// GetBranchHead resolves a branch ref to its commit sha and that
	// commit's tree sha. A branch with no commits is a *model.NotFoundError.
	GetBranchHead(ctx context.Context, owner, repo, branch string) (*model.BranchHead, error)

	// CreateFile writes a single file through the contents endpoint,
	// creating the branch's initial commit when none exists. An
	// already-initialized file maps to model.ErrContentExists; a rejected
	// branch name maps to model.ErrBranchRejected.
	CreateFile(ctx context.Context, owner, repo, branch, path, message string, content []byte) error

	// CreateBlob uploads raw file bytes as a standalone blob (transmitted
	// base64-encoded) and returns its sha.
	CreateBlob(ctx context.Context, owner, repo string, content []byte) (string, error)

	// CreateTree creates a tree from the given entries, referencing
	// baseTreeSHA when non-empty (incremental tree) or none (root tree),
	// and returns the new tree's sha.
	CreateTree(ctx context.Context, owner, repo, baseTreeSHA string, entries []model.TreeEntry) (string, error)

	// CreateCommit creates a commit object pointing at treeSHA with the
	// given parents (none for a root commit) and returns its sha.
	CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parentSHAs []string) (string, error)

	// CreateRef creates the branch ref pointing at commitSHA. A ref that
	// already exists maps to model.ErrRefExists.
	CreateRef(ctx context.Context, owner, repo, branch, commitSHA string) error

	// UpdateRef moves the branch ref to commitSHA. A non-force update
	// rejected because the branch moved maps to *model.ConflictError.
	UpdateRef(ctx context.Context, owner, repo, branch, commitSHA string, force bool) error
}
