package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/libreshift/libreshift/internal/domain/model"
	"github.com/libreshift/libreshift/internal/domain/port/driven"
)

const (
	primaryBranch = "main"
	legacyBranch  = "master"

	// bootstrapConvergeDelay absorbs host-side eventual consistency between
	// the bootstrap content write and the ref becoming readable.
	bootstrapConvergeDelay = 2 * time.Second

	bootstrapFileName = "README.md"
)

// RepositoryResolver establishes the repository and branch preconditions one
// publish needs: does the repository exist, which branch holds history, and
// what are the base commit and tree shas. It creates the repository and
// bootstraps an initial commit when necessary.
type RepositoryResolver struct {
	host   driven.GitHost
	logger *slog.Logger

	// sleep is swapped for a no-op in tests.
	sleep func(time.Duration)
}

// NewRepositoryResolver creates a resolver over the given host.
func NewRepositoryResolver(host driven.GitHost, logger *slog.Logger) *RepositoryResolver {
	return &RepositoryResolver{host: host, logger: logger, sleep: time.Sleep}
}

// Resolve runs the CheckExists → Create → ReadDefaultBranch → Bootstrap state
// machine and returns the RepoState the tree builder and commit publisher
// consume. Auth and rate-limit failures propagate immediately: retrying them
// would not change the outcome.
func (r *RepositoryResolver) Resolve(ctx context.Context, dest model.Destination) (*model.RepoState, error) {
	state := &model.RepoState{Owner: dest.Owner, Repo: dest.Repo}

	info, err := r.host.GetRepository(ctx, dest.Owner, dest.Repo)
	switch {
	case err == nil:
		state.HTMLURL = info.HTMLURL
		state.Branch = info.DefaultBranch
		if state.Branch == "" {
			state.Branch = primaryBranch
		}

	case isNotFound(err):
		r.logger.Info("repository absent, creating", "destination", dest.String())
		created, createErr := r.host.CreateRepository(ctx, dest.Owner, dest.Repo,
			"Liberated by LibreShift: proprietary services replaced with self-hostable equivalents")
		if createErr != nil {
			return nil, fmt.Errorf("creating repository %s: %w", dest.String(), createErr)
		}
		state.HTMLURL = created.HTMLURL
		state.Created = true
		return r.bootstrap(ctx, state)

	default:
		return nil, fmt.Errorf("checking repository %s: %w", dest.String(), err)
	}

	head, err := r.host.GetBranchHead(ctx, dest.Owner, dest.Repo, state.Branch)
	switch {
	case err == nil:
		state.BaseCommitSHA = head.CommitSHA
		state.BaseTreeSHA = head.TreeSHA
		return state, nil

	case isNotFound(err):
		// Repository exists but the branch has no commits (e.g. emptied).
		return r.bootstrap(ctx, state)

	default:
		return nil, fmt.Errorf("reading branch %s of %s: %w", state.Branch, dest.String(), err)
	}
}

// bootstrap creates a single-file initial commit via the contents endpoint so
// later commits have a base to extend, then re-reads the branch head once
// after a short delay. An already-initialized file is success: bootstrap is
// an idempotent retry. If the primary branch name is rejected, the legacy
// name is tried before failing. A bootstrap that cannot be confirmed leaves
// the base shas empty and the caller proceeds with a full root tree.
func (r *RepositoryResolver) bootstrap(ctx context.Context, state *model.RepoState) (*model.RepoState, error) {
	branch := state.Branch
	if branch == "" {
		branch = primaryBranch
	}

	readme := fmt.Sprintf("# %s\n\nLiberated by LibreShift.\n", state.Repo)
	err := r.host.CreateFile(ctx, state.Owner, state.Repo, branch, bootstrapFileName,
		"Initialize repository", []byte(readme))

	switch {
	case err == nil, errors.Is(err, model.ErrContentExists):
		// Initialized now or on a prior attempt; either way there is history.

	case errors.Is(err, model.ErrBranchRejected):
		if branch != primaryBranch {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("branch name %q rejected by host", branch)}
		}
		r.logger.Warn("primary branch name rejected, retrying legacy name",
			"destination", state.Owner+"/"+state.Repo)
		branch = legacyBranch
		err = r.host.CreateFile(ctx, state.Owner, state.Repo, branch, bootstrapFileName,
			"Initialize repository", []byte(readme))
		switch {
		case err == nil, errors.Is(err, model.ErrContentExists):
		case errors.Is(err, model.ErrBranchRejected):
			return nil, &model.ValidationError{Reason: fmt.Sprintf("branch name %q rejected by host", branch)}
		default:
			return nil, fmt.Errorf("bootstrapping %s/%s on %s: %w", state.Owner, state.Repo, branch, err)
		}

	default:
		return nil, fmt.Errorf("bootstrapping %s/%s on %s: %w", state.Owner, state.Repo, branch, err)
	}

	state.Branch = branch

	r.sleep(bootstrapConvergeDelay)
	head, err := r.host.GetBranchHead(ctx, state.Owner, state.Repo, branch)
	if err != nil && isTransient(err) {
		// The convergence check is the only retried call in the pipeline:
		// once, after the same fixed delay.
		r.sleep(bootstrapConvergeDelay)
		head, err = r.host.GetBranchHead(ctx, state.Owner, state.Repo, branch)
	}
	if err != nil {
		r.logger.Warn("bootstrap not confirmed, proceeding with root tree",
			"destination", state.Owner+"/"+state.Repo, "branch", branch, "error", err)
		return state, nil
	}

	state.BaseCommitSHA = head.CommitSHA
	state.BaseTreeSHA = head.TreeSHA
	return state, nil
}

func isNotFound(err error) bool {
	var nf *model.NotFoundError
	return errors.As(err, &nf)
}

func isTransient(err error) bool {
	var th *model.TransientHostError
	return errors.As(err, &th)
}
