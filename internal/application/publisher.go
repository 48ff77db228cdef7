package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/libreshift/libreshift/internal/domain/model"
	"github.com/libreshift/libreshift/internal/domain/port/driven"
)

// CommitPublisher creates the commit object for a built tree and moves the
// branch ref onto it.
type CommitPublisher struct {
	host   driven.GitHost
	logger *slog.Logger
}

// NewCommitPublisher creates a publisher over the given host.
func NewCommitPublisher(host driven.GitHost, logger *slog.Logger) *CommitPublisher {
	return &CommitPublisher{host: host, logger: logger}
}

// Publish creates a commit pointing at treeSHA, parented on the base commit
// when one exists (a root commit otherwise), and updates the branch ref.
//
// When a base commit existed the update is non-forced, so a branch that moved
// under a concurrent external push is rejected rather than overwritten; that
// rejection surfaces as *model.ConflictError. When no base existed the ref is
// created, and only if creation races with a branch that appeared after
// bootstrap does the publisher force the update: our root commit is the
// intended initial state.
//
// If the ref update fails after the commit object was created, the commit is
// orphaned on the host. It is not cleaned up: the host garbage-collects
// unreachable objects, and retrying the whole publish is safer than a
// compensating delete.
func (p *CommitPublisher) Publish(ctx context.Context, state *model.RepoState, treeSHA, message string) (string, error) {
	var parents []string
	if state.HasBase() {
		parents = []string{state.BaseCommitSHA}
	}

	commitSHA, err := p.host.CreateCommit(ctx, state.Owner, state.Repo, message, treeSHA, parents)
	if err != nil {
		return "", &model.PartialBuildError{Err: fmt.Errorf("creating commit: %w", err)}
	}

	if state.HasBase() {
		if err := p.host.UpdateRef(ctx, state.Owner, state.Repo, state.Branch, commitSHA, false); err != nil {
			return "", fmt.Errorf("updating ref %s: %w", state.Branch, err)
		}
	} else {
		err := p.host.CreateRef(ctx, state.Owner, state.Repo, state.Branch, commitSHA)
		if errors.Is(err, model.ErrRefExists) {
			// The branch appeared between bootstrap and now.
			err = p.host.UpdateRef(ctx, state.Owner, state.Repo, state.Branch, commitSHA, true)
		}
		if err != nil {
			return "", fmt.Errorf("creating ref %s: %w", state.Branch, err)
		}
	}

	p.logger.Info("commit published",
		"destination", state.Owner+"/"+state.Repo,
		"branch", state.Branch,
		"commit_sha", commitSHA,
		"root_commit", !state.HasBase(),
	)

	return commitSHA, nil
}
