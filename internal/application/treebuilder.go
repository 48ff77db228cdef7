package application

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/libreshift/libreshift/internal/domain/model"
	"github.com/libreshift/libreshift/internal/domain/port/driven"
)

const (
	// InlineBlobThreshold is the file size above which content is uploaded
	// as a separate blob instead of being inlined in the tree-creation call.
	// Inlining very large files risks the host's request-size limits;
	// always uploading blobs would multiply round-trips for the common
	// small-file case.
	InlineBlobThreshold = 1 << 20

	// blobUploadConcurrency bounds the fan-out of independent blob uploads.
	blobUploadConcurrency = 4
)

// TreeBuilder converts a cleaned file set into one Git tree. Oversized files
// are uploaded as blobs concurrently; their results are joined before the
// single tree-creation call, which references the base tree when the branch
// has prior history.
type TreeBuilder struct {
	host   driven.GitHost
	logger *slog.Logger
}

// NewTreeBuilder creates a TreeBuilder over the given host.
func NewTreeBuilder(host driven.GitHost, logger *slog.Logger) *TreeBuilder {
	return &TreeBuilder{host: host, logger: logger}
}

// Build uploads oversized blobs, assembles the tree entries in input order,
// and creates the tree. Any single failure aborts the whole build: a tree
// referencing a subset of files would silently drop changes, which is worse
// than failing the operation.
func (b *TreeBuilder) Build(ctx context.Context, state *model.RepoState, files []model.CleanedFileRecord) (string, error) {
	entries := make([]model.TreeEntry, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blobUploadConcurrency)

	for i, f := range files {
		entries[i] = model.TreeEntry{
			Path: f.Path,
			Mode: model.TreeModeFile,
			Type: model.TreeTypeBlob,
		}

		if len(f.Content) <= InlineBlobThreshold {
			entries[i].Content = f.Content
			continue
		}

		g.Go(func() error {
			sha, err := b.host.CreateBlob(gctx, state.Owner, state.Repo, []byte(f.Content))
			if err != nil {
				return fmt.Errorf("uploading blob for %s: %w", f.Path, err)
			}
			entries[i].SHA = sha
			b.logger.Debug("blob uploaded", "path", f.Path, "size", len(f.Content), "sha", sha)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", &model.PartialBuildError{FilesPlanned: len(files), Err: err}
	}

	treeSHA, err := b.host.CreateTree(ctx, state.Owner, state.Repo, state.BaseTreeSHA, entries)
	if err != nil {
		return "", &model.PartialBuildError{FilesPlanned: len(files), Err: fmt.Errorf("creating tree: %w", err)}
	}

	b.logger.Info("tree created",
		"destination", state.Owner+"/"+state.Repo,
		"entries", len(entries),
		"base_tree", state.BaseTreeSHA != "",
		"tree_sha", treeSHA,
	)

	return treeSHA, nil
}
