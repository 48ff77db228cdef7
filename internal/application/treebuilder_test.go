package application_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshift/libreshift/internal/application"
	"github.com/libreshift/libreshift/internal/domain/model"
)

func baseState() *model.RepoState {
	return &model.RepoState{
		Owner:         "octocat",
		Repo:          "liberated-app",
		Branch:        "main",
		BaseCommitSHA: "basecommitsha",
		BaseTreeSHA:   "basetreesha",
	}
}

func TestBuildInlinesSmallFilesAndUploadsLargeOnes(t *testing.T) {
	host := &mockGitHost{}
	builder := application.NewTreeBuilder(host, discardLogger())

	small := strings.Repeat("a", application.InlineBlobThreshold)
	large := strings.Repeat("b", application.InlineBlobThreshold+1)
	files := []model.CleanedFileRecord{
		{Path: "small.txt", Content: small},
		{Path: "large.txt", Content: large},
	}

	treeSHA, err := builder.Build(context.Background(), baseState(), files)

	require.NoError(t, err)
	assert.Equal(t, "treesha", treeSHA)
	require.Len(t, host.treeEntries, 2)

	inline := host.treeEntries[0]
	assert.Equal(t, small, inline.Content)
	assert.Empty(t, inline.SHA)

	blob := host.treeEntries[1]
	assert.Empty(t, blob.Content)
	assert.Equal(t, "blobsha", blob.SHA)

	require.Len(t, host.blobContents, 1)
	assert.Len(t, host.blobContents[0], application.InlineBlobThreshold+1)
}

func TestBuildEntryShape(t *testing.T) {
	host := &mockGitHost{}
	builder := application.NewTreeBuilder(host, discardLogger())

	files := []model.CleanedFileRecord{
		{Path: "src/index.ts", Content: "export {};\n"},
		{Path: "README.md", Content: "# demo\n"},
	}

	_, err := builder.Build(context.Background(), baseState(), files)

	require.NoError(t, err)
	require.Len(t, host.treeEntries, 2)
	assert.Equal(t, "src/index.ts", host.treeEntries[0].Path)
	assert.Equal(t, "README.md", host.treeEntries[1].Path)
	for _, e := range host.treeEntries {
		assert.Equal(t, model.TreeModeFile, e.Mode)
		assert.Equal(t, model.TreeTypeBlob, e.Type)
	}
}

func TestBuildReferencesBaseTree(t *testing.T) {
	host := &mockGitHost{}
	builder := application.NewTreeBuilder(host, discardLogger())
	files := []model.CleanedFileRecord{{Path: "a.txt", Content: "a"}}

	_, err := builder.Build(context.Background(), baseState(), files)

	require.NoError(t, err)
	assert.Equal(t, "basetreesha", host.treeBaseSHA)
}

func TestBuildRootTreeOmitsBase(t *testing.T) {
	host := &mockGitHost{}
	builder := application.NewTreeBuilder(host, discardLogger())
	state := &model.RepoState{Owner: "octocat", Repo: "liberated-app", Branch: "main"}
	files := []model.CleanedFileRecord{{Path: "a.txt", Content: "a"}}

	_, err := builder.Build(context.Background(), state, files)

	require.NoError(t, err)
	assert.Empty(t, host.treeBaseSHA)
}

func TestBuildBlobFailureAbortsWholeBuild(t *testing.T) {
	host := &mockGitHost{
		createBlobFunc: func(_ []byte) (string, error) {
			return "", &model.TransientHostError{Stage: "create blob", Err: context.DeadlineExceeded}
		},
	}
	builder := application.NewTreeBuilder(host, discardLogger())

	files := []model.CleanedFileRecord{
		{Path: "small.txt", Content: "tiny"},
		{Path: "large.txt", Content: strings.Repeat("b", application.InlineBlobThreshold+1)},
	}

	treeSHA, err := builder.Build(context.Background(), baseState(), files)

	assert.Empty(t, treeSHA)
	var partial *model.PartialBuildError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 2, partial.FilesPlanned)
	assert.False(t, host.called("CreateTree"))
}

func TestBuildTreeFailureIsPartialBuild(t *testing.T) {
	host := &mockGitHost{
		createTreeFunc: func(_ string, _ []model.TreeEntry) (string, error) {
			return "", &model.TransientHostError{Stage: "create tree", Err: context.DeadlineExceeded}
		},
	}
	builder := application.NewTreeBuilder(host, discardLogger())
	files := []model.CleanedFileRecord{{Path: "a.txt", Content: "a"}}

	_, err := builder.Build(context.Background(), baseState(), files)

	var partial *model.PartialBuildError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.FilesPlanned)
}
