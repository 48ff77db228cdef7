package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/libreshift/libreshift/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type refUpdate struct {
	branch string
	sha    string
	force  bool
}

// mockGitHost implements driven.GitHost with programmable function fields.
// Unset fields fall back to a healthy private repository whose main branch
// holds one commit, so happy-path tests need no setup.
type mockGitHost struct {
	getRepositoryFunc    func(owner, repo string) (*model.RepoInfo, error)
	createRepositoryFunc func(owner, repo, description string) (*model.RepoInfo, error)
	getBranchHeadFunc    func(owner, repo, branch string) (*model.BranchHead, error)
	createFileFunc       func(owner, repo, branch, path string) error
	createBlobFunc       func(content []byte) (string, error)
	createTreeFunc       func(baseTreeSHA string, entries []model.TreeEntry) (string, error)
	createCommitFunc     func(message, treeSHA string, parents []string) (string, error)
	createRefFunc        func(branch, commitSHA string) error
	updateRefFunc        func(branch, commitSHA string, force bool) error

	mu            sync.Mutex
	calls         []string
	blobContents  [][]byte
	treeBaseSHA   string
	treeEntries   []model.TreeEntry
	commitMessage string
	commitParents []string
	refCreates    []refUpdate
	refUpdates    []refUpdate
}

func (m *mockGitHost) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockGitHost) GetRepository(_ context.Context, owner, repo string) (*model.RepoInfo, error) {
	m.record("GetRepository")
	if m.getRepositoryFunc != nil {
		return m.getRepositoryFunc(owner, repo)
	}
	return &model.RepoInfo{
		DefaultBranch: "main",
		HTMLURL:       "https://github.com/" + owner + "/" + repo,
		Private:       true,
	}, nil
}

func (m *mockGitHost) CreateRepository(_ context.Context, owner, repo, description string) (*model.RepoInfo, error) {
	m.record("CreateRepository")
	if m.createRepositoryFunc != nil {
		return m.createRepositoryFunc(owner, repo, description)
	}
	return &model.RepoInfo{
		HTMLURL: "https://github.com/" + owner + "/" + repo,
		Private: true,
	}, nil
}

func (m *mockGitHost) GetBranchHead(_ context.Context, owner, repo, branch string) (*model.BranchHead, error) {
	m.record("GetBranchHead")
	if m.getBranchHeadFunc != nil {
		return m.getBranchHeadFunc(owner, repo, branch)
	}
	return &model.BranchHead{CommitSHA: "basecommitsha", TreeSHA: "basetreesha"}, nil
}

func (m *mockGitHost) CreateFile(_ context.Context, owner, repo, branch, path, _ string, _ []byte) error {
	m.record("CreateFile")
	if m.createFileFunc != nil {
		return m.createFileFunc(owner, repo, branch, path)
	}
	return nil
}

func (m *mockGitHost) CreateBlob(_ context.Context, _, _ string, content []byte) (string, error) {
	m.record("CreateBlob")
	m.mu.Lock()
	m.blobContents = append(m.blobContents, content)
	m.mu.Unlock()
	if m.createBlobFunc != nil {
		return m.createBlobFunc(content)
	}
	return "blobsha", nil
}

func (m *mockGitHost) CreateTree(_ context.Context, _, _ string, baseTreeSHA string, entries []model.TreeEntry) (string, error) {
	m.record("CreateTree")
	m.mu.Lock()
	m.treeBaseSHA = baseTreeSHA
	m.treeEntries = entries
	m.mu.Unlock()
	if m.createTreeFunc != nil {
		return m.createTreeFunc(baseTreeSHA, entries)
	}
	return "treesha", nil
}

func (m *mockGitHost) CreateCommit(_ context.Context, _, _ string, message, treeSHA string, parentSHAs []string) (string, error) {
	m.record("CreateCommit")
	m.mu.Lock()
	m.commitMessage = message
	m.commitParents = parentSHAs
	m.mu.Unlock()
	if m.createCommitFunc != nil {
		return m.createCommitFunc(message, treeSHA, parentSHAs)
	}
	return "commitsha", nil
}

func (m *mockGitHost) CreateRef(_ context.Context, _, _ string, branch, commitSHA string) error {
	m.record("CreateRef")
	m.mu.Lock()
	m.refCreates = append(m.refCreates, refUpdate{branch: branch, sha: commitSHA})
	m.mu.Unlock()
	if m.createRefFunc != nil {
		return m.createRefFunc(branch, commitSHA)
	}
	return nil
}

func (m *mockGitHost) UpdateRef(_ context.Context, _, _ string, branch, commitSHA string, force bool) error {
	m.record("UpdateRef")
	m.mu.Lock()
	m.refUpdates = append(m.refUpdates, refUpdate{branch: branch, sha: commitSHA, force: force})
	m.mu.Unlock()
	if m.updateRefFunc != nil {
		return m.updateRefFunc(branch, commitSHA, force)
	}
	return nil
}

func (m *mockGitHost) called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == name {
			return true
		}
	}
	return false
}

// mockJobStore records saved jobs in memory.
type mockJobStore struct {
	mu      sync.Mutex
	saved   []model.LiberationJob
	saveErr error
}

func (m *mockJobStore) Save(_ context.Context, job model.LiberationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, job)
	return nil
}

func (m *mockJobStore) GetByID(_ context.Context, id string) (*model.LiberationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.saved {
		if m.saved[i].ID == id {
			job := m.saved[i]
			return &job, nil
		}
	}
	return nil, nil
}

func (m *mockJobStore) ListRecent(_ context.Context, limit int) ([]model.LiberationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := make([]model.LiberationJob, 0, limit)
	for i := len(m.saved) - 1; i >= 0 && len(jobs) < limit; i-- {
		jobs = append(jobs, m.saved[i])
	}
	return jobs, nil
}
