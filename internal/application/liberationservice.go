package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/libreshift/libreshift/internal/domain/model"
	"github.com/libreshift/libreshift/internal/domain/port/driven"
)

// LiberationService runs one whole publish: scan the project, resolve the
// destination repository, build the tree, publish the commit, and record the
// job. One call is one sequential request-scoped pass; there is no shared
// mutable state between concurrent calls beyond the remote repository itself.
type LiberationService struct {
	scanner  *Scanner
	resolver *RepositoryResolver
	trees    *TreeBuilder
	commits  *CommitPublisher
	jobs     driven.JobStore
	logger   *slog.Logger
}

// NewLiberationService wires the pipeline stages over one host. jobs may be
// nil, in which case no history is recorded.
func NewLiberationService(host driven.GitHost, jobs driven.JobStore, logger *slog.Logger) *LiberationService {
	rewriter := NewRewriter(DefaultCatalog())
	return &LiberationService{
		scanner:  NewScanner(rewriter, logger),
		resolver: NewRepositoryResolver(host, logger),
		trees:    NewTreeBuilder(host, logger),
		commits:  NewCommitPublisher(host, logger),
		jobs:     jobs,
		logger:   logger,
	}
}

// Liberate rewrites the project files and publishes them as a single atomic
// commit to the destination repository. Every failure fails closed: either a
// fully-formed successful PublishResult comes back, or a typed error and
// nothing was published (orphaned host objects aside).
func (s *LiberationService) Liberate(ctx context.Context, projectName string, files []model.FileRecord, dest model.Destination) (*model.PublishResult, error) {
	start := time.Now()

	scan, err := s.scanner.Scan(files)
	if err != nil {
		// Validation failures never touch the host.
		s.recordJob(ctx, projectName, dest, "", nil, nil, "", err)
		return nil, err
	}

	report := BuildReport(projectName, scan.Changes, scan.Excluded)

	toPublish := scan.Cleaned
	if scan.TotalChanges > 0 {
		toPublish = withReport(toPublish, report)
	}

	state, err := s.resolver.Resolve(ctx, dest)
	if err != nil {
		s.recordJob(ctx, projectName, dest, report, scan, nil, "", err)
		return nil, err
	}

	treeSHA, err := s.trees.Build(ctx, state, toPublish)
	if err != nil {
		s.recordJob(ctx, projectName, dest, report, scan, state, "", err)
		return nil, err
	}

	message := commitMessage(projectName, scan.TotalChanges)
	commitSHA, err := s.commits.Publish(ctx, state, treeSHA, message)
	if err != nil {
		s.recordJob(ctx, projectName, dest, report, scan, state, "", err)
		return nil, err
	}

	result := &model.PublishResult{
		Success:        true,
		RepoURL:        state.HTMLURL,
		CommitSHA:      commitSHA,
		Branch:         state.Branch,
		FilesPublished: len(toPublish),
		TotalChanges:   scan.TotalChanges,
		Excluded:       scan.Excluded,
	}

	s.logger.Info("liberation complete",
		"project", projectName,
		"destination", dest.String(),
		"files_published", result.FilesPublished,
		"total_changes", result.TotalChanges,
		"commit_sha", commitSHA,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	s.recordJob(ctx, projectName, dest, report, scan, state, commitSHA, nil)
	return result, nil
}

// withReport adds the migration report to the publish set. A project that
// already ships a file at the report path has that file overwritten rather
// than appended: tree entry paths must be unique or the host rejects the tree.
func withReport(files []model.CleanedFileRecord, report string) []model.CleanedFileRecord {
	for i := range files {
		if files[i].Path == ReportFileName {
			files[i].Content = report
			return files
		}
	}
	return append(files, model.CleanedFileRecord{
		Path:    ReportFileName,
		Content: report,
	})
}

func commitMessage(projectName string, totalChanges int) string {
	if totalChanges == 0 {
		return fmt.Sprintf("Publish %s", projectName)
	}
	return fmt.Sprintf("Liberate %s: replace %d proprietary service usages", projectName, totalChanges)
}

// recordJob persists the outcome, win or lose. History is best-effort: a
// store failure is logged, never surfaced over a publish result.
func (s *LiberationService) recordJob(ctx context.Context, projectName string, dest model.Destination, report string, scan *ScanResult, state *model.RepoState, commitSHA string, cause error) {
	if s.jobs == nil {
		return
	}

	job := model.LiberationJob{
		ID:          uuid.NewString(),
		ProjectName: projectName,
		Destination: dest.String(),
		Status:      model.JobStatusSucceeded,
		CommitSHA:   commitSHA,
		Report:      report,
		CreatedAt:   time.Now().UTC(),
	}
	if scan != nil {
		job.TotalChanges = scan.TotalChanges
		job.FilesPublished = len(scan.Cleaned)
	}
	if state != nil {
		job.Branch = state.Branch
		job.RepoURL = state.HTMLURL
	}
	if cause != nil {
		job.Status = model.JobStatusFailed
		job.Error = cause.Error()
	}

	if err := s.jobs.Save(ctx, job); err != nil {
		s.logger.Error("failed to record liberation job", "project", projectName, "error", err)
	}
}
