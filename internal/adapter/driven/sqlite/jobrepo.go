package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/libreshift/libreshift/internal/domain/model"
	"github.com/libreshift/libreshift/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.JobStore = (*JobRepo)(nil)

// JobRepo is the SQLite implementation of the JobStore port interface.
type JobRepo struct {
	db *DB
}

// NewJobRepo creates a new JobRepo backed by the given DB.
func NewJobRepo(db *DB) *JobRepo {
	return &JobRepo{db: db}
}

// Save inserts a finished liberation job record.
func (r *JobRepo) Save(ctx context.Context, job model.LiberationJob) error {
	const query = `
		INSERT INTO jobs (id, project_name, destination, branch, status, commit_sha, repo_url,
			files_published, total_changes, error, report_md, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		job.ID, job.ProjectName, job.Destination, job.Branch, string(job.Status),
		job.CommitSHA, job.RepoURL, job.FilesPublished, job.TotalChanges,
		job.Error, job.Report, job.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", job.ID, err)
	}

	return nil
}

// GetByID returns the job with the given ID, or nil if absent.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.LiberationJob, error) {
	const query = `
		SELECT id, project_name, destination, branch, status, commit_sha, repo_url,
			files_published, total_changes, error, report_md, created_at
		FROM jobs
		WHERE id = ?
	`

	job, err := scanJob(r.db.Reader.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	return job, nil
}

// ListRecent returns up to limit jobs, newest first.
func (r *JobRepo) ListRecent(ctx context.Context, limit int) ([]model.LiberationJob, error) {
	const query = `
		SELECT id, project_name, destination, branch, status, commit_sha, repo_url,
			files_published, total_changes, error, report_md, created_at
		FROM jobs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.LiberationJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job rows: %w", err)
	}

	return jobs, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.LiberationJob, error) {
	var job model.LiberationJob
	var status string
	var createdAt time.Time

	err := row.Scan(
		&job.ID, &job.ProjectName, &job.Destination, &job.Branch, &status,
		&job.CommitSHA, &job.RepoURL, &job.FilesPublished, &job.TotalChanges,
		&job.Error, &job.Report, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = model.JobStatus(status)
	job.CreatedAt = createdAt.UTC()
	return &job, nil
}
