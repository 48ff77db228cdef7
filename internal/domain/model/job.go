package model

import "time"

// JobStatus represents the terminal state of a liberation job.
type JobStatus string

const (
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// LiberationJob is the persisted record of one publish operation, win or
// lose. The pipeline itself is stateless; this history exists purely for
// the API surface.
type LiberationJob struct {
	ID             string // UUID.
	ProjectName    string
	Destination    string // "owner/repo".
	Branch         string
	Status         JobStatus
	CommitSHA      string
	RepoURL        string
	FilesPublished int
	TotalChanges   int
	Error          string // Empty on success.
	Report         string // Migration report markdown.
	CreatedAt      time.Time
}
