package driven

import (
	"context"

	"github.com/libreshift/libreshift/internal/domain/model"
)

// JobStore defines the driven port for persisting liberation job history.
type JobStore interface {
	// Save inserts a finished job record.
	Save(ctx context.Context, job model.LiberationJob) error

	// GetByID returns the job with the given ID, or nil if absent.
	GetByID(ctx context.Context, id string) (*model.LiberationJob, error)

	// ListRecent returns up to limit jobs, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.LiberationJob, error)
}
