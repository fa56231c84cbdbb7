package structure

import (
	"context"

	"github.com/google/uuid"
)

// PreparationRepository persists preparation jobs.
type PreparationRepository interface {
	// Create inserts a new job record.
	Create(ctx context.Context, job *PreparationJob) error
	// Update persists the current status, stage, artifact paths, and error
	// of an existing job.
	Update(ctx context.Context, job *PreparationJob) error
	// GetByID fetches one job. Returns a not-found error when no job with
	// the given id exists.
	GetByID(ctx context.Context, id uuid.UUID) (*PreparationJob, error)
	// ListByPDBID returns all jobs for a structure, newest first.
	ListByPDBID(ctx context.Context, pdbID ID) ([]*PreparationJob, error)
}
