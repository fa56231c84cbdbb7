// Package repositories implements the domain repository interfaces on
// top of Postgres.
package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// PreparationRepo persists preparation jobs in the preparations table.
type PreparationRepo struct {
	db     *sql.DB
	logger logging.Logger
}

var _ structure.PreparationRepository = (*PreparationRepo)(nil)

// NewPreparationRepo builds a repository over an open database handle.
func NewPreparationRepo(db *sql.DB, logger logging.Logger) *PreparationRepo {
	if logger == nil {
		logger = logging.Default()
	}
	return &PreparationRepo{db: db, logger: logger.Named("repo.preparation")}
}

const insertJobSQL = `
INSERT INTO preparations (id, pdb_id, ph, status, stage, raw_path, pqr_path, pdbqt_path, error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Create inserts a new job record.
func (r *PreparationRepo) Create(ctx context.Context, job *structure.PreparationJob) error {
	_, err := r.db.ExecContext(ctx, insertJobSQL,
		job.ID, job.PDBID.String(), job.PH, string(job.Status), string(job.Stage),
		job.RawPath, job.PQRPath, job.PDBQTPath, job.Error,
		job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal,
			fmt.Sprintf("failed to insert preparation job %s", job.ID))
	}
	return nil
}

const updateJobSQL = `
UPDATE preparations
SET status = $2, stage = $3, raw_path = $4, pqr_path = $5, pdbqt_path = $6, error = $7, updated_at = $8
WHERE id = $1`

// Update persists the mutable fields of an existing job.
func (r *PreparationRepo) Update(ctx context.Context, job *structure.PreparationJob) error {
	res, err := r.db.ExecContext(ctx, updateJobSQL,
		job.ID, string(job.Status), string(job.Stage),
		job.RawPath, job.PQRPath, job.PDBQTPath, job.Error, job.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal,
			fmt.Sprintf("failed to update preparation job %s", job.ID))
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.Newf(errors.CodeJobNotFound, "preparation job %s not found", job.ID)
	}
	return nil
}

const selectJobSQL = `
SELECT id, pdb_id, ph, status, stage, raw_path, pqr_path, pdbqt_path, error, created_at, updated_at
FROM preparations
WHERE id = $1`

// GetByID fetches one job by its identifier.
func (r *PreparationRepo) GetByID(ctx context.Context, id uuid.UUID) (*structure.PreparationJob, error) {
	row := r.db.QueryRowContext(ctx, selectJobSQL, id)
	job, err := scanJob(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.Newf(errors.CodeJobNotFound, "preparation job %s not found", id)
		}
		return nil, errors.Wrap(err, errors.CodeInternal,
			fmt.Sprintf("failed to fetch preparation job %s", id))
	}
	return job, nil
}

const listJobsSQL = `
SELECT id, pdb_id, ph, status, stage, raw_path, pqr_path, pdbqt_path, error, created_at, updated_at
FROM preparations
WHERE pdb_id = $1
ORDER BY created_at DESC`

// ListByPDBID returns all jobs for a structure, newest first.
func (r *PreparationRepo) ListByPDBID(ctx context.Context, pdbID structure.ID) ([]*structure.PreparationJob, error) {
	rows, err := r.db.QueryContext(ctx, listJobsSQL, pdbID.String())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal,
			fmt.Sprintf("failed to list preparation jobs for %s", pdbID))
	}
	defer rows.Close()

	var jobs []*structure.PreparationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to scan preparation job row")
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to iterate preparation job rows")
	}
	return jobs, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*structure.PreparationJob, error) {
	var (
		job    structure.PreparationJob
		pdbID  string
		status string
		stage  string
	)
	err := row.Scan(&job.ID, &pdbID, &job.PH, &status, &stage,
		&job.RawPath, &job.PQRPath, &job.PDBQTPath, &job.Error,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.PDBID = structure.ID(pdbID)
	job.Status = structure.JobStatus(status)
	job.Stage = structure.JobStage(stage)
	return &job, nil
}
