package structure

import (
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/dockprep/pkg/errors"
)

// JobStatus tracks the lifecycle of a preparation job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// JobStage tracks how far the preparation pipeline has advanced. Stages
// are strictly ordered; a job never skips a stage and never moves back.
type JobStage string

const (
	// StageRaw means the raw .pdb file has been downloaded.
	StageRaw JobStage = "RAW"
	// StageProtonated means pdb2pqr has produced the .pqr file.
	StageProtonated JobStage = "PROTONATED"
	// StageConverted means obabel has produced the final .pdbqt file.
	StageConverted JobStage = "CONVERTED"
)

// PreparationJob records one run of the preparation pipeline for a single
// structure at a given pH. Artifact paths are filled in as stages complete.
type PreparationJob struct {
	ID        uuid.UUID `json:"id"`
	PDBID     ID        `json:"pdb_id"`
	PH        float64   `json:"ph"`
	Status    JobStatus `json:"status"`
	Stage     JobStage  `json:"stage,omitempty"`
	RawPath   string    `json:"raw_path,omitempty"`
	PQRPath   string    `json:"pqr_path,omitempty"`
	PDBQTPath string    `json:"pdbqt_path,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPreparationJob creates a pending job for the given structure and pH.
func NewPreparationJob(id ID, ph float64) *PreparationJob {
	now := time.Now().UTC()
	return &PreparationJob{
		ID:        uuid.New(),
		PDBID:     id,
		PH:        ph,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start moves a pending job into the running state.
func (j *PreparationJob) Start() error {
	if j.Status != JobStatusPending {
		return errors.Newf(errors.CodeJobInvalidState,
			"job %s cannot start from status %s", j.ID, j.Status)
	}
	j.Status = JobStatusRunning
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// AdvanceStage records completion of the next pipeline stage along with the
// artifact it produced. Stage order is RAW, PROTONATED, CONVERTED.
func (j *PreparationJob) AdvanceStage(stage JobStage, artifactPath string) error {
	if j.Status != JobStatusRunning {
		return errors.Newf(errors.CodeJobInvalidState,
			"job %s cannot advance stage while %s", j.ID, j.Status)
	}
	if stage != nextStage(j.Stage) {
		return errors.Newf(errors.CodeJobInvalidState,
			"job %s cannot advance from stage %q to %q", j.ID, j.Stage, stage)
	}
	switch stage {
	case StageRaw:
		j.RawPath = artifactPath
	case StageProtonated:
		j.PQRPath = artifactPath
	case StageConverted:
		j.PDBQTPath = artifactPath
	}
	j.Stage = stage
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete marks a running job that reached the CONVERTED stage as succeeded.
func (j *PreparationJob) Complete() error {
	if j.Status != JobStatusRunning || j.Stage != StageConverted {
		return errors.Newf(errors.CodeJobInvalidState,
			"job %s cannot complete from status %s stage %q", j.ID, j.Status, j.Stage)
	}
	j.Status = JobStatusSucceeded
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail marks the job failed and records the cause. The pipeline halts at
// whatever stage had last completed; no partial artifacts are removed.
func (j *PreparationJob) Fail(cause error) {
	j.Status = JobStatusFailed
	if cause != nil {
		j.Error = cause.Error()
	}
	j.UpdatedAt = time.Now().UTC()
}

// IsTerminal reports whether the job has finished, successfully or not.
func (j *PreparationJob) IsTerminal() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}

func nextStage(current JobStage) JobStage {
	switch current {
	case "":
		return StageRaw
	case StageRaw:
		return StageProtonated
	case StageProtonated:
		return StageConverted
	default:
		return ""
	}
}
