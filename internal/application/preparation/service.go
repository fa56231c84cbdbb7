// Package preparation orchestrates the docking-preparation pipeline:
// download the raw structure, protonate it at a target pH, and convert
// the result into the docking format. The pipeline is strictly
// sequential with no retry or rollback; any stage failure aborts the run
// and the job records how far it got.
package preparation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/pkg/errors"
)

// Downloader fetches the raw structure file for an identifier.
type Downloader interface {
	Download(ctx context.Context, id structure.ID, destDir string) (string, error)
}

// Protonator runs the protonation tool on a local structure file.
type Protonator interface {
	Protonate(ctx context.Context, inputFile string, ph float64, outputDir string) (string, error)
}

// Converter rewrites a protonated file into the docking format.
type Converter interface {
	Convert(ctx context.Context, inputPQR string, outputDir string) (string, error)
}

// Publisher enqueues a preparation request for asynchronous execution.
type Publisher interface {
	PublishPrepare(ctx context.Context, job *structure.PreparationJob) error
}

// ArtifactUploader persists completed pipeline artifacts to object storage.
type ArtifactUploader interface {
	UploadAll(ctx context.Context, job *structure.PreparationJob) ([]string, error)
}

// Service composes the pipeline steps. Artifacts, publisher, and metrics
// are optional; a nil value disables that concern.
type Service struct {
	downloader Downloader
	protonator Protonator
	converter  Converter
	repo       structure.PreparationRepository
	publisher  Publisher
	artifacts  ArtifactUploader
	metrics    *prometheus.Metrics
	workDir    string
	logger     logging.Logger
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Publisher Publisher
	Artifacts ArtifactUploader
	Metrics   *prometheus.Metrics
}

// NewService wires the pipeline.
func NewService(
	downloader Downloader,
	protonator Protonator,
	converter Converter,
	repo structure.PreparationRepository,
	workDir string,
	logger logging.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		downloader: downloader,
		protonator: protonator,
		converter:  converter,
		repo:       repo,
		publisher:  opts.Publisher,
		artifacts:  opts.Artifacts,
		metrics:    opts.Metrics,
		workDir:    workDir,
		logger:     logger.Named("preparation"),
	}
}

// Submit validates the request, records a pending job, and enqueues it
// for a worker. The caller polls the job for progress.
func (s *Service) Submit(ctx context.Context, rawID string, ph float64) (*structure.PreparationJob, error) {
	id, err := structure.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if ph < 0 || ph > 14 {
		return nil, errors.Newf(errors.CodeInvalidParam, "pH %v out of range [0, 14]", ph)
	}

	job := structure.NewPreparationJob(id, ph)
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPrepare(ctx, job); err != nil {
			job.Fail(err)
			if updateErr := s.repo.Update(ctx, job); updateErr != nil {
				s.logger.Error("failed to record publish failure",
					logging.String("job_id", job.ID.String()), logging.Err(updateErr))
			}
			return nil, err
		}
	}

	s.logger.Info("preparation job submitted",
		logging.String("job_id", job.ID.String()),
		logging.String("pdb_id", id.String()),
		logging.Float64("ph", ph))
	return job, nil
}

// Run executes the full pipeline for a previously submitted job:
// download, protonate, convert. The job is persisted after every state
// change so observers see progress. Any stage failure marks the job
// failed and is returned; completed artifacts are left on disk.
func (s *Service) Run(ctx context.Context, job *structure.PreparationJob) error {
	if err := job.Start(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.JobsInFlight.Inc()
		defer s.metrics.JobsInFlight.Dec()
	}

	err := s.runStages(ctx, job)
	if err != nil {
		job.Fail(err)
	}
	if updateErr := s.repo.Update(ctx, job); updateErr != nil {
		s.logger.Error("failed to persist job state",
			logging.String("job_id", job.ID.String()), logging.Err(updateErr))
		if err == nil {
			err = updateErr
		}
	}

	if s.metrics != nil {
		s.metrics.JobsCompleted.WithLabelValues(string(job.Status)).Inc()
	}
	return err
}

func (s *Service) runStages(ctx context.Context, job *structure.PreparationJob) error {
	rawPath, err := s.timedStage("download", func() (string, error) {
		return s.downloader.Download(ctx, job.PDBID, s.workDir)
	})
	if s.metrics != nil {
		s.metrics.RecordDownload(err == nil)
	}
	if err != nil {
		return err
	}
	if err := job.AdvanceStage(structure.StageRaw, rawPath); err != nil {
		return err
	}

	pqrPath, err := s.timedStage("protonate", func() (string, error) {
		return s.protonator.Protonate(ctx, rawPath, job.PH, s.workDir)
	})
	if err != nil {
		return err
	}
	if err := job.AdvanceStage(structure.StageProtonated, pqrPath); err != nil {
		return err
	}

	pdbqtPath, err := s.timedStage("convert", func() (string, error) {
		return s.converter.Convert(ctx, pqrPath, s.workDir)
	})
	if err != nil {
		return err
	}
	if err := job.AdvanceStage(structure.StageConverted, pdbqtPath); err != nil {
		return err
	}

	if err := job.Complete(); err != nil {
		return err
	}

	if s.artifacts != nil {
		if _, err := s.artifacts.UploadAll(ctx, job); err != nil {
			// The local result is intact; object storage is a copy.
			s.logger.Warn("artifact upload failed",
				logging.String("job_id", job.ID.String()), logging.Err(err))
		}
	}

	s.logger.Info("preparation pipeline complete",
		logging.String("job_id", job.ID.String()),
		logging.String("pdb_id", job.PDBID.String()),
		logging.String("pdbqt", pdbqtPath))
	return nil
}

// Prepare runs protonate → convert on an already-local structure file,
// bypassing download and persistence. This is the direct CLI path.
func (s *Service) Prepare(ctx context.Context, inputFile string, ph float64, outputDir string) (string, error) {
	pqrPath, err := s.timedStage("protonate", func() (string, error) {
		return s.protonator.Protonate(ctx, inputFile, ph, outputDir)
	})
	if err != nil {
		return "", err
	}

	return s.timedStage("convert", func() (string, error) {
		return s.converter.Convert(ctx, pqrPath, outputDir)
	})
}

// GetJob fetches a job by id.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*structure.PreparationJob, error) {
	return s.repo.GetByID(ctx, id)
}

// ListJobs returns the preparation history of a structure, newest first.
func (s *Service) ListJobs(ctx context.Context, rawID string) ([]*structure.PreparationJob, error) {
	id, err := structure.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPDBID(ctx, id)
}

func (s *Service) timedStage(stage string, fn func() (string, error)) (string, error) {
	start := time.Now()
	path, err := fn()
	if s.metrics != nil {
		s.metrics.ObserveStage(stage, time.Since(start))
	}
	return path, err
}
