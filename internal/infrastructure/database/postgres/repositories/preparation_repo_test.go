package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

type PreparationRepoSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo *PreparationRepo
}

func (s *PreparationRepoSuite) SetupTest() {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewPreparationRepo(db, logging.NewNopLogger())
}

func (s *PreparationRepoSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func jobColumns() []string {
	return []string{"id", "pdb_id", "ph", "status", "stage",
		"raw_path", "pqr_path", "pdbqt_path", "error", "created_at", "updated_at"}
}

func (s *PreparationRepoSuite) TestCreate() {
	job := structure.NewPreparationJob(structure.MustParseID("6LU7"), 7.4)

	s.mock.ExpectExec("INSERT INTO preparations").
		WithArgs(job.ID, "6LU7", 7.4, "PENDING", "", "", "", "", "",
			job.CreatedAt, job.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Create(context.Background(), job))
}

func (s *PreparationRepoSuite) TestUpdate_NotFound() {
	job := structure.NewPreparationJob(structure.MustParseID("6LU7"), 7.4)

	s.mock.ExpectExec("UPDATE preparations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.Update(context.Background(), job)
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.CodeJobNotFound))
}

func (s *PreparationRepoSuite) TestUpdate() {
	job := structure.NewPreparationJob(structure.MustParseID("6LU7"), 7.4)
	s.Require().NoError(job.Start())

	s.mock.ExpectExec("UPDATE preparations").
		WithArgs(job.ID, "RUNNING", "", "", "", "", "", job.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Update(context.Background(), job))
}

func (s *PreparationRepoSuite) TestGetByID() {
	id := uuid.New()
	created := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery("SELECT (.+) FROM preparations").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(jobColumns()).
			AddRow(id, "6LU7", 7.4, "SUCCEEDED", "CONVERTED",
				"/data/6LU7.pdb", "/data/6LU7.pqr", "/data/6LU7.pdbqt", "",
				created, created))

	job, err := s.repo.GetByID(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(structure.ID("6LU7"), job.PDBID)
	s.Equal(structure.JobStatusSucceeded, job.Status)
	s.Equal(structure.StageConverted, job.Stage)
	s.Equal("/data/6LU7.pdbqt", job.PDBQTPath)
}

func (s *PreparationRepoSuite) TestGetByID_NotFound() {
	id := uuid.New()

	s.mock.ExpectQuery("SELECT (.+) FROM preparations").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(jobColumns()))

	_, err := s.repo.GetByID(context.Background(), id)
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.CodeJobNotFound))
}

func (s *PreparationRepoSuite) TestListByPDBID() {
	created := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery("SELECT (.+) FROM preparations").
		WithArgs("6LU7").
		WillReturnRows(sqlmock.NewRows(jobColumns()).
			AddRow(uuid.New(), "6LU7", 7.4, "SUCCEEDED", "CONVERTED",
				"/data/a.pdb", "/data/a.pqr", "/data/a.pdbqt", "", created, created).
			AddRow(uuid.New(), "6LU7", 7.0, "FAILED", "RAW",
				"/data/b.pdb", "", "", "pdb2pqr failed", created, created))

	jobs, err := s.repo.ListByPDBID(context.Background(), structure.MustParseID("6LU7"))
	s.Require().NoError(err)
	s.Len(jobs, 2)
	s.Equal(structure.JobStatusFailed, jobs[1].Status)
	s.Equal("pdb2pqr failed", jobs[1].Error)
}

func TestPreparationRepoSuite(t *testing.T) {
	suite.Run(t, new(PreparationRepoSuite))
}

func TestScanJob_TypeConversion(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := NewPreparationRepo(db, logging.NewNopLogger())

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM preparations").
		WillReturnRows(sqlmock.NewRows(jobColumns()).
			AddRow(id, "4hhb", 6.5, "RUNNING", "PROTONATED",
				"/r.pdb", "/r.pqr", "", "", now, now))

	job, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 6.5, job.PH)
	assert.False(t, job.IsTerminal())
}
