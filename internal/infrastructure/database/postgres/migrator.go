package postgres

import (
	"database/sql"
	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// Migrate applies all pending schema migrations from migrationPath
// (a directory of numbered .up.sql/.down.sql files) against db.
// Already being at the latest version is not an error.
func Migrate(db *sql.DB, migrationPath string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationPath, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create migrator")
	}

	if err := m.Up(); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			logger.Info("database schema already up to date")
			return nil
		}
		return errors.Wrap(err, errors.CodeInternal, "failed to apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to read migration version")
	}
	logger.Info("database migrations applied",
		logging.Any("version", version),
		logging.Bool("dirty", dirty))
	return nil
}
