package sqlstore

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	dbmigrations "github.com/OliEder/dbb-mini-bball-coach-app-sub001/db"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Migrate applies the embedded schema migrations. A database that is already
// up to date is not an error.
func Migrate(db *sqlx.DB) error {
	driver, err := migrationDriver(db)
	if err != nil {
		return err
	}

	source, err := iofs.New(dbmigrations.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.DriverName(), driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func migrationDriver(db *sqlx.DB) (database.Driver, error) {
	switch db.DriverName() {
	case DriverPostgres:
		driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("create postgres migration driver: %w", err)
		}
		return driver, nil
	case DriverSQLite:
		driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("create sqlite migration driver: %w", err)
		}
		return driver, nil
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", db.DriverName())
	}
}
