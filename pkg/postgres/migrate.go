package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations applies all pending migrations from sourceURL (for this
// service, "file://./migrations" at the repository root). No pending
// migrations is not an error.
func RunMigrations(dsn, sourceURL string) error {
	return runMigration(dsn, sourceURL, func(m *migrate.Migrate) error { return m.Up() })
}

// RunMigrationsDown rolls back every applied migration. Used by tests and
// operational tooling, never by the service itself.
func RunMigrationsDown(dsn, sourceURL string) error {
	return runMigration(dsn, sourceURL, func(m *migrate.Migrate) error { return m.Down() })
}

func runMigration(dsn, sourceURL string, step func(*migrate.Migrate) error) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}
