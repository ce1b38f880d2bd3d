package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

func dialectFor(driver string) (goose.Dialect, error) {
	switch driver {
	case "sqlite":
		return goose.DialectSQLite3, nil
	case "pgx":
		return goose.DialectPostgres, nil
	}
	return "", fmt.Errorf("no migration dialect for driver %q", driver)
}

// newProvider builds a goose provider over the embedded migrations. A
// provider holds no global state, so tests can migrate many databases in
// parallel.
func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}
	return goose.NewProvider(dialect, db, migrations)
}

// RunMigrations applies every pending migration
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	p, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("applied migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// MigrateDown rolls back the most recent migration
func MigrateDown(ctx context.Context, db *sql.DB, driver string) error {
	p, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	r, err := p.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	slog.Info("rolled back migration", "version", r.Source.Version)
	return nil
}

func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	p, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}

	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
