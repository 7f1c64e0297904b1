package storage

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// RunPostgresMigrations applies all pending Postgres migrations.
func RunPostgresMigrations(dsn string) error {
	return runMigrations("migrations/postgres", dsn)
}

// RunSQLiteMigrations applies all pending SQLite migrations to the file at
// path, creating its directory if needed.
func RunSQLiteMigrations(path string) error {
	if path == "" {
		return fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database dir %s: %w", dir, err)
		}
	}
	return runMigrations("migrations/sqlite", "sqlite://"+path)
}

// Migrate applies pending migrations for the backend named by opts.Driver.
// The CSV backend has none.
func Migrate(opts Options) error {
	switch opts.Driver {
	case "", "csv":
		return nil
	case "sqlite":
		return RunSQLiteMigrations(opts.SQLitePath)
	case "postgres":
		return RunPostgresMigrations(opts.PostgresDSN)
	}
	return fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}

func runMigrations(dir, databaseURL string) error {
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
