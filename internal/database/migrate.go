package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

func init() {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		panic(err)
	}
}

// SetLogger routes goose output through the given logger.
func SetLogger(l goose.Logger) {
	goose.SetLogger(l)
}

// Migrate applies all pending migrations.
func Migrate(db *sql.DB) error {
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied schema version and the newest version shipped with the binary.
func SchemaVersion(db *sql.DB) (current, latest int64, err error) {
	current, err = goose.GetDBVersion(db)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get schema version: %w", err)
	}

	all, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to collect migrations: %w", err)
	}
	last, err := all.Last()
	if err != nil {
		return current, 0, fmt.Errorf("failed to find latest migration: %w", err)
	}

	return current, last.Version, nil
}
