package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// Open opens a connection pool to the SQLite database at dbPath.
// Foreign keys are enabled on every pooled connection through the DSN.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// An in-memory database only lives as long as its connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func dsn(dbPath string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath == ":memory:" {
		return "file::memory:?" + pragmas
	}
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + pragmas
	}
	if !strings.HasPrefix(dbPath, "file:") {
		dbPath = "file:" + dbPath
	}
	return dbPath + "?" + pragmas
}

// HealthCheck performs a simple health check on the database
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}
