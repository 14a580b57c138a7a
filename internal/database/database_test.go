package database_test

import (
	"path/filepath"
	"testing"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/database"
)

func TestOpenAndMigrate(t *testing.T) {
	t.Run("migrates a fresh file database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracker.db")

		db, err := database.Open(path)
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			t.Fatalf("Failed to migrate: %v", err)
		}

		current, latest, err := database.SchemaVersion(db)
		if err != nil {
			t.Fatalf("Failed to get schema version: %v", err)
		}
		if current != latest {
			t.Errorf("Expected current version %d to equal latest %d", current, latest)
		}
		if latest < 1 {
			t.Errorf("Expected at least one migration, got %d", latest)
		}

		for _, table := range []string{"insider_trades", "my_trades", "performance", "stock_prices", "price_coverage"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
			if err != nil {
				t.Errorf("Expected table %s to exist: %v", table, err)
			}
		}
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		db, err := database.Open(":memory:")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			t.Fatalf("First migrate failed: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			t.Fatalf("Second migrate failed: %v", err)
		}
	})

	t.Run("enables foreign keys", func(t *testing.T) {
		db, err := database.Open(":memory:")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		var enabled int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("Failed to read pragma: %v", err)
		}
		if enabled != 1 {
			t.Errorf("Expected foreign_keys 1, got %d", enabled)
		}
	})

	t.Run("health check pings the database", func(t *testing.T) {
		db, err := database.Open(":memory:")
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		if err := database.HealthCheck(db); err != nil {
			t.Errorf("Expected healthy database, got %v", err)
		}
		db.Close()
		if err := database.HealthCheck(db); err == nil {
			t.Error("Expected error after close, got nil")
		}
	})
}
