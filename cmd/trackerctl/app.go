package main

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/config"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/database"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
)

// app holds what every data command needs.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	logger *logrus.Logger
}

// openApp loads the configuration and opens the migrated database.
// dbPath overrides DB_PATH when set.
func openApp(dbPath string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	database.SetLogger(logger)
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &app{cfg: cfg, db: db, logger: logger}, nil
}

func (a *app) Close() {
	a.db.Close()
}
