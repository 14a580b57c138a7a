package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/database"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version and whether the schema is behind the binary.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	current, latest, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(current, 10),
		LatestDbVersion: strconv.FormatInt(latest, 10),
		MigrationNeeded: current < latest,
	}
	if info.MigrationNeeded {
		msg := fmt.Sprintf("Database schema is at version %d, latest is %d. Restart the server to apply migrations.", current, latest)
		info.MigrationMessage = &msg
	}
	return info, nil
}
