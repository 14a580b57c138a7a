package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/yahoo"
)

func NewTestInsiderService(t *testing.T, db *sql.DB) *service.InsiderService {
	t.Helper()

	return service.NewInsiderService(
		db,
		repository.NewInsiderTradeRepository(db),
		repository.NewPerformanceRepository(db),
	)
}

func NewTestMyTradeService(t *testing.T, db *sql.DB) *service.MyTradeService {
	t.Helper()

	return service.NewMyTradeService(
		db,
		repository.NewMyTradeRepository(db),
		repository.NewInsiderTradeRepository(db),
		repository.NewPerformanceRepository(db),
	)
}

func NewTestPerformanceService(t *testing.T, db *sql.DB) *service.PerformanceService {
	t.Helper()

	return service.NewPerformanceService(
		repository.NewPerformanceRepository(db),
		repository.NewMyTradeRepository(db),
		repository.NewInsiderTradeRepository(db),
	)
}

// NewTestPriceService creates a PriceService backed by client. Pass a MockYahooClient
// to avoid network access.
func NewTestPriceService(t *testing.T, db *sql.DB, client yahoo.Client) *service.PriceService {
	t.Helper()

	return service.NewPriceService(repository.NewPriceRepository(db), client)
}

// NewTestPerformanceUpdater creates an updater with the given parallelism and run timeout.
func NewTestPerformanceUpdater(t *testing.T, db *sql.DB, client yahoo.Client, concurrency int, timeout time.Duration) *service.PerformanceUpdater {
	t.Helper()

	return service.NewPerformanceUpdater(
		repository.NewPerformanceRepository(db),
		NewTestPriceService(t, db, client),
		concurrency,
		timeout,
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB, client yahoo.Client) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewMyTradeRepository(db),
		NewTestPriceService(t, db, client),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// DaysAgo returns midnight UTC n days before today.
func DaysAgo(n int) time.Time {
	now := time.Now().UTC()
	return Date(now.Year(), now.Month(), now.Day()).AddDate(0, 0, -n)
}
