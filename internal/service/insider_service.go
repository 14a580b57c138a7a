package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/importer"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
)

// InsiderService serves the read-only insider filing data and its bulk load.
type InsiderService struct {
	db              *sql.DB
	insiderRepo     *repository.InsiderTradeRepository
	performanceRepo *repository.PerformanceRepository
	now             func() time.Time
}

// NewInsiderService creates a new InsiderService with the provided repository dependencies.
func NewInsiderService(
	db *sql.DB,
	insiderRepo *repository.InsiderTradeRepository,
	performanceRepo *repository.PerformanceRepository,
) *InsiderService {
	return &InsiderService{
		db:              db,
		insiderRepo:     insiderRepo,
		performanceRepo: performanceRepo,
		now:             time.Now,
	}
}

// ListInsiderTrades returns one page of insider trades matching filter.
func (s *InsiderService) ListInsiderTrades(ctx context.Context, filter model.InsiderTradeFilter) ([]model.InsiderTrade, error) {
	return s.insiderRepo.List(ctx, filter)
}

// CountInsiderTrades returns the number of insider trades matching filter, ignoring pagination.
func (s *InsiderService) CountInsiderTrades(ctx context.Context, filter model.InsiderTradeFilter) (model.CountResponse, error) {
	count, err := s.insiderRepo.Count(ctx, filter)
	if err != nil {
		return model.CountResponse{}, err
	}
	return model.CountResponse{Count: count}, nil
}

// GetInsiderTrade returns a single insider trade.
func (s *InsiderService) GetInsiderTrade(ctx context.Context, id int64) (model.InsiderTrade, error) {
	return s.insiderRepo.GetInsiderTrade(ctx, id)
}

// GetTickers returns every ticker with at least one insider trade.
func (s *InsiderService) GetTickers(ctx context.Context) ([]string, error) {
	return s.insiderRepo.Tickers(ctx)
}

// GetTickerSummary aggregates the insider trades of ticker that match filter and
// adds the statistics of the user's own trades in the same ticker.
//
// Returns apperrors.ErrTickerNotFound when the ticker has no insider trades at all.
// A filter that excludes every trade yields a zero aggregate, not an error.
func (s *InsiderService) GetTickerSummary(ctx context.Context, ticker string, filter model.InsiderTradeFilter) (model.TickerSummary, error) {
	exists, err := s.insiderRepo.TickerExists(ctx, ticker)
	if err != nil {
		return model.TickerSummary{}, err
	}
	if !exists {
		return model.TickerSummary{}, apperrors.ErrTickerNotFound
	}

	filter.Ticker = &ticker
	trades, err := s.insiderRepo.All(ctx, filter)
	if err != nil {
		return model.TickerSummary{}, err
	}

	summary := model.TickerSummary{
		Ticker:          ticker,
		TickerAggregate: AggregateTicker(trades),
	}

	summary.MyTradeCount, summary.AvgReturn1M, summary.AvgReturn3M, err = s.performanceRepo.TickerStats(ctx, ticker)
	if err != nil {
		return model.TickerSummary{}, err
	}
	summary.AvgReturn1M = roundPtr(summary.AvgReturn1M)
	summary.AvgReturn3M = roundPtr(summary.AvgReturn3M)

	return summary, nil
}

// ImportInsiderTrades loads an insider filing export and inserts every new trade in
// one transaction. Rows that duplicate an existing trade (same ticker, trade date,
// insider and transaction type) are counted, not inserted.
func (s *InsiderService) ImportInsiderTrades(ctx context.Context, r io.Reader, format importer.Format) (model.ImportResult, error) {
	parsed, err := importer.Parse(r, format, s.now())
	if err != nil {
		return model.ImportResult{}, err
	}

	result := model.ImportResult{
		Read:     parsed.Read,
		Rejected: parsed.Rejected,
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.insiderRepo.WithTx(tx)
		for i := range parsed.Trades {
			inserted, err := repo.InsertInsiderTrade(ctx, &parsed.Trades[i])
			if err != nil {
				return err
			}
			if inserted {
				result.Inserted++
			} else {
				result.Duplicates++
			}
		}
		return nil
	})
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to import insider trades: %w", err)
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"read":       result.Read,
		"inserted":   result.Inserted,
		"duplicates": result.Duplicates,
		"rejected":   result.Rejected,
	}).Info("insider trades imported")

	return result, nil
}

func roundPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	r := round2(*f)
	return &r
}
