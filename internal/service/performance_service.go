package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
)

// PerformanceService exposes performance records, manual snapshot edits and the dashboard.
type PerformanceService struct {
	performanceRepo *repository.PerformanceRepository
	myTradeRepo     *repository.MyTradeRepository
	insiderRepo     *repository.InsiderTradeRepository
	now             func() time.Time
}

// NewPerformanceService creates a new PerformanceService with the provided repository dependencies.
func NewPerformanceService(
	performanceRepo *repository.PerformanceRepository,
	myTradeRepo *repository.MyTradeRepository,
	insiderRepo *repository.InsiderTradeRepository,
) *PerformanceService {
	return &PerformanceService{
		performanceRepo: performanceRepo,
		myTradeRepo:     myTradeRepo,
		insiderRepo:     insiderRepo,
		now:             time.Now,
	}
}

// ListPerformance returns one page of performance records, most recently updated first.
func (s *PerformanceService) ListPerformance(ctx context.Context, filter model.PerformanceFilter) ([]model.PerformanceRecord, error) {
	return s.performanceRepo.List(ctx, filter)
}

// GetPerformance returns the performance record of a personal trade.
func (s *PerformanceService) GetPerformance(ctx context.Context, myTradeID int64) (model.PerformanceRecord, error) {
	return s.performanceRepo.GetByMyTradeID(ctx, myTradeID)
}

// UpdateSnapshots stores the given snapshot prices and recomputes every return.
// Horizons not present in snapshots keep their stored price. Submitting the same
// prices twice leaves the record unchanged apart from its timestamp.
func (s *PerformanceService) UpdateSnapshots(ctx context.Context, myTradeID int64, snapshots map[model.Horizon]*float64) (model.PerformanceRecord, error) {
	perf, err := s.performanceRepo.GetByMyTradeID(ctx, myTradeID)
	if err != nil {
		return model.PerformanceRecord{}, err
	}

	for h, v := range snapshots {
		if v == nil {
			continue
		}
		price := *v
		perf.SetSnapshot(h, &price)
	}
	recomputeReturns(&perf)
	perf.UpdatedAt = s.now().UTC()

	if err := s.performanceRepo.UpdatePerformance(ctx, &perf); err != nil {
		return model.PerformanceRecord{}, fmt.Errorf("failed to update performance: %w", err)
	}
	return perf, nil
}

// GetDashboard collects the landing page totals. The best performer is the trade with
// the highest 1m return, formatted as "TICKER (+12.34% 1m)".
func (s *PerformanceService) GetDashboard(ctx context.Context) (model.Dashboard, error) {
	var d model.Dashboard
	var err error

	if d.TotalInsiderTrades, err = s.insiderRepo.CountAll(ctx); err != nil {
		return model.Dashboard{}, err
	}
	if d.TotalMyTrades, err = s.myTradeRepo.CountAll(ctx); err != nil {
		return model.Dashboard{}, err
	}
	if d.TickersTracked, err = s.myTradeRepo.CountTickers(ctx); err != nil {
		return model.Dashboard{}, err
	}

	ticker, best, ok, err := s.performanceRepo.Best1M(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	if ok {
		label := fmt.Sprintf("%s (%+.2f%% 1m)", ticker, best)
		d.BestPerformer = &label
	}

	avg, err := s.performanceRepo.Average1M(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}
	if avg != nil {
		rounded := round2(*avg)
		d.AvgReturn1MAll = &rounded
	}

	return d, nil
}
