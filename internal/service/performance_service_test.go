package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/testutil"
)

// TestPerformanceService_UpdateSnapshots tests manual snapshot edits.
//
// WHY: Patching a snapshot must recompute returns from the stored entry price and keep
// untouched horizons as they are. Re-submitting the same prices must not change returns.
func TestPerformanceService_UpdateSnapshots(t *testing.T) {
	ctx := context.Background()

	t.Run("writes snapshots and recomputes returns", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPerformanceService(t, db)
		trade, _ := testutil.NewMyTrade().WithSnapshot(model.Horizon1W, 95, -5).Build(t, db)

		perf, err := svc.UpdateSnapshots(ctx, trade.ID, map[model.Horizon]*float64{
			model.Horizon1M: testutil.Float(110),
		})
		if err != nil {
			t.Fatalf("UpdateSnapshots() returned unexpected error: %v", err)
		}

		if perf.Return1M == nil || *perf.Return1M != 10 {
			t.Errorf("Expected 1m return 10, got %v", perf.Return1M)
		}
		if perf.Price1W == nil || *perf.Price1W != 95 {
			t.Errorf("Expected 1w snapshot kept at 95, got %v", perf.Price1W)
		}
		if perf.Return1W == nil || *perf.Return1W != -5 {
			t.Errorf("Expected 1w return -5, got %v", perf.Return1W)
		}
	})

	t.Run("repeated patch yields identical returns", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPerformanceService(t, db)
		trade, _ := testutil.NewMyTrade().WithPrice(123.45).Build(t, db)
		snapshots := map[model.Horizon]*float64{
			model.Horizon3M: testutil.Float(150.01),
			model.Horizon6M: testutil.Float(99.5),
		}

		first, err := svc.UpdateSnapshots(ctx, trade.ID, snapshots)
		if err != nil {
			t.Fatalf("UpdateSnapshots() returned unexpected error: %v", err)
		}
		second, err := svc.UpdateSnapshots(ctx, trade.ID, snapshots)
		if err != nil {
			t.Fatalf("UpdateSnapshots() returned unexpected error: %v", err)
		}

		for _, h := range model.Horizons {
			a, b := first.Return(h), second.Return(h)
			if (a == nil) != (b == nil) || (a != nil && *a != *b) {
				t.Errorf("Expected identical %s returns, got %v and %v", h, a, b)
			}
		}
		if *second.Return3M != 21.51 {
			t.Errorf("Expected 3m return 21.51, got %v", *second.Return3M)
		}
	})

	t.Run("returns null returns without an entry price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPerformanceService(t, db)
		trade, _ := testutil.NewMyTrade().WithoutEntryPrice().Build(t, db)

		perf, err := svc.UpdateSnapshots(ctx, trade.ID, map[model.Horizon]*float64{
			model.Horizon1W: testutil.Float(10),
		})
		if err != nil {
			t.Fatalf("UpdateSnapshots() returned unexpected error: %v", err)
		}
		if perf.Price1W == nil || perf.Return1W != nil {
			t.Errorf("Expected snapshot stored with nil return, got %v / %v", perf.Price1W, perf.Return1W)
		}
	})

	t.Run("returns not found for unknown trade", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPerformanceService(t, db)

		_, err := svc.UpdateSnapshots(ctx, 99, map[model.Horizon]*float64{model.Horizon1W: testutil.Float(1)})
		if !errors.Is(err, apperrors.ErrPerformanceNotFound) {
			t.Errorf("Expected ErrPerformanceNotFound, got %v", err)
		}
	})
}

func TestPerformanceService_GetDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPerformanceService(t, db)

		d, err := svc.GetDashboard(ctx)
		if err != nil {
			t.Fatalf("GetDashboard() returned unexpected error: %v", err)
		}
		if d.TotalInsiderTrades != 0 || d.TotalMyTrades != 0 || d.TickersTracked != 0 {
			t.Errorf("Expected zero totals, got %+v", d)
		}
		if d.BestPerformer != nil || d.AvgReturn1MAll != nil {
			t.Errorf("Expected nil best performer and average, got %v and %v", d.BestPerformer, d.AvgReturn1MAll)
		}
	})

	t.Run("collects totals and the best 1m performer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPerformanceService(t, db)

		testutil.NewInsiderTrade().Build(t, db)
		testutil.NewInsiderTrade().Build(t, db)
		testutil.NewMyTrade().WithTicker("AAPL").WithSnapshot(model.Horizon1M, 112.345, 12.35).Build(t, db)
		testutil.NewMyTrade().WithTicker("MSFT").WithSnapshot(model.Horizon1M, 95.65, -4.35).Build(t, db)
		testutil.NewMyTrade().WithTicker("MSFT").Build(t, db)

		d, err := svc.GetDashboard(ctx)
		if err != nil {
			t.Fatalf("GetDashboard() returned unexpected error: %v", err)
		}

		if d.TotalInsiderTrades != 2 {
			t.Errorf("Expected 2 insider trades, got %d", d.TotalInsiderTrades)
		}
		if d.TotalMyTrades != 3 {
			t.Errorf("Expected 3 trades, got %d", d.TotalMyTrades)
		}
		if d.TickersTracked != 2 {
			t.Errorf("Expected 2 tickers, got %d", d.TickersTracked)
		}
		if d.BestPerformer == nil || *d.BestPerformer != "AAPL (+12.35% 1m)" {
			t.Errorf("Expected AAPL (+12.35%% 1m), got %v", d.BestPerformer)
		}
		if d.AvgReturn1MAll == nil || *d.AvgReturn1MAll != 4 {
			t.Errorf("Expected average 4, got %v", d.AvgReturn1MAll)
		}
	})
}
