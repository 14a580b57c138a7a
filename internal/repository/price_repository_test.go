package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/testutil"
)

func TestPriceRepository_UpsertPrices(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)
	fetched := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	err := repo.UpsertPrices(ctx, []model.StockPrice{
		{Ticker: "AAPL", Date: testutil.Date(2024, 1, 2), Close: 185.64, FetchedAt: fetched},
		{Ticker: "AAPL", Date: testutil.Date(2024, 1, 3), Close: 184.25, FetchedAt: fetched},
		{Ticker: "MSFT", Date: testutil.Date(2024, 1, 3), Close: 370.6, FetchedAt: fetched},
	})
	if err != nil {
		t.Fatalf("UpsertPrices() returned unexpected error: %v", err)
	}

	t.Run("replaces an existing close", func(t *testing.T) {
		err := repo.UpsertPrices(ctx, []model.StockPrice{
			{Ticker: "AAPL", Date: testutil.Date(2024, 1, 3), Close: 184.3, FetchedAt: fetched.Add(time.Hour)},
		})
		if err != nil {
			t.Fatalf("UpsertPrices() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "stock_prices", 3)

		latest, ok, err := repo.GetLatestPrice(ctx, "AAPL")
		if err != nil || !ok {
			t.Fatalf("GetLatestPrice() returned ok=%v err=%v", ok, err)
		}
		if latest.Close != 184.3 {
			t.Errorf("Expected replaced close 184.3, got %v", latest.Close)
		}
	})

	t.Run("reads a window oldest first", func(t *testing.T) {
		prices, err := repo.GetPrices(ctx, "AAPL", testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 3))
		if err != nil {
			t.Fatalf("GetPrices() returned unexpected error: %v", err)
		}
		if len(prices) != 2 {
			t.Fatalf("Expected 2 prices, got %d", len(prices))
		}
		if !prices[0].Date.Equal(testutil.Date(2024, 1, 2)) {
			t.Errorf("Expected oldest first, got %v", prices[0].Date)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		if err := repo.UpsertPrices(ctx, nil); err != nil {
			t.Errorf("UpsertPrices(nil) returned unexpected error: %v", err)
		}
	})
}

func TestPriceRepository_IsCovered(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)
	fetched := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, span := range [][2]time.Time{
		{testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 10)},
		{testutil.Date(2024, 1, 8), testutil.Date(2024, 1, 20)},
		{testutil.Date(2024, 1, 21), testutil.Date(2024, 1, 25)},
		{testutil.Date(2024, 2, 1), testutil.Date(2024, 2, 10)},
	} {
		if err := repo.AddCoverage(ctx, "AAPL", span[0], span[1], fetched); err != nil {
			t.Fatalf("AddCoverage() returned unexpected error: %v", err)
		}
	}

	tests := []struct {
		name     string
		ticker   string
		from, to time.Time
		want     bool
	}{
		{"inside one span", "AAPL", testutil.Date(2024, 1, 2), testutil.Date(2024, 1, 9), true},
		{"across overlapping spans", "AAPL", testutil.Date(2024, 1, 5), testutil.Date(2024, 1, 18), true},
		{"across adjacent spans", "AAPL", testutil.Date(2024, 1, 15), testutil.Date(2024, 1, 24), true},
		{"ends after the last span", "AAPL", testutil.Date(2024, 1, 20), testutil.Date(2024, 1, 27), false},
		{"spans a gap", "AAPL", testutil.Date(2024, 1, 24), testutil.Date(2024, 2, 2), false},
		{"starts before the first span", "AAPL", testutil.Date(2023, 12, 30), testutil.Date(2024, 1, 5), false},
		{"other ticker", "MSFT", testutil.Date(2024, 1, 2), testutil.Date(2024, 1, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.IsCovered(ctx, tt.ticker, tt.from, tt.to)
			if err != nil {
				t.Fatalf("IsCovered() returned unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("ignores an empty span", func(t *testing.T) {
		if err := repo.AddCoverage(ctx, "NVDA", testutil.Date(2024, 1, 5), testutil.Date(2024, 1, 4), fetched); err != nil {
			t.Fatalf("AddCoverage() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "price_coverage", 4)
	})
}
