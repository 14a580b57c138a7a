package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/yahoo"
)

// closeTolerance is how far NearestClose looks around a target day to bridge weekends
// and market holidays.
const closeTolerance = 4

// DailyCloses maps midnight UTC of a trading day to its close.
type DailyCloses map[time.Time]float64

// NearestClose returns the close on target, or on the closest trading day within
// closeTolerance days. Later days win ties, so a weekend target resolves to Monday.
func (c DailyCloses) NearestClose(target time.Time) (float64, bool) {
	day := truncateDay(target)
	if v, ok := c[day]; ok {
		return v, true
	}
	for offset := 1; offset <= closeTolerance; offset++ {
		if v, ok := c[day.AddDate(0, 0, offset)]; ok {
			return v, true
		}
		if v, ok := c[day.AddDate(0, 0, -offset)]; ok {
			return v, true
		}
	}
	return 0, false
}

// PriceService fetches daily closes from Yahoo Finance, caching them in stock_prices.
type PriceService struct {
	priceRepo *repository.PriceRepository
	yahoo     yahoo.Client
	group     singleflight.Group
	now       func() time.Time
}

// NewPriceService creates a new PriceService with the provided repository and price source.
func NewPriceService(priceRepo *repository.PriceRepository, client yahoo.Client) *PriceService {
	return &PriceService{
		priceRepo: priceRepo,
		yahoo:     client,
		now:       time.Now,
	}
}

// DailyCloses returns the closes for ticker between from and to inclusive.
//
// The cache is used only when earlier fetches recorded every day of the window;
// otherwise Yahoo is queried and the result is written back to the cache. Concurrent
// requests for the same window share one upstream call.
//
// Errors wrap apperrors.ErrUpstreamUnavailable when Yahoo cannot be reached,
// apperrors.ErrNoPriceData when it answers without usable closes and
// apperrors.ErrStorage when the cache cannot be read or written.
func (s *PriceService) DailyCloses(ctx context.Context, ticker string, from, to time.Time) (DailyCloses, error) {
	ticker = strings.ToUpper(ticker)
	from, to = truncateDay(from), truncateDay(to)

	cached, err := s.priceRepo.GetPrices(ctx, ticker, from.AddDate(0, 0, -closeTolerance), to.AddDate(0, 0, closeTolerance))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	covered, err := s.priceRepo.IsCovered(ctx, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}
	if covered {
		return toCloses(cached), nil
	}

	key := ticker + "|" + from.Format(time.DateOnly) + "|" + to.Format(time.DateOnly)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetch(ctx, ticker, from, to)
	})
	if err != nil {
		return nil, err
	}
	return v.(DailyCloses), nil
}

func (s *PriceService) fetch(ctx context.Context, ticker string, from, to time.Time) (DailyCloses, error) {
	resp, err := s.yahoo.QueryYahooSymbolByDateRange(ctx, ticker, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, yahoo.ErrNoData) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrNoPriceData, err)
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstreamUnavailable, err)
	}

	chart, err := s.yahoo.ParseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNoPriceData, err)
	}
	if len(chart.Indicators) == 0 {
		return nil, fmt.Errorf("%w: no closes for %s", apperrors.ErrNoPriceData, ticker)
	}

	fetchedAt := s.now().UTC()
	prices := make([]model.StockPrice, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		prices = append(prices, model.StockPrice{
			Ticker:    ticker,
			Date:      ind.Date,
			Close:     ind.PriceClose,
			FetchedAt: fetchedAt,
		})
	}

	if err := s.priceRepo.UpsertPrices(ctx, prices); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}

	// Today's close is not final yet.
	settled := to
	if yesterday := truncateDay(fetchedAt).AddDate(0, 0, -1); settled.After(yesterday) {
		settled = yesterday
	}
	if err := s.priceRepo.AddCoverage(ctx, ticker, from, settled, fetchedAt); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorage, err)
	}

	return toCloses(prices), nil
}

// LatestClose returns the most recent cached close for ticker without contacting Yahoo.
// ok is false when nothing is cached.
func (s *PriceService) LatestClose(ctx context.Context, ticker string) (model.StockPrice, bool, error) {
	return s.priceRepo.GetLatestPrice(ctx, strings.ToUpper(ticker))
}

func toCloses(prices []model.StockPrice) DailyCloses {
	closes := make(DailyCloses, len(prices))
	for _, p := range prices {
		closes[truncateDay(p.Date)] = p.Close
	}
	return closes
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
