package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

// PriceRepository provides data access methods for the stock_prices cache table.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

func (r *PriceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPrices returns cached closes for ticker between startDate and endDate inclusive, oldest first.
func (r *PriceRepository) GetPrices(ctx context.Context, ticker string, startDate, endDate time.Time) ([]model.StockPrice, error) {
	query := `
		SELECT ticker, price_date, close, fetched_at
		FROM stock_prices
		WHERE ticker = ?
		AND price_date >= ?
		AND price_date <= ?
		ORDER BY price_date ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, ticker, formatDate(startDate), formatDate(endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_prices table: %w", err)
	}
	defer rows.Close()

	prices := []model.StockPrice{}
	for rows.Next() {
		var p model.StockPrice
		var dateStr, fetchedAtStr string
		if err := rows.Scan(&p.Ticker, &dateStr, &p.Close, &fetchedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan stock_prices table results: %w", err)
		}
		if p.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if p.FetchedAt, err = ParseTime(fetchedAtStr); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_prices table: %w", err)
	}

	return prices, nil
}

// GetLatestPrice returns the most recent cached close for ticker. ok is false when nothing is cached.
func (r *PriceRepository) GetLatestPrice(ctx context.Context, ticker string) (price model.StockPrice, ok bool, err error) {
	query := `
		SELECT ticker, price_date, close, fetched_at
		FROM stock_prices
		WHERE ticker = ?
		ORDER BY price_date DESC
		LIMIT 1
	`

	var dateStr, fetchedAtStr string
	err = r.getQuerier().QueryRowContext(ctx, query, ticker).Scan(&price.Ticker, &dateStr, &price.Close, &fetchedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StockPrice{}, false, nil
	}
	if err != nil {
		return model.StockPrice{}, false, fmt.Errorf("failed to query stock_prices table: %w", err)
	}
	if price.Date, err = ParseTime(dateStr); err != nil {
		return model.StockPrice{}, false, err
	}
	if price.FetchedAt, err = ParseTime(fetchedAtStr); err != nil {
		return model.StockPrice{}, false, err
	}
	return price, true, nil
}

// UpsertPrices stores prices, replacing any cached close for the same ticker and date.
// All rows are written in one transaction.
func (r *PriceRepository) UpsertPrices(ctx context.Context, prices []model.StockPrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx := r.tx
	if tx == nil {
		var err error
		tx, err = r.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stock_prices (ticker, price_date, close, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (ticker, price_date) DO UPDATE SET
			close = excluded.close,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare price upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, p.Ticker, formatDate(p.Date), p.Close, formatTimestamp(p.FetchedAt)); err != nil {
			return fmt.Errorf("failed to upsert stock price: %w", err)
		}
	}

	if r.tx == nil {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit prices: %w", err)
		}
	}
	return nil
}

// AddCoverage records that every trading day of ticker between startDate and endDate
// inclusive has been fetched, so a day without a cached close there is a non-trading day.
func (r *PriceRepository) AddCoverage(ctx context.Context, ticker string, startDate, endDate, fetchedAt time.Time) error {
	if endDate.Before(startDate) {
		return nil
	}
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO price_coverage (ticker, start_date, end_date, fetched_at)
		VALUES (?, ?, ?, ?)
	`, ticker, formatDate(startDate), formatDate(endDate), formatTimestamp(fetchedAt))
	if err != nil {
		return fmt.Errorf("failed to insert price coverage: %w", err)
	}
	return nil
}

// IsCovered reports whether recorded fetches of ticker together span every day
// between startDate and endDate inclusive.
func (r *PriceRepository) IsCovered(ctx context.Context, ticker string, startDate, endDate time.Time) (bool, error) {
	query := `
		SELECT start_date, end_date
		FROM price_coverage
		WHERE ticker = ?
		AND end_date >= ?
		AND start_date <= ?
		ORDER BY start_date ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, ticker, formatDate(startDate), formatDate(endDate))
	if err != nil {
		return false, fmt.Errorf("failed to query price_coverage table: %w", err)
	}
	defer rows.Close()

	// next is the first day not yet known to be covered.
	next := startDate
	for rows.Next() {
		var startStr, endStr string
		if err := rows.Scan(&startStr, &endStr); err != nil {
			return false, fmt.Errorf("failed to scan price_coverage table results: %w", err)
		}
		start, err := ParseTime(startStr)
		if err != nil {
			return false, err
		}
		end, err := ParseTime(endStr)
		if err != nil {
			return false, err
		}
		if start.After(next) {
			break
		}
		if !end.Before(next) {
			next = end.AddDate(0, 0, 1)
		}
		if next.After(endDate) {
			return true, nil
		}
	}

	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("error iterating price_coverage table: %w", err)
	}

	return next.After(endDate), nil
}
