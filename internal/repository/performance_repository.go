package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

const performanceColumns = `
	p.id, p.my_trade_id, p.ticker, m.trade_date, p.price_at_trade,
	p.price_1w, p.price_2w, p.price_1m, p.price_3m, p.price_6m, p.price_1y,
	p.return_1w, p.return_2w, p.return_1m, p.return_3m, p.return_6m, p.return_1y,
	p.updated_at`

const performanceFrom = ` FROM performance p JOIN my_trades m ON m.id = p.my_trade_id`

// PerformanceRepository provides data access methods for the performance table.
// Records are read joined with my_trades so callers always see the trade date.
type PerformanceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPerformanceRepository creates a new PerformanceRepository with the provided database connection.
func NewPerformanceRepository(db *sql.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// WithTx returns a new PerformanceRepository scoped to the provided transaction.
func (r *PerformanceRepository) WithTx(tx *sql.Tx) *PerformanceRepository {
	return &PerformanceRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PerformanceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// List returns one page of performance records, most recently updated first.
func (r *PerformanceRepository) List(ctx context.Context, filter model.PerformanceFilter) ([]model.PerformanceRecord, error) {
	if filter.Limit == 0 {
		return []model.PerformanceRecord{}, nil
	}

	where := &whereClause{}
	if filter.Ticker != nil {
		where.add("p.ticker = ?", *filter.Ticker)
	}

	query := `SELECT ` + performanceColumns + performanceFrom + where.String() +
		` ORDER BY p.updated_at DESC, p.id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset)

	return r.query(ctx, query, args...)
}

// All returns every performance record ordered by trade ID.
func (r *PerformanceRepository) All(ctx context.Context) ([]model.PerformanceRecord, error) {
	return r.query(ctx, `SELECT `+performanceColumns+performanceFrom+` ORDER BY p.my_trade_id ASC`)
}

// GetByMyTradeID retrieves the performance record of a personal trade.
// Returns apperrors.ErrPerformanceNotFound when none exists.
func (r *PerformanceRepository) GetByMyTradeID(ctx context.Context, myTradeID int64) (model.PerformanceRecord, error) {
	records, err := r.query(ctx, `SELECT `+performanceColumns+performanceFrom+` WHERE p.my_trade_id = ?`, myTradeID)
	if err != nil {
		return model.PerformanceRecord{}, err
	}
	if len(records) == 0 {
		return model.PerformanceRecord{}, apperrors.ErrPerformanceNotFound
	}
	return records[0], nil
}

// InsertPerformance stores a new performance record and sets its ID.
func (r *PerformanceRepository) InsertPerformance(ctx context.Context, p *model.PerformanceRecord) error {
	query := `
		INSERT INTO performance (
			my_trade_id, ticker, price_at_trade,
			price_1w, price_2w, price_1m, price_3m, price_6m, price_1y,
			return_1w, return_2w, return_1m, return_3m, return_6m, return_1y,
			updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	args := []any{p.MyTradeID, p.Ticker, nullableFloat(p.PriceAtTrade)}
	args = append(args, horizonArgs(p)...)
	args = append(args, formatTimestamp(p.UpdatedAt))

	result, err := r.getQuerier().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert performance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	p.ID = id
	return nil
}

// UpdatePerformance writes the entry price, every snapshot and every return of p in one statement.
// Returns apperrors.ErrPerformanceNotFound when no row matches p.MyTradeID.
func (r *PerformanceRepository) UpdatePerformance(ctx context.Context, p *model.PerformanceRecord) error {
	query := `
		UPDATE performance
		SET price_at_trade = ?,
			price_1w = ?, price_2w = ?, price_1m = ?, price_3m = ?, price_6m = ?, price_1y = ?,
			return_1w = ?, return_2w = ?, return_1m = ?, return_3m = ?, return_6m = ?, return_1y = ?,
			updated_at = ?
		WHERE my_trade_id = ?
	`

	args := []any{nullableFloat(p.PriceAtTrade)}
	args = append(args, horizonArgs(p)...)
	args = append(args, formatTimestamp(p.UpdatedAt), p.MyTradeID)

	result, err := r.getQuerier().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update performance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrPerformanceNotFound
	}

	return nil
}

// TickerStats returns the number of personal trades in ticker and their average 1m and 3m returns.
// Averages are nil when no trade has a return for that horizon.
func (r *PerformanceRepository) TickerStats(ctx context.Context, ticker string) (count int, avg1M, avg3M *float64, err error) {
	query := `
		SELECT COUNT(m.id), AVG(p.return_1m), AVG(p.return_3m)
		FROM my_trades m
		LEFT JOIN performance p ON p.my_trade_id = m.id
		WHERE m.ticker = ?
	`

	var a1, a3 sql.NullFloat64
	if err := r.getQuerier().QueryRowContext(ctx, query, ticker).Scan(&count, &a1, &a3); err != nil {
		return 0, nil, nil, fmt.Errorf("failed to query performance table: %w", err)
	}
	return count, floatPtr(a1), floatPtr(a3), nil
}

// Best1M returns the ticker and 1m return of the best performing trade.
// ok is false when no trade has a 1m return yet.
func (r *PerformanceRepository) Best1M(ctx context.Context) (ticker string, ret float64, ok bool, err error) {
	query := `
		SELECT m.ticker, p.return_1m
		FROM performance p
		JOIN my_trades m ON m.id = p.my_trade_id
		WHERE p.return_1m IS NOT NULL
		ORDER BY p.return_1m DESC, p.id ASC
		LIMIT 1
	`

	err = r.getQuerier().QueryRowContext(ctx, query).Scan(&ticker, &ret)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to query performance table: %w", err)
	}
	return ticker, ret, true, nil
}

// Average1M returns the mean 1m return across all trades, or nil when none is known.
func (r *PerformanceRepository) Average1M(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	if err := r.getQuerier().QueryRowContext(ctx, `SELECT AVG(return_1m) FROM performance`).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to query performance table: %w", err)
	}
	return floatPtr(avg), nil
}

func horizonArgs(p *model.PerformanceRecord) []any {
	args := make([]any, 0, 2*len(model.Horizons))
	for _, h := range model.Horizons {
		args = append(args, nullableFloat(p.Snapshot(h)))
	}
	for _, h := range model.Horizons {
		args = append(args, nullableFloat(p.Return(h)))
	}
	return args
}

func (r *PerformanceRepository) query(ctx context.Context, query string, args ...any) ([]model.PerformanceRecord, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance table: %w", err)
	}
	defer rows.Close()

	records := []model.PerformanceRecord{}
	for rows.Next() {
		var p model.PerformanceRecord
		var tradeDateStr, updatedAtStr string
		var entry sql.NullFloat64
		prices := make([]sql.NullFloat64, len(model.Horizons))
		returns := make([]sql.NullFloat64, len(model.Horizons))

		dest := []any{&p.ID, &p.MyTradeID, &p.Ticker, &tradeDateStr, &entry}
		for i := range prices {
			dest = append(dest, &prices[i])
		}
		for i := range returns {
			dest = append(dest, &returns[i])
		}
		dest = append(dest, &updatedAtStr)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan performance table results: %w", err)
		}

		if p.TradeDate, err = ParseTime(tradeDateStr); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
			return nil, err
		}
		p.PriceAtTrade = floatPtr(entry)

		computed := make(map[model.Horizon]*float64, len(model.Horizons))
		for i, h := range model.Horizons {
			p.SetSnapshot(h, floatPtr(prices[i]))
			computed[h] = floatPtr(returns[i])
		}
		p.SetReturns(computed)

		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating performance table: %w", err)
	}

	return records, nil
}
