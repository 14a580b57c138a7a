package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

const myTradeColumns = `
	id, ticker, trade_type, trade_date, shares, price, total_value, notes,
	related_insider_trade_id, created_at, updated_at`

// MyTradeRepository provides data access methods for the my_trades table.
type MyTradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewMyTradeRepository creates a new MyTradeRepository with the provided database connection.
func NewMyTradeRepository(db *sql.DB) *MyTradeRepository {
	return &MyTradeRepository{db: db}
}

// WithTx returns a new MyTradeRepository scoped to the provided transaction.
func (r *MyTradeRepository) WithTx(tx *sql.Tx) *MyTradeRepository {
	return &MyTradeRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *MyTradeRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// List returns one page of personal trades matching filter, newest trade date first.
func (r *MyTradeRepository) List(ctx context.Context, filter model.MyTradeFilter) ([]model.MyTrade, error) {
	if filter.Limit == 0 {
		return []model.MyTrade{}, nil
	}

	where := &whereClause{}
	if filter.Ticker != nil {
		where.add("ticker = ?", *filter.Ticker)
	}
	if filter.TradeType != nil {
		where.add("trade_type = ?", *filter.TradeType)
	}
	if filter.DateFrom != nil {
		where.add("trade_date >= ?", formatDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		where.add("trade_date <= ?", formatDate(*filter.DateTo))
	}

	query := `SELECT ` + myTradeColumns + ` FROM my_trades` + where.String() +
		` ORDER BY trade_date DESC, id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset)

	return r.query(ctx, query, args...)
}

// GetMyTrade retrieves a single personal trade by ID.
// Returns apperrors.ErrMyTradeNotFound when no row exists.
func (r *MyTradeRepository) GetMyTrade(ctx context.Context, id int64) (model.MyTrade, error) {
	trades, err := r.query(ctx, `SELECT `+myTradeColumns+` FROM my_trades WHERE id = ?`, id)
	if err != nil {
		return model.MyTrade{}, err
	}
	if len(trades) == 0 {
		return model.MyTrade{}, apperrors.ErrMyTradeNotFound
	}
	return trades[0], nil
}

// InsertMyTrade stores a new personal trade and sets its ID.
func (r *MyTradeRepository) InsertMyTrade(ctx context.Context, t *model.MyTrade) error {
	query := `
		INSERT INTO my_trades (
			ticker, trade_type, trade_date, shares, price, total_value, notes,
			related_insider_trade_id, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		t.Ticker,
		t.TradeType,
		formatDate(t.TradeDate),
		t.Shares,
		t.Price,
		t.TotalValue,
		t.Notes,
		nullableInt(t.RelatedInsiderTradeID),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	t.ID = id
	return nil
}

// UpdateMyTrade writes the editable fields of t.
// Returns apperrors.ErrMyTradeNotFound when no row matches t.ID.
func (r *MyTradeRepository) UpdateMyTrade(ctx context.Context, t *model.MyTrade) error {
	query := `
		UPDATE my_trades
		SET trade_date = ?, shares = ?, price = ?, total_value = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		formatDate(t.TradeDate),
		t.Shares,
		t.Price,
		t.TotalValue,
		t.Notes,
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrMyTradeNotFound
	}

	return nil
}

// DeleteMyTrade removes a personal trade. Its performance record is removed by cascade.
func (r *MyTradeRepository) DeleteMyTrade(ctx context.Context, id int64) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM my_trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrMyTradeNotFound
	}

	return nil
}

// AllByTradeDate returns every personal trade, oldest first.
func (r *MyTradeRepository) AllByTradeDate(ctx context.Context) ([]model.MyTrade, error) {
	return r.query(ctx, `SELECT `+myTradeColumns+` FROM my_trades ORDER BY trade_date ASC, id ASC`)
}

// CountAll returns the number of personal trades.
func (r *MyTradeRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM my_trades`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count my_trades table: %w", err)
	}
	return count, nil
}

// CountTickers returns the number of distinct tickers traded.
func (r *MyTradeRepository) CountTickers(ctx context.Context) (int, error) {
	var count int
	if err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(DISTINCT ticker) FROM my_trades`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count my_trades table: %w", err)
	}
	return count, nil
}

func (r *MyTradeRepository) query(ctx context.Context, query string, args ...any) ([]model.MyTrade, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query my_trades table: %w", err)
	}
	defer rows.Close()

	trades := []model.MyTrade{}
	for rows.Next() {
		var t model.MyTrade
		var tradeDateStr, createdAtStr, updatedAtStr string
		var related sql.NullInt64

		err := rows.Scan(
			&t.ID,
			&t.Ticker,
			&t.TradeType,
			&tradeDateStr,
			&t.Shares,
			&t.Price,
			&t.TotalValue,
			&t.Notes,
			&related,
			&createdAtStr,
			&updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan my_trades table results: %w", err)
		}

		if t.TradeDate, err = ParseTime(tradeDateStr); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		if t.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
			return nil, err
		}
		t.RelatedInsiderTradeID = intPtr(related)

		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating my_trades table: %w", err)
	}

	return trades, nil
}
