package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

const insiderTradeColumns = `
	id, filing_date, trade_date, ticker, company_name, insider_name, insider_title,
	transaction_type, price, qty, owned, delta_own, value, scraped_at`

// InsiderTradeRepository provides data access methods for the insider_trades table.
// Rows are only ever inserted by the bulk loader; there is no update or delete.
type InsiderTradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInsiderTradeRepository creates a new InsiderTradeRepository with the provided database connection.
func NewInsiderTradeRepository(db *sql.DB) *InsiderTradeRepository {
	return &InsiderTradeRepository{db: db}
}

// WithTx returns a new InsiderTradeRepository scoped to the provided transaction.
func (r *InsiderTradeRepository) WithTx(tx *sql.Tx) *InsiderTradeRepository {
	return &InsiderTradeRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *InsiderTradeRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// List returns one page of insider trades matching filter, newest trade date first.
// A filter whose bounds are inverted returns an empty slice without querying.
func (r *InsiderTradeRepository) List(ctx context.Context, filter model.InsiderTradeFilter) ([]model.InsiderTrade, error) {
	if filter.Empty() || filter.Limit == 0 {
		return []model.InsiderTrade{}, nil
	}

	where := buildInsiderTradeWhere(filter)
	query := `SELECT ` + insiderTradeColumns + ` FROM insider_trades` + where.String() +
		` ORDER BY trade_date DESC, id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset)

	return r.query(ctx, query, args...)
}

// All returns every insider trade matching filter, ignoring pagination.
func (r *InsiderTradeRepository) All(ctx context.Context, filter model.InsiderTradeFilter) ([]model.InsiderTrade, error) {
	if filter.Empty() {
		return []model.InsiderTrade{}, nil
	}

	where := buildInsiderTradeWhere(filter)
	query := `SELECT ` + insiderTradeColumns + ` FROM insider_trades` + where.String() +
		` ORDER BY trade_date DESC, id DESC`

	return r.query(ctx, query, where.args...)
}

// Count returns the number of insider trades matching filter, ignoring pagination.
func (r *InsiderTradeRepository) Count(ctx context.Context, filter model.InsiderTradeFilter) (int, error) {
	if filter.Empty() {
		return 0, nil
	}

	where := buildInsiderTradeWhere(filter)
	var count int
	err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM insider_trades`+where.String(), where.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count insider_trades table: %w", err)
	}
	return count, nil
}

// GetInsiderTrade retrieves a single insider trade by ID.
// Returns apperrors.ErrInsiderTradeNotFound when no row exists.
func (r *InsiderTradeRepository) GetInsiderTrade(ctx context.Context, id int64) (model.InsiderTrade, error) {
	query := `SELECT ` + insiderTradeColumns + ` FROM insider_trades WHERE id = ?`

	trades, err := r.query(ctx, query, id)
	if err != nil {
		return model.InsiderTrade{}, err
	}
	if len(trades) == 0 {
		return model.InsiderTrade{}, apperrors.ErrInsiderTradeNotFound
	}
	return trades[0], nil
}

// Exists reports whether an insider trade with the given ID exists.
func (r *InsiderTradeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.getQuerier().QueryRowContext(ctx, `SELECT 1 FROM insider_trades WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query insider_trades table: %w", err)
	}
	return true, nil
}

// TickerExists reports whether any insider trade exists for ticker.
func (r *InsiderTradeRepository) TickerExists(ctx context.Context, ticker string) (bool, error) {
	var one int
	err := r.getQuerier().QueryRowContext(ctx, `SELECT 1 FROM insider_trades WHERE UPPER(ticker) = UPPER(?) LIMIT 1`, ticker).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query insider_trades table: %w", err)
	}
	return true, nil
}

// Tickers returns the distinct tickers present in insider_trades, sorted ascending.
func (r *InsiderTradeRepository) Tickers(ctx context.Context) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT DISTINCT ticker FROM insider_trades ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query insider_trades table: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan insider_trades table results: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insider_trades table: %w", err)
	}
	return tickers, nil
}

// InsertInsiderTrade stores a trade unless one with the same ticker, trade date, insider and
// transaction type already exists. Reports whether a row was inserted and sets trade.ID when it was.
func (r *InsiderTradeRepository) InsertInsiderTrade(ctx context.Context, trade *model.InsiderTrade) (bool, error) {
	query := `
		INSERT INTO insider_trades (
			filing_date, trade_date, ticker, company_name, insider_name, insider_title,
			transaction_type, price, qty, owned, delta_own, value, scraped_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker, trade_date, insider_name, transaction_type) DO NOTHING
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		nullableDate(trade.FilingDate),
		formatDate(trade.TradeDate),
		trade.Ticker,
		trade.CompanyName,
		trade.InsiderName,
		trade.InsiderTitle,
		trade.TransactionType,
		nullableFloat(trade.Price),
		nullableInt(trade.Qty),
		nullableInt(trade.Owned),
		trade.DeltaOwn,
		nullableFloat(trade.Value),
		formatTimestamp(trade.ScrapedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert insider trade: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get inserted id: %w", err)
	}
	trade.ID = id
	return true, nil
}

// CountAll returns the total number of insider trades.
func (r *InsiderTradeRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, model.InsiderTradeFilter{})
}

func (r *InsiderTradeRepository) query(ctx context.Context, query string, args ...any) ([]model.InsiderTrade, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insider_trades table: %w", err)
	}
	defer rows.Close()

	trades := []model.InsiderTrade{}
	for rows.Next() {
		var t model.InsiderTrade
		var filingDate sql.NullString
		var tradeDateStr, scrapedAtStr string
		var price, value sql.NullFloat64
		var qty, owned sql.NullInt64

		err := rows.Scan(
			&t.ID,
			&filingDate,
			&tradeDateStr,
			&t.Ticker,
			&t.CompanyName,
			&t.InsiderName,
			&t.InsiderTitle,
			&t.TransactionType,
			&price,
			&qty,
			&owned,
			&t.DeltaOwn,
			&value,
			&scrapedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insider_trades table results: %w", err)
		}

		t.TradeDate, err = ParseTime(tradeDateStr)
		if err != nil {
			return nil, err
		}
		t.ScrapedAt, err = ParseTime(scrapedAtStr)
		if err != nil {
			return nil, err
		}
		t.FilingDate, err = datePtr(filingDate)
		if err != nil {
			return nil, err
		}
		t.Price = floatPtr(price)
		t.Value = floatPtr(value)
		t.Qty = intPtr(qty)
		t.Owned = intPtr(owned)

		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insider_trades table: %w", err)
	}

	return trades, nil
}
