package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

var insiderSeq atomic.Int64

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}

// Int returns a pointer to i.
func Int(i int64) *int64 {
	return &i
}

// =============================================================================
// INSIDER TRADE BUILDER
// =============================================================================

// InsiderTradeBuilder provides a fluent interface for creating test insider trades.
type InsiderTradeBuilder struct {
	trade model.InsiderTrade
}

// NewInsiderTrade creates a builder with a unique insider name and sensible defaults:
// a purchase of 100 shares of TEST at 10.00 traded on 2024-01-15.
func NewInsiderTrade() *InsiderTradeBuilder {
	filing := Date(2024, 1, 17)
	return &InsiderTradeBuilder{
		trade: model.InsiderTrade{
			FilingDate:      &filing,
			TradeDate:       Date(2024, 1, 15),
			Ticker:          "TEST",
			CompanyName:     "Test Corp",
			InsiderName:     fmt.Sprintf("Insider %d", insiderSeq.Add(1)),
			InsiderTitle:    "CEO",
			TransactionType: "P - Purchase",
			Price:           Float(10),
			Qty:             Int(100),
			Owned:           Int(1000),
			DeltaOwn:        "+11%",
			Value:           Float(1000),
			ScrapedAt:       time.Date(2024, 1, 18, 12, 0, 0, 0, time.UTC),
		},
	}
}

func (b *InsiderTradeBuilder) WithTicker(ticker string) *InsiderTradeBuilder {
	b.trade.Ticker = ticker
	return b
}

func (b *InsiderTradeBuilder) WithInsiderName(name string) *InsiderTradeBuilder {
	b.trade.InsiderName = name
	return b
}

func (b *InsiderTradeBuilder) WithType(transactionType string) *InsiderTradeBuilder {
	b.trade.TransactionType = transactionType
	return b
}

func (b *InsiderTradeBuilder) WithTradeDate(d time.Time) *InsiderTradeBuilder {
	b.trade.TradeDate = d
	return b
}

func (b *InsiderTradeBuilder) WithFilingDate(d *time.Time) *InsiderTradeBuilder {
	b.trade.FilingDate = d
	return b
}

// WithValue sets the total value; nil stores NULL.
func (b *InsiderTradeBuilder) WithValue(v *float64) *InsiderTradeBuilder {
	b.trade.Value = v
	return b
}

// Build creates the insider trade in the database and returns it.
func (b *InsiderTradeBuilder) Build(t *testing.T, db *sql.DB) model.InsiderTrade {
	t.Helper()

	query := `
		INSERT INTO insider_trades (
			filing_date, trade_date, ticker, company_name, insider_name, insider_title,
			transaction_type, price, qty, owned, delta_own, value, scraped_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var filing any
	if b.trade.FilingDate != nil {
		filing = b.trade.FilingDate.Format("2006-01-02")
	}
	var price, value any
	if b.trade.Price != nil {
		price = *b.trade.Price
	}
	if b.trade.Value != nil {
		value = *b.trade.Value
	}

	result, err := db.Exec(query,
		filing,
		b.trade.TradeDate.Format("2006-01-02"),
		b.trade.Ticker,
		b.trade.CompanyName,
		b.trade.InsiderName,
		b.trade.InsiderTitle,
		b.trade.TransactionType,
		price,
		*b.trade.Qty,
		*b.trade.Owned,
		b.trade.DeltaOwn,
		value,
		b.trade.ScrapedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test insider trade: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read insider trade id: %v", err)
	}

	trade := b.trade
	trade.ID = id
	return trade
}

// =============================================================================
// MY TRADE BUILDER
// =============================================================================

// MyTradeBuilder creates a personal trade together with its performance record.
type MyTradeBuilder struct {
	trade     model.MyTrade
	snapshots map[model.Horizon]*float64
	returns   map[model.Horizon]*float64
	noEntry   bool
}

// NewMyTrade creates a builder for a buy of 10 shares of TEST at 100.00 on 2024-01-15.
func NewMyTrade() *MyTradeBuilder {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	return &MyTradeBuilder{
		trade: model.MyTrade{
			Ticker:     "TEST",
			TradeType:  model.MyTradeTypeBuy,
			TradeDate:  Date(2024, 1, 15),
			Shares:     10,
			Price:      100,
			TotalValue: 1000,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		snapshots: map[model.Horizon]*float64{},
		returns:   map[model.Horizon]*float64{},
	}
}

func (b *MyTradeBuilder) WithTicker(ticker string) *MyTradeBuilder {
	b.trade.Ticker = ticker
	return b
}

func (b *MyTradeBuilder) WithType(tradeType string) *MyTradeBuilder {
	b.trade.TradeType = tradeType
	return b
}

func (b *MyTradeBuilder) WithTradeDate(d time.Time) *MyTradeBuilder {
	b.trade.TradeDate = d
	return b
}

// WithPrice sets the trade price and recomputes total value.
func (b *MyTradeBuilder) WithPrice(price float64) *MyTradeBuilder {
	b.trade.Price = price
	b.trade.TotalValue = price * b.trade.Shares
	return b
}

// WithShares sets the share count and recomputes total value.
func (b *MyTradeBuilder) WithShares(shares float64) *MyTradeBuilder {
	b.trade.Shares = shares
	b.trade.TotalValue = b.trade.Price * shares
	return b
}

func (b *MyTradeBuilder) WithRelatedInsiderTrade(id int64) *MyTradeBuilder {
	b.trade.RelatedInsiderTradeID = &id
	return b
}

// WithSnapshot stores a snapshot price and its return on the performance record.
func (b *MyTradeBuilder) WithSnapshot(h model.Horizon, price, ret float64) *MyTradeBuilder {
	b.snapshots[h] = &price
	b.returns[h] = &ret
	return b
}

// WithoutEntryPrice leaves price_at_trade NULL on the performance record.
func (b *MyTradeBuilder) WithoutEntryPrice() *MyTradeBuilder {
	b.noEntry = true
	return b
}

// Build inserts the trade and its performance record and returns both.
func (b *MyTradeBuilder) Build(t *testing.T, db *sql.DB) (model.MyTrade, model.PerformanceRecord) {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO my_trades (
			ticker, trade_type, trade_date, shares, price, total_value, notes,
			related_insider_trade_id, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.trade.Ticker,
		b.trade.TradeType,
		b.trade.TradeDate.Format("2006-01-02"),
		b.trade.Shares,
		b.trade.Price,
		b.trade.TotalValue,
		b.trade.Notes,
		b.trade.RelatedInsiderTradeID,
		b.trade.CreatedAt.Format(time.RFC3339),
		b.trade.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}
	trade := b.trade
	if trade.ID, err = result.LastInsertId(); err != nil {
		t.Fatalf("Failed to read trade id: %v", err)
	}

	perf := model.PerformanceRecord{
		MyTradeID: trade.ID,
		Ticker:    trade.Ticker,
		TradeDate: trade.TradeDate,
		UpdatedAt: trade.UpdatedAt,
	}
	if !b.noEntry {
		perf.PriceAtTrade = Float(trade.Price)
	}
	for h, v := range b.snapshots {
		perf.SetSnapshot(h, v)
	}
	perf.SetReturns(b.returns)

	args := []any{perf.MyTradeID, perf.Ticker, perf.PriceAtTrade}
	for _, h := range model.Horizons {
		args = append(args, perf.Snapshot(h))
	}
	for _, h := range model.Horizons {
		args = append(args, perf.Return(h))
	}
	args = append(args, perf.UpdatedAt.Format(time.RFC3339))

	result, err = db.Exec(`
		INSERT INTO performance (
			my_trade_id, ticker, price_at_trade,
			price_1w, price_2w, price_1m, price_3m, price_6m, price_1y,
			return_1w, return_2w, return_1m, return_3m, return_6m, return_1y,
			updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		t.Fatalf("Failed to create test performance: %v", err)
	}
	if perf.ID, err = result.LastInsertId(); err != nil {
		t.Fatalf("Failed to read performance id: %v", err)
	}

	return trade, perf
}

// =============================================================================
// STOCK PRICE HELPERS
// =============================================================================

// CreateStockPrices caches one close per entry of closes, keyed by calendar day, and
// records the span from the earliest to the latest day as fetched.
//
// Example usage:
//
//	testutil.CreateStockPrices(t, db, "AAPL", map[time.Time]float64{
//	    testutil.Date(2024, 1, 22): 110,
//	})
func CreateStockPrices(t *testing.T, db *sql.DB, ticker string, closes map[time.Time]float64) {
	t.Helper()

	for d, c := range closes {
		_, err := db.Exec(
			`INSERT INTO stock_prices (ticker, price_date, close, fetched_at) VALUES (?, ?, ?, ?)`,
			ticker, d.Format("2006-01-02"), c, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			t.Fatalf("Failed to create test stock price: %v", err)
		}
	}

	var first, last time.Time
	for d := range closes {
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	if first.IsZero() {
		return
	}
	_, err := db.Exec(
		`INSERT INTO price_coverage (ticker, start_date, end_date, fetched_at) VALUES (?, ?, ?, ?)`,
		ticker, first.Format("2006-01-02"), last.Format("2006-01-02"), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test price coverage: %v", err)
	}
}
