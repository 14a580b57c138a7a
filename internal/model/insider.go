package model

import (
	"strings"
	"time"
)

// Form 4 transaction codes.
const (
	TradeCodePurchase = "P"
	TradeCodeSale     = "S"
)

// TransactionTypeLabels maps each Form 4 transaction code to the label stored in insider_trades.
var TransactionTypeLabels = map[string]string{
	"P": "P - Purchase",
	"S": "S - Sale",
	"F": "F - Tax",
	"D": "D - Disposition",
	"G": "G - Gift",
	"X": "X - Exercise",
	"M": "M - Options Exercise",
	"C": "C - Conversion",
	"W": "W - Will/Inheritance",
	"H": "H - Holdings",
	"O": "O - Other",
}

// transactionTypeAliases are the shorthand spellings seen in scraped data.
var transactionTypeAliases = map[string]string{
	"purchase": "P",
	"sale":     "S",
}

// CanonicalTransactionType resolves a code ("P"), an alias ("Purchase") or a full label
// ("P - Purchase") to the stored label. The boolean is false for unknown types.
func CanonicalTransactionType(s string) (string, bool) {
	code := TransactionTypeCode(s)
	if code == "" {
		return "", false
	}
	label, ok := TransactionTypeLabels[code]
	return label, ok
}

// TransactionTypeCode returns the single-letter Form 4 code for a stored or user-supplied
// transaction type, or "" when it cannot be recognised.
func TransactionTypeCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if code, ok := transactionTypeAliases[strings.ToLower(s)]; ok {
		return code
	}
	upper := strings.ToUpper(s)
	if len(upper) == 1 {
		if _, ok := TransactionTypeLabels[upper]; ok {
			return upper
		}
		return ""
	}
	// "S - Sale", "S - Sale+OE"
	if len(upper) >= 4 && upper[1:4] == " - " {
		if _, ok := TransactionTypeLabels[upper[:1]]; ok {
			return upper[:1]
		}
	}
	return ""
}

// InsiderTrade is a single Form 4 filing row loaded from the scraper output.
// Rows are append-only: the API never edits or deletes them.
type InsiderTrade struct {
	ID              int64      `json:"id"`
	FilingDate      *time.Time `json:"filingDate"`
	TradeDate       time.Time  `json:"tradeDate"`
	Ticker          string     `json:"ticker"`
	CompanyName     string     `json:"companyName"`
	InsiderName     string     `json:"insiderName"`
	InsiderTitle    string     `json:"insiderTitle"`
	TransactionType string     `json:"transactionType"`
	Price           *float64   `json:"price"`
	Qty             *int64     `json:"qty"`
	Owned           *int64     `json:"owned"`
	DeltaOwn        string     `json:"deltaOwn"`
	Value           *float64   `json:"value"`
	ScrapedAt       time.Time  `json:"scrapedAt"`
}

// InsiderTradeFilter holds the validated query parameters for listing insider trades.
// Nil fields are not applied.
type InsiderTradeFilter struct {
	Ticker          *string
	InsiderName     *string
	TransactionType *string // full label, matched as stored
	TransactionCode *string // single-letter code, matches every label carrying it
	DateFrom        *time.Time
	DateTo          *time.Time
	MinValue        *float64
	MaxValue        *float64
	Limit           int
	Offset          int
}

// Empty reports whether the filter bounds can never match any row.
func (f InsiderTradeFilter) Empty() bool {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return true
	}
	if f.MinValue != nil && f.MaxValue != nil && *f.MinValue > *f.MaxValue {
		return true
	}
	return false
}

// TickerAggregate is the summary of a set of insider trades for one ticker.
type TickerAggregate struct {
	TotalTrades     int        `json:"totalTrades"`
	BuyCount        int        `json:"buyCount"`
	SellCount       int        `json:"sellCount"`
	BuyValue        float64    `json:"buyValue"`
	SellValue       float64    `json:"sellValue"`
	NetValue        float64    `json:"netValue"`
	FirstFilingDate *time.Time `json:"firstFilingDate"`
	LastFilingDate  *time.Time `json:"lastFilingDate"`
}

// TickerSummary is the response of the ticker summary endpoint: the insider aggregate
// plus statistics from the user's own trades in the same ticker.
type TickerSummary struct {
	Ticker string `json:"ticker"`
	TickerAggregate
	MyTradeCount int      `json:"myTradeCount"`
	AvgReturn1M  *float64 `json:"avgReturn1m"`
	AvgReturn3M  *float64 `json:"avgReturn3m"`
}

// CountResponse wraps a row count.
type CountResponse struct {
	Count int `json:"count"`
}

// ImportResult reports the outcome of a bulk insider trade load.
type ImportResult struct {
	Read       int `json:"read"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}
