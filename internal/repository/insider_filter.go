package repository

import (
	"strings"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

// buildInsiderTradeWhere translates a validated filter into a parameterised predicate.
// Every supplied field narrows the result; nil fields are skipped.
func buildInsiderTradeWhere(filter model.InsiderTradeFilter) *whereClause {
	where := &whereClause{}

	if filter.Ticker != nil {
		where.add("UPPER(ticker) = UPPER(?)", *filter.Ticker)
	}
	if filter.InsiderName != nil {
		where.add(`insider_name LIKE ? ESCAPE '\'`, "%"+escapeLike(*filter.InsiderName)+"%")
	}
	if filter.TransactionType != nil {
		where.add("transaction_type = ? COLLATE NOCASE", *filter.TransactionType)
	}
	if filter.TransactionCode != nil {
		code := strings.ToUpper(*filter.TransactionCode)
		where.add(`(transaction_type = ? OR transaction_type LIKE ? ESCAPE '\')`, code, escapeLike(code)+" - %")
	}
	if filter.DateFrom != nil {
		where.add("trade_date >= ?", formatDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		where.add("trade_date <= ?", formatDate(*filter.DateTo))
	}
	if filter.MinValue != nil {
		where.add("value >= ?", *filter.MinValue)
	}
	if filter.MaxValue != nil {
		where.add("value <= ?", *filter.MaxValue)
	}

	return where
}
