package service

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

// AggregateTicker summarises a set of insider trades.
//
// Purchases (Form 4 code P) count as buys and sales (code S) as sells; every
// other transaction type only contributes to TotalTrades. A missing value counts
// as zero. Sums are accumulated in decimal so the result does not depend on
// input order. An empty input yields zero counts and nil filing dates.
func AggregateTicker(trades []model.InsiderTrade) model.TickerAggregate {
	agg := model.TickerAggregate{TotalTrades: len(trades)}
	buyValue := decimal.Zero
	sellValue := decimal.Zero

	for i := range trades {
		t := &trades[i]

		switch model.TransactionTypeCode(t.TransactionType) {
		case model.TradeCodePurchase:
			agg.BuyCount++
			buyValue = buyValue.Add(valueOf(t))
		case model.TradeCodeSale:
			agg.SellCount++
			sellValue = sellValue.Add(valueOf(t))
		}

		if t.FilingDate != nil {
			if agg.FirstFilingDate == nil || t.FilingDate.Before(*agg.FirstFilingDate) {
				d := *t.FilingDate
				agg.FirstFilingDate = &d
			}
			if agg.LastFilingDate == nil || t.FilingDate.After(*agg.LastFilingDate) {
				d := *t.FilingDate
				agg.LastFilingDate = &d
			}
		}
	}

	agg.BuyValue, _ = buyValue.Round(2).Float64()
	agg.SellValue, _ = sellValue.Round(2).Float64()
	agg.NetValue, _ = buyValue.Sub(sellValue).Round(2).Float64()

	return agg
}

func valueOf(t *model.InsiderTrade) decimal.Decimal {
	if t.Value == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*t.Value)
}
