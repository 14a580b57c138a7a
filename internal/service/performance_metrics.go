package service

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// CalculateReturn computes the percentage return from entry to snapshot, rounded
// half away from zero to two decimals.
//
// Returns nil when either price is missing or the entry price is not positive.
//
// Example: entry 100.00, snapshot 110.00 gives 10.00.
func CalculateReturn(entry, snapshot *float64) *float64 {
	if entry == nil || snapshot == nil || *entry <= 0 {
		return nil
	}

	e := decimal.NewFromFloat(*entry)
	s := decimal.NewFromFloat(*snapshot)
	pct, _ := s.Sub(e).Div(e).Mul(hundred).Round(2).Float64()
	return &pct
}

// CalculateReturns computes the return for every horizon in snapshots against entry.
// Horizons without a snapshot map to nil. The result always holds every horizon.
// The function is pure: the same inputs always yield the same output.
func CalculateReturns(entry *float64, snapshots map[model.Horizon]*float64) map[model.Horizon]*float64 {
	returns := make(map[model.Horizon]*float64, len(model.Horizons))
	for _, h := range model.Horizons {
		returns[h] = CalculateReturn(entry, snapshots[h])
	}
	return returns
}

// recomputeReturns derives every stored return of p from its entry price and snapshots.
func recomputeReturns(p *model.PerformanceRecord) {
	p.SetReturns(CalculateReturns(p.PriceAtTrade, p.Snapshots()))
}

// round2 rounds f half away from zero to two decimals.
func round2(f float64) float64 {
	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}

// multiply returns a*b rounded to two decimals, computed without binary float drift.
func multiply(a, b float64) float64 {
	r, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return r
}
