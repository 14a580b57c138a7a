package model

import "time"

// Horizon is a post-trade measurement point.
type Horizon string

// Supported horizons, shortest first.
const (
	Horizon1W Horizon = "1w"
	Horizon2W Horizon = "2w"
	Horizon1M Horizon = "1m"
	Horizon3M Horizon = "3m"
	Horizon6M Horizon = "6m"
	Horizon1Y Horizon = "1y"
)

// Horizons lists every horizon in ascending order.
var Horizons = []Horizon{Horizon1W, Horizon2W, Horizon1M, Horizon3M, Horizon6M, Horizon1Y}

// TargetDate returns the calendar date the horizon's snapshot is taken on.
func (h Horizon) TargetDate(tradeDate time.Time) time.Time {
	switch h {
	case Horizon1W:
		return tradeDate.AddDate(0, 0, 7)
	case Horizon2W:
		return tradeDate.AddDate(0, 0, 14)
	case Horizon1M:
		return tradeDate.AddDate(0, 1, 0)
	case Horizon3M:
		return tradeDate.AddDate(0, 3, 0)
	case Horizon6M:
		return tradeDate.AddDate(0, 6, 0)
	case Horizon1Y:
		return tradeDate.AddDate(1, 0, 0)
	}
	return tradeDate
}

// Valid reports whether h is one of the supported horizons.
func (h Horizon) Valid() bool {
	for _, v := range Horizons {
		if v == h {
			return true
		}
	}
	return false
}

// PerformanceRecord holds snapshot prices and derived returns for one personal trade.
// A nil snapshot means the price has not been captured; a nil return means it
// could not be computed.
type PerformanceRecord struct {
	ID           int64     `json:"id"`
	MyTradeID    int64     `json:"myTradeId"`
	Ticker       string    `json:"ticker"`
	TradeDate    time.Time `json:"tradeDate"`
	PriceAtTrade *float64  `json:"priceAtTrade"`
	Price1W      *float64  `json:"price1w"`
	Price2W      *float64  `json:"price2w"`
	Price1M      *float64  `json:"price1m"`
	Price3M      *float64  `json:"price3m"`
	Price6M      *float64  `json:"price6m"`
	Price1Y      *float64  `json:"price1y"`
	Return1W     *float64  `json:"return1w"`
	Return2W     *float64  `json:"return2w"`
	Return1M     *float64  `json:"return1m"`
	Return3M     *float64  `json:"return3m"`
	Return6M     *float64  `json:"return6m"`
	Return1Y     *float64  `json:"return1y"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (p *PerformanceRecord) fields(h Horizon) (price, ret **float64) {
	switch h {
	case Horizon1W:
		return &p.Price1W, &p.Return1W
	case Horizon2W:
		return &p.Price2W, &p.Return2W
	case Horizon1M:
		return &p.Price1M, &p.Return1M
	case Horizon3M:
		return &p.Price3M, &p.Return3M
	case Horizon6M:
		return &p.Price6M, &p.Return6M
	case Horizon1Y:
		return &p.Price1Y, &p.Return1Y
	}
	return nil, nil
}

// Snapshot returns the snapshot price for h.
func (p *PerformanceRecord) Snapshot(h Horizon) *float64 {
	price, _ := p.fields(h)
	if price == nil {
		return nil
	}
	return *price
}

// SetSnapshot stores the snapshot price for h.
func (p *PerformanceRecord) SetSnapshot(h Horizon, v *float64) {
	if price, _ := p.fields(h); price != nil {
		*price = v
	}
}

// Return returns the computed return for h.
func (p *PerformanceRecord) Return(h Horizon) *float64 {
	_, ret := p.fields(h)
	if ret == nil {
		return nil
	}
	return *ret
}

// Snapshots returns all snapshot prices keyed by horizon.
func (p *PerformanceRecord) Snapshots() map[Horizon]*float64 {
	out := make(map[Horizon]*float64, len(Horizons))
	for _, h := range Horizons {
		out[h] = p.Snapshot(h)
	}
	return out
}

// SetReturns replaces every stored return. Horizons missing from returns are cleared.
func (p *PerformanceRecord) SetReturns(returns map[Horizon]*float64) {
	for _, h := range Horizons {
		_, ret := p.fields(h)
		*ret = returns[h]
	}
}

// ClearSnapshots drops every snapshot price and return.
func (p *PerformanceRecord) ClearSnapshots() {
	for _, h := range Horizons {
		price, ret := p.fields(h)
		*price = nil
		*ret = nil
	}
}

// PerformanceFilter holds the validated query parameters for listing performance records.
type PerformanceFilter struct {
	Ticker *string
	Limit  int
	Offset int
}

// Dashboard is the overview shown on the landing page.
type Dashboard struct {
	TotalInsiderTrades int      `json:"totalInsiderTrades"`
	TotalMyTrades      int      `json:"totalMyTrades"`
	TickersTracked     int      `json:"tickersTracked"`
	BestPerformer      *string  `json:"bestPerformingTrade"`
	AvgReturn1MAll     *float64 `json:"avgReturn1mAll"`
}
