package model

import "time"

// Position is the user's holding in one ticker, built from their trade log with
// average-cost accounting. Market values use the latest cached close and are nil
// when no close is cached or the position is closed. Monetary values are rounded
// to two decimal places.
type Position struct {
	Ticker          string     `json:"ticker"`
	Shares          float64    `json:"shares"`        // Shares currently held
	AvgCost         float64    `json:"avgCost"`       // Cost basis per held share
	CostBasis       float64    `json:"costBasis"`     // Cost of the shares still held
	CurrentPrice    *float64   `json:"currentPrice"`  // Latest cached close
	PriceDate       *time.Time `json:"priceDate"`     // Day of CurrentPrice
	CurrentValue    *float64   `json:"currentValue"`  // Shares * CurrentPrice
	UnrealizedPnL   *float64   `json:"unrealizedPnl"` // CurrentValue - CostBasis
	UnrealizedPct   *float64   `json:"unrealizedPct"`
	RealizedPnL     float64    `json:"realizedPnl"` // Gain/loss locked in by sells
	TotalPnL        float64    `json:"totalPnl"`    // Realized + unrealized
	TradeCount      int        `json:"tradeCount"`
	FirstBuyDate    *time.Time `json:"firstBuyDate"`
	LastTradeDate   *time.Time `json:"lastTradeDate"`
	IsOpen          bool       `json:"isOpen"`
}

// PortfolioSummary totals every position.
type PortfolioSummary struct {
	TotalValue         float64 `json:"totalValue"`         // Market value of priced open positions
	TotalCostBasis     float64 `json:"totalCostBasis"`     // Cost basis of priced open positions
	TotalUnrealizedPnL float64 `json:"totalUnrealizedPnl"` // TotalValue - TotalCostBasis
	TotalUnrealizedPct float64 `json:"totalUnrealizedPct"`
	TotalRealizedPnL   float64 `json:"totalRealizedPnl"`
	TotalPnL           float64 `json:"totalPnl"`
	OpenPositions      int     `json:"openPositions"`
	ClosedPositions    int     `json:"closedPositions"`
}

// Portfolio is the response of the portfolio endpoint.
type Portfolio struct {
	Positions []Position       `json:"positions"`
	Summary   PortfolioSummary `json:"summary"`
}
