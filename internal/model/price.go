package model

import "time"

// StockPrice is a cached daily close for a ticker.
type StockPrice struct {
	Ticker    string    `json:"ticker"`
	Date      time.Time `json:"date"`
	Close     float64   `json:"close"`
	FetchedAt time.Time `json:"fetchedAt"`
}
