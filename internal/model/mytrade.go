package model

import "time"

// Personal trade directions.
const (
	MyTradeTypeBuy  = "buy"
	MyTradeTypeSell = "sell"
)

// MyTrade is an entry in the user's own trade log.
type MyTrade struct {
	ID                    int64     `json:"id"`
	Ticker                string    `json:"ticker"`
	TradeType             string    `json:"tradeType"`
	TradeDate             time.Time `json:"tradeDate"`
	Shares                float64   `json:"shares"`
	Price                 float64   `json:"price"`
	TotalValue            float64   `json:"totalValue"`
	Notes                 string    `json:"notes"`
	RelatedInsiderTradeID *int64    `json:"relatedInsiderTradeId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// MyTradeWithPerformance embeds the trade's performance record in the response.
type MyTradeWithPerformance struct {
	MyTrade
	Performance *PerformanceRecord `json:"performance"`
}

// MyTradeFilter holds the validated query parameters for listing personal trades.
type MyTradeFilter struct {
	Ticker    *string
	TradeType *string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}
