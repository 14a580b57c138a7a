package request

import (
	"math"
	"strings"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

// ValidMyTradeType contains the allowed personal trade directions.
var ValidMyTradeType = map[string]bool{
	"buy": true, "sell": true,
}

type CreateMyTradeRequest struct {
	Ticker                string  `json:"ticker"`
	TradeType             string  `json:"tradeType"`
	TradeDate             string  `json:"tradeDate"`
	Shares                float64 `json:"shares"`
	Price                 float64 `json:"price"`
	Notes                 string  `json:"notes"`
	RelatedInsiderTradeID *int64  `json:"relatedInsiderTradeId,omitempty"`
}

// Validate checks every field of a personal trade creation request.
//
// Required fields:
//   - ticker: 1-10 characters of letters, digits, '.' or '-'
//   - tradeType: buy or sell
//   - tradeDate: YYYY-MM-DD
//   - shares, price: positive
//
// relatedInsiderTradeId is optional but must be positive when set; its existence
// is checked by the service.
func (r CreateMyTradeRequest) Validate() error {
	var verr validation.Error

	if strings.TrimSpace(r.Ticker) == "" {
		verr.Add("ticker", "ticker is required")
	} else if _, err := validation.NormalizeTicker(r.Ticker); err != nil {
		verr.Add("ticker", err.Error())
	}

	tradeType := strings.ToLower(strings.TrimSpace(r.TradeType))
	if tradeType == "" {
		verr.Add("tradeType", "tradeType is required")
	} else if !ValidMyTradeType[tradeType] {
		verr.Add("tradeType", "invalid type: "+r.TradeType)
	}

	if strings.TrimSpace(r.TradeDate) == "" {
		verr.Add("tradeDate", "tradeDate is required")
	} else if _, err := validation.ParseDate(r.TradeDate); err != nil {
		verr.Add("tradeDate", err.Error())
	}

	if !positive(r.Shares) {
		verr.Add("shares", "shares must be positive")
	}
	if !positive(r.Price) {
		verr.Add("price", "price must be positive")
	}

	if r.RelatedInsiderTradeID != nil && *r.RelatedInsiderTradeID <= 0 {
		verr.Add("relatedInsiderTradeId", "must be a positive ID")
	}

	return verr.OrNil()
}

// UpdateMyTradeRequest lists the editable fields of a personal trade. Nil fields are left unchanged.
type UpdateMyTradeRequest struct {
	Notes     *string  `json:"notes,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Shares    *float64 `json:"shares,omitempty"`
	TradeDate *string  `json:"tradeDate,omitempty"`
}

// Validate applies the create constraints to every provided field.
func (r UpdateMyTradeRequest) Validate() error {
	var verr validation.Error

	if r.Price != nil && !positive(*r.Price) {
		verr.Add("price", "price must be positive")
	}
	if r.Shares != nil && !positive(*r.Shares) {
		verr.Add("shares", "shares must be positive")
	}
	if r.TradeDate != nil {
		if _, err := validation.ParseDate(*r.TradeDate); err != nil {
			verr.Add("tradeDate", err.Error())
		}
	}

	return verr.OrNil()
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
