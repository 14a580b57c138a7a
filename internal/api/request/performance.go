package request

import (
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

// UpdatePerformanceRequest carries manually captured snapshot prices.
// Omitted horizons keep their stored snapshot.
type UpdatePerformanceRequest struct {
	Price1W *float64 `json:"price1w,omitempty"`
	Price2W *float64 `json:"price2w,omitempty"`
	Price1M *float64 `json:"price1m,omitempty"`
	Price3M *float64 `json:"price3m,omitempty"`
	Price6M *float64 `json:"price6m,omitempty"`
	Price1Y *float64 `json:"price1y,omitempty"`
}

// Snapshots returns the provided prices keyed by horizon.
func (r UpdatePerformanceRequest) Snapshots() map[model.Horizon]*float64 {
	out := make(map[model.Horizon]*float64)
	for h, v := range map[model.Horizon]*float64{
		model.Horizon1W: r.Price1W,
		model.Horizon2W: r.Price2W,
		model.Horizon1M: r.Price1M,
		model.Horizon3M: r.Price3M,
		model.Horizon6M: r.Price6M,
		model.Horizon1Y: r.Price1Y,
	} {
		if v != nil {
			out[h] = v
		}
	}
	return out
}

// Validate requires at least one price and every provided price to be positive.
func (r UpdatePerformanceRequest) Validate() error {
	var verr validation.Error

	snapshots := r.Snapshots()
	if len(snapshots) == 0 {
		verr.Add("body", "at least one snapshot price is required")
	}
	for h, v := range snapshots {
		if !positive(*v) {
			verr.Add("price"+string(h), "price must be positive")
		}
	}

	return verr.OrNil()
}
