package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
)

// PortfolioService derives the user's positions from their trade log.
type PortfolioService struct {
	myTradeRepo  *repository.MyTradeRepository
	priceService *PriceService
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	myTradeRepo *repository.MyTradeRepository,
	priceService *PriceService,
) *PortfolioService {
	return &PortfolioService{
		myTradeRepo:  myTradeRepo,
		priceService: priceService,
	}
}

// holding accumulates one ticker's trades in trade-date order.
type holding struct {
	shares        decimal.Decimal
	costBasis     decimal.Decimal
	realized      decimal.Decimal
	tradeCount    int
	firstBuyDate  *time.Time
	lastTradeDate *time.Time
}

// GetPortfolio computes the current position per ticker using average-cost accounting.
//
// Trades are replayed oldest first:
//   - A buy adds its shares and shares*price to the cost basis.
//   - A sell realises (price - average cost) on the sold shares and removes their
//     average cost from the basis. Selling more than is held only sells what is held.
//
// Market values come from the latest cached close and never trigger an upstream fetch.
// Open positions are listed first by ticker, followed by closed positions by ticker.
//
// Example:
//
//	buy 10 @ 100, buy 10 @ 120, sell 5 @ 130
//	→ shares 15, avg cost 110.00, cost basis 1650.00, realized 100.00
func (s *PortfolioService) GetPortfolio(ctx context.Context) (model.Portfolio, error) {
	trades, err := s.myTradeRepo.AllByTradeDate(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}

	holdings := map[string]*holding{}
	for _, t := range trades {
		h, ok := holdings[t.Ticker]
		if !ok {
			h = &holding{}
			holdings[t.Ticker] = h
		}
		applyTrade(h, t)
	}

	portfolio := model.Portfolio{Positions: make([]model.Position, 0, len(holdings))}
	totalValue, totalCost, totalRealized := decimal.Zero, decimal.Zero, decimal.Zero

	for ticker, h := range holdings {
		pos, err := s.buildPosition(ctx, ticker, h)
		if err != nil {
			return model.Portfolio{}, err
		}
		portfolio.Positions = append(portfolio.Positions, pos)

		totalRealized = totalRealized.Add(h.realized)
		if pos.IsOpen {
			portfolio.Summary.OpenPositions++
			if pos.CurrentValue != nil {
				totalCost = totalCost.Add(h.costBasis)
				totalValue = totalValue.Add(decimal.NewFromFloat(*pos.CurrentValue))
			}
		} else {
			portfolio.Summary.ClosedPositions++
		}
	}

	slices.SortFunc(portfolio.Positions, func(a, b model.Position) int {
		if a.IsOpen != b.IsOpen {
			if a.IsOpen {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})

	unrealized := totalValue.Sub(totalCost)
	portfolio.Summary.TotalValue = toFloat(totalValue)
	portfolio.Summary.TotalCostBasis = toFloat(totalCost)
	portfolio.Summary.TotalUnrealizedPnL = toFloat(unrealized)
	portfolio.Summary.TotalRealizedPnL = toFloat(totalRealized)
	portfolio.Summary.TotalPnL = toFloat(unrealized.Add(totalRealized))
	if totalCost.IsPositive() {
		portfolio.Summary.TotalUnrealizedPct = toFloat(unrealized.Div(totalCost).Mul(hundred))
	}

	return portfolio, nil
}

func applyTrade(h *holding, t model.MyTrade) {
	shares := decimal.NewFromFloat(t.Shares)
	price := decimal.NewFromFloat(t.Price)
	date := t.TradeDate

	h.tradeCount++
	h.lastTradeDate = &date

	switch t.TradeType {
	case model.MyTradeTypeBuy:
		h.shares = h.shares.Add(shares)
		h.costBasis = h.costBasis.Add(shares.Mul(price))
		if h.firstBuyDate == nil {
			h.firstBuyDate = &date
		}
	case model.MyTradeTypeSell:
		if !h.shares.IsPositive() {
			return
		}
		avgCost := h.costBasis.Div(h.shares)
		sold := decimal.Min(shares, h.shares)
		h.realized = h.realized.Add(sold.Mul(price.Sub(avgCost)))
		h.costBasis = h.costBasis.Sub(sold.Mul(avgCost))
		h.shares = h.shares.Sub(sold)
		if !h.shares.IsPositive() {
			h.shares = decimal.Zero
			h.costBasis = decimal.Zero
		}
	}
}

func (s *PortfolioService) buildPosition(ctx context.Context, ticker string, h *holding) (model.Position, error) {
	pos := model.Position{
		Ticker:        ticker,
		Shares:        h.shares.Round(6).InexactFloat64(),
		CostBasis:     toFloat(h.costBasis),
		RealizedPnL:   toFloat(h.realized),
		TradeCount:    h.tradeCount,
		FirstBuyDate:  h.firstBuyDate,
		LastTradeDate: h.lastTradeDate,
		IsOpen:        h.shares.IsPositive(),
	}
	if pos.IsOpen {
		pos.AvgCost = toFloat(h.costBasis.Div(h.shares))
	}

	latest, ok, err := s.priceService.LatestClose(ctx, ticker)
	if err != nil {
		return model.Position{}, err
	}

	unrealized := decimal.Zero
	if ok {
		price := latest.Close
		date := latest.Date
		pos.CurrentPrice = &price
		pos.PriceDate = &date

		if pos.IsOpen {
			value := h.shares.Mul(decimal.NewFromFloat(price))
			unrealized = value.Sub(h.costBasis)
			v, u := toFloat(value), toFloat(unrealized)
			pos.CurrentValue = &v
			pos.UnrealizedPnL = &u
			if h.costBasis.IsPositive() {
				pct := toFloat(unrealized.Div(h.costBasis).Mul(hundred))
				pos.UnrealizedPct = &pct
			}
		}
	}
	pos.TotalPnL = toFloat(unrealized.Add(h.realized))

	return pos, nil
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
