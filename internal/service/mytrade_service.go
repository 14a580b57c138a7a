package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/validation"
)

// MyTradeService handles the user's own trade log and keeps each trade's
// performance record in step with it.
type MyTradeService struct {
	db              *sql.DB
	myTradeRepo     *repository.MyTradeRepository
	insiderRepo     *repository.InsiderTradeRepository
	performanceRepo *repository.PerformanceRepository
	now             func() time.Time
}

// NewMyTradeService creates a new MyTradeService with the provided repository dependencies.
func NewMyTradeService(
	db *sql.DB,
	myTradeRepo *repository.MyTradeRepository,
	insiderRepo *repository.InsiderTradeRepository,
	performanceRepo *repository.PerformanceRepository,
) *MyTradeService {
	return &MyTradeService{
		db:              db,
		myTradeRepo:     myTradeRepo,
		insiderRepo:     insiderRepo,
		performanceRepo: performanceRepo,
		now:             time.Now,
	}
}

// ListMyTrades returns one page of personal trades matching filter.
func (s *MyTradeService) ListMyTrades(ctx context.Context, filter model.MyTradeFilter) ([]model.MyTrade, error) {
	return s.myTradeRepo.List(ctx, filter)
}

// GetMyTrade returns a personal trade together with its performance record.
// The performance field is nil for trades that have none.
func (s *MyTradeService) GetMyTrade(ctx context.Context, id int64) (model.MyTradeWithPerformance, error) {
	trade, err := s.myTradeRepo.GetMyTrade(ctx, id)
	if err != nil {
		return model.MyTradeWithPerformance{}, err
	}

	result := model.MyTradeWithPerformance{MyTrade: trade}
	perf, err := s.performanceRepo.GetByMyTradeID(ctx, id)
	switch {
	case err == nil:
		result.Performance = &perf
	case errors.Is(err, apperrors.ErrPerformanceNotFound):
	default:
		return model.MyTradeWithPerformance{}, err
	}
	return result, nil
}

// CreateMyTrade stores a personal trade and its empty performance record in one transaction.
// The entry price of the performance record is the trade price.
//
// Returns apperrors.ErrRelatedInsiderTradeNotFound when the request references an
// insider trade that does not exist.
func (s *MyTradeService) CreateMyTrade(ctx context.Context, req request.CreateMyTradeRequest) (model.MyTrade, error) {
	ticker, err := validation.NormalizeTicker(req.Ticker)
	if err != nil {
		return model.MyTrade{}, err
	}
	tradeDate, err := validation.ParseDate(req.TradeDate)
	if err != nil {
		return model.MyTrade{}, err
	}

	now := s.now().UTC()
	trade := model.MyTrade{
		Ticker:                ticker,
		TradeType:             strings.ToLower(strings.TrimSpace(req.TradeType)),
		TradeDate:             tradeDate,
		Shares:                req.Shares,
		Price:                 req.Price,
		TotalValue:            multiply(req.Shares, req.Price),
		Notes:                 req.Notes,
		RelatedInsiderTradeID: req.RelatedInsiderTradeID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if trade.RelatedInsiderTradeID != nil {
			exists, err := s.insiderRepo.WithTx(tx).Exists(ctx, *trade.RelatedInsiderTradeID)
			if err != nil {
				return err
			}
			if !exists {
				return apperrors.ErrRelatedInsiderTradeNotFound
			}
		}

		if err := s.myTradeRepo.WithTx(tx).InsertMyTrade(ctx, &trade); err != nil {
			return err
		}

		entry := trade.Price
		perf := model.PerformanceRecord{
			MyTradeID:    trade.ID,
			Ticker:       trade.Ticker,
			TradeDate:    trade.TradeDate,
			PriceAtTrade: &entry,
			UpdatedAt:    now,
		}
		return s.performanceRepo.WithTx(tx).InsertPerformance(ctx, &perf)
	})
	if err != nil {
		return model.MyTrade{}, fmt.Errorf("failed to create trade: %w", err)
	}

	return trade, nil
}

// UpdateMyTrade applies the provided fields of req to the trade.
//
// A new price becomes the entry price of the performance record and every return is
// recomputed. A new trade date invalidates the stored snapshots, which are cleared so
// the next bulk update fetches them again.
func (s *MyTradeService) UpdateMyTrade(ctx context.Context, id int64, req request.UpdateMyTradeRequest) (model.MyTrade, error) {
	var trade model.MyTrade

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		myTradeRepo := s.myTradeRepo.WithTx(tx)
		performanceRepo := s.performanceRepo.WithTx(tx)

		var err error
		trade, err = myTradeRepo.GetMyTrade(ctx, id)
		if err != nil {
			return err
		}

		dateChanged := false
		priceChanged := false
		if req.Notes != nil {
			trade.Notes = *req.Notes
		}
		if req.Shares != nil {
			trade.Shares = *req.Shares
		}
		if req.Price != nil && *req.Price != trade.Price {
			trade.Price = *req.Price
			priceChanged = true
		}
		if req.TradeDate != nil {
			d, err := validation.ParseDate(*req.TradeDate)
			if err != nil {
				return err
			}
			dateChanged = !d.Equal(trade.TradeDate)
			trade.TradeDate = d
		}
		trade.TotalValue = multiply(trade.Shares, trade.Price)
		trade.UpdatedAt = s.now().UTC()

		if err := myTradeRepo.UpdateMyTrade(ctx, &trade); err != nil {
			return err
		}

		if !priceChanged && !dateChanged {
			return nil
		}

		perf, err := performanceRepo.GetByMyTradeID(ctx, id)
		if errors.Is(err, apperrors.ErrPerformanceNotFound) {
			entry := trade.Price
			perf = model.PerformanceRecord{MyTradeID: id, Ticker: trade.Ticker, TradeDate: trade.TradeDate, PriceAtTrade: &entry, UpdatedAt: trade.UpdatedAt}
			return performanceRepo.InsertPerformance(ctx, &perf)
		}
		if err != nil {
			return err
		}

		entry := trade.Price
		perf.PriceAtTrade = &entry
		if dateChanged {
			perf.ClearSnapshots()
		}
		recomputeReturns(&perf)
		perf.UpdatedAt = trade.UpdatedAt
		return performanceRepo.UpdatePerformance(ctx, &perf)
	})
	if err != nil {
		return model.MyTrade{}, fmt.Errorf("failed to update trade: %w", err)
	}

	return trade, nil
}

// DeleteMyTrade removes a personal trade; its performance record goes with it.
func (s *MyTradeService) DeleteMyTrade(ctx context.Context, id int64) error {
	if err := s.myTradeRepo.DeleteMyTrade(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return nil
}
