package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
)

// PerformanceUpdater refreshes snapshot prices for every personal trade.
//
// A horizon is due once its target date is on or before yesterday (UTC), and
// satisfied once its snapshot is stored. Policy incomplete only fetches due horizons
// that are not yet satisfied; policy all refetches every due horizon.
//
// Items are independent: each one is committed on its own and a failing item never
// aborts the batch. When the run's deadline passes, items that have not started are
// reported as skipped with reason deadline_exceeded.
type PerformanceUpdater struct {
	performanceRepo *repository.PerformanceRepository
	priceService    *PriceService
	concurrency     int
	timeout         time.Duration
	now             func() time.Time
}

// NewPerformanceUpdater creates a new PerformanceUpdater. concurrency below one runs items sequentially;
// a zero timeout leaves the run bounded only by the caller's context.
func NewPerformanceUpdater(
	performanceRepo *repository.PerformanceRepository,
	priceService *PriceService,
	concurrency int,
	timeout time.Duration,
) *PerformanceUpdater {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PerformanceUpdater{
		performanceRepo: performanceRepo,
		priceService:    priceService,
		concurrency:     concurrency,
		timeout:         timeout,
		now:             time.Now,
	}
}

// Run processes every performance record under policy and returns the batch summary.
// Only a failure to load the records fails the run as a whole.
func (u *PerformanceUpdater) Run(ctx context.Context, policy model.UpdatePolicy) (model.PerformanceUpdateSummary, error) {
	summary := model.PerformanceUpdateSummary{
		RunID:     uuid.New().String(),
		Policy:    policy,
		StartedAt: u.now().UTC(),
		Reasons:   map[model.UpdateReason]int{},
	}
	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"run_id": summary.RunID,
		"policy": policy,
	})

	records, err := u.performanceRepo.All(ctx)
	if err != nil {
		return summary, err
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	asOf := truncateDay(u.now()).AddDate(0, 0, -1)
	items := make([]model.PerformanceUpdateItem, len(records))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i := range records {
		g.Go(func() error {
			items[i] = u.updateOne(ctx, &records[i], policy, asOf)
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range items {
		switch item.Outcome {
		case model.OutcomeUpdated:
			summary.Updated++
		case model.OutcomeSkipped:
			summary.Skipped++
		case model.OutcomeFailed:
			summary.Failed++
			log.WithFields(logrus.Fields{
				"my_trade_id": item.MyTradeID,
				"ticker":      item.Ticker,
				"reason":      item.Reason,
			}).Warn("performance update failed: " + item.Error)
		}
		if item.Reason != "" {
			summary.Reasons[item.Reason]++
		}
	}
	summary.Items = items
	summary.FinishedAt = u.now().UTC()

	log.WithFields(logrus.Fields{
		"updated": summary.Updated,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	}).Info("performance update finished")

	return summary, nil
}

// dueHorizons returns the horizons of p to fetch under policy, and whether every
// horizon already has a snapshot.
func dueHorizons(p *model.PerformanceRecord, policy model.UpdatePolicy, asOf time.Time) (due []model.Horizon, complete bool) {
	complete = true
	for _, h := range model.Horizons {
		satisfied := p.Snapshot(h) != nil
		if !satisfied {
			complete = false
		}
		if h.TargetDate(p.TradeDate).After(asOf) {
			continue
		}
		if policy == model.UpdatePolicyAll || !satisfied {
			due = append(due, h)
		}
	}
	return due, complete
}

func (u *PerformanceUpdater) updateOne(ctx context.Context, p *model.PerformanceRecord, policy model.UpdatePolicy, asOf time.Time) model.PerformanceUpdateItem {
	item := model.PerformanceUpdateItem{MyTradeID: p.MyTradeID, Ticker: p.Ticker}

	if ctx.Err() != nil {
		item.Outcome = model.OutcomeSkipped
		item.Reason = model.ReasonDeadlineExceeded
		return item
	}

	due, complete := dueHorizons(p, policy, asOf)
	if len(due) == 0 {
		item.Outcome = model.OutcomeSkipped
		item.Reason = model.ReasonNotDue
		if complete {
			item.Reason = model.ReasonAlreadySnapshotted
		}
		return item
	}

	from := due[0].TargetDate(p.TradeDate)
	to := due[len(due)-1].TargetDate(p.TradeDate).AddDate(0, 0, closeTolerance)
	if to.After(asOf) {
		to = asOf
	}

	closes, err := u.priceService.DailyCloses(ctx, p.Ticker, from.AddDate(0, 0, -closeTolerance), to)
	if err != nil {
		return failItem(ctx, item, err)
	}

	for _, h := range due {
		if v, ok := closes.NearestClose(h.TargetDate(p.TradeDate)); ok {
			price := round2(v)
			p.SetSnapshot(h, &price)
			item.Horizons = append(item.Horizons, h)
		}
	}
	if len(item.Horizons) == 0 {
		item.Outcome = model.OutcomeFailed
		item.Reason = model.ReasonNoPriceData
		item.Error = apperrors.ErrNoPriceData.Error()
		return item
	}

	recomputeReturns(p)
	p.UpdatedAt = u.now().UTC()
	if err := u.performanceRepo.UpdatePerformance(ctx, p); err != nil {
		item.Horizons = nil
		return failItem(ctx, item, err)
	}

	item.Outcome = model.OutcomeUpdated
	return item
}

// failItem classifies err into the item's outcome and reason.
func failItem(ctx context.Context, item model.PerformanceUpdateItem, err error) model.PerformanceUpdateItem {
	item.Error = err.Error()
	item.Outcome = model.OutcomeFailed

	switch {
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		item.Reason = model.ReasonUpstreamUnavailable
	case errors.Is(err, apperrors.ErrNoPriceData):
		item.Reason = model.ReasonNoPriceData
	case ctx.Err() != nil, errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		item.Outcome = model.OutcomeSkipped
		item.Reason = model.ReasonDeadlineExceeded
		item.Error = ""
	default:
		item.Reason = model.ReasonStorageError
	}
	return item
}
