package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
)

// UpdateScheduler triggers the bulk performance update on a cron schedule.
// A run still in progress when the next tick fires causes that tick to be skipped.
type UpdateScheduler struct {
	cron    *cron.Cron
	updater *PerformanceUpdater
	policy  model.UpdatePolicy
	logger  *logrus.Logger
}

// NewUpdateScheduler registers the updater under spec, a standard five-field cron expression
// or descriptor such as "@daily".
func NewUpdateScheduler(updater *PerformanceUpdater, spec string, policy model.UpdatePolicy, logger *logrus.Logger) (*UpdateScheduler, error) {
	cronLogger := cron.PrintfLogger(logger)
	s := &UpdateScheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		updater: updater,
		policy:  policy,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid update schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running scheduled updates in the background.
func (s *UpdateScheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and returns a context that is done once a running update finishes.
func (s *UpdateScheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *UpdateScheduler) run() {
	entry := logrus.NewEntry(s.logger).WithField("trigger", "schedule")
	ctx := logging.WithLogger(context.Background(), entry)

	if _, err := s.updater.Run(ctx, s.policy); err != nil {
		entry.WithError(err).Error("scheduled performance update failed")
	}
}
