package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/planbill/planbill/internal/domain/subscription"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/metrics"
)

// RenewalWorker periodically opens renewal orders for active
// subscriptions whose latest order is older than one billing period.
type RenewalWorker struct {
	repo       subscription.Repository
	schedule   string
	periodDays int
	logger     *logger.Logger

	scheduler    *cron.Cron
	isRunning    bool
	runningMutex sync.RWMutex
}

// NewRenewalWorker creates a new renewal worker
func NewRenewalWorker(repo subscription.Repository, schedule string, periodDays int, log *logger.Logger) *RenewalWorker {
	return &RenewalWorker{
		repo:       repo,
		schedule:   schedule,
		periodDays: periodDays,
		logger:     log,
	}
}

// Start starts the renewal scheduler
func (w *RenewalWorker) Start() error {
	w.runningMutex.Lock()
	defer w.runningMutex.Unlock()

	if w.isRunning {
		return fmt.Errorf("renewal worker is already running")
	}

	if _, err := cron.ParseStandard(w.schedule); err != nil {
		return fmt.Errorf("invalid renewal schedule: %w", err)
	}

	w.scheduler = cron.New()
	if _, err := w.scheduler.AddFunc(w.schedule, func() {
		if err := w.RunOnce(context.Background()); err != nil {
			w.logger.ErrorWithErr(err, "Renewal run failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule renewal run: %w", err)
	}

	w.scheduler.Start()
	w.isRunning = true

	w.logger.WithFields(map[string]interface{}{
		"schedule":    w.schedule,
		"period_days": w.periodDays,
	}).Info("Renewal worker started")

	return nil
}

// Stop stops the renewal scheduler
func (w *RenewalWorker) Stop() error {
	w.runningMutex.Lock()
	defer w.runningMutex.Unlock()

	if !w.isRunning {
		return nil
	}

	w.scheduler.Stop()
	w.isRunning = false

	w.logger.Info("Renewal worker stopped")

	return nil
}

// IsRunning returns whether the scheduler is running
func (w *RenewalWorker) IsRunning() bool {
	w.runningMutex.RLock()
	defer w.runningMutex.RUnlock()
	return w.isRunning
}

// RunOnce performs a single renewal pass. Subscriptions whose most
// recent order predates the cutoff each get a new unpaid order.
func (w *RenewalWorker) RunOnce(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -w.periodDays)

	due, err := w.repo.ListActiveDue(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions due for renewal: %w", err)
	}

	issued := 0
	for _, sub := range due {
		if _, err := w.repo.CreateOrder(ctx, sub.ID); err != nil {
			w.logger.WithFields(map[string]interface{}{
				"subscription_id": sub.ID,
				"team_id":         sub.TeamID,
			}).ErrorWithErr(err, "Failed to open renewal order")
			continue
		}
		metrics.RecordOrderIssued("renewal")
		issued++
	}

	w.logger.WithFields(map[string]interface{}{
		"due":    len(due),
		"issued": issued,
	}).Info("Renewal run completed")

	return nil
}
