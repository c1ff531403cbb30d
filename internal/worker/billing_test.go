package worker

import (
	"context"
	"testing"
	"time"

	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/testutil"
)

func TestRenewalWorker_RunOnce(t *testing.T) {
	repo := testutil.NewMockSubscriptionRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	w := NewRenewalWorker(repo, "0 3 * * *", 30, log)

	ctx := context.Background()
	sub, err := repo.Activate(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	// The opening order is fresh, so the first pass issues nothing.
	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	orders, _ := repo.ListOrders(ctx, sub.ID)
	if len(orders) != 1 {
		t.Fatalf("RunOnce() order count = %d, want 1", len(orders))
	}

	// Age the order past a billing period and run again.
	orders[0].CreatedAt = time.Now().AddDate(0, 0, -31)
	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	orders, _ = repo.ListOrders(ctx, sub.ID)
	if len(orders) != 2 {
		t.Fatalf("RunOnce() order count after aging = %d, want 2", len(orders))
	}
	if orders[1].Paid {
		t.Error("RunOnce() renewal order must start unpaid")
	}

	// The new order resets the clock.
	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	orders, _ = repo.ListOrders(ctx, sub.ID)
	if len(orders) != 2 {
		t.Errorf("RunOnce() order count after fresh renewal = %d, want 2", len(orders))
	}
}

func TestRenewalWorker_SkipsInactive(t *testing.T) {
	repo := testutil.NewMockSubscriptionRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	w := NewRenewalWorker(repo, "0 3 * * *", 30, log)

	ctx := context.Background()
	sub, err := repo.Activate(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	orders, _ := repo.ListOrders(ctx, sub.ID)
	orders[0].CreatedAt = time.Now().AddDate(0, 0, -31)

	if _, err := repo.DeactivateActive(ctx, sub.TeamID); err != nil {
		t.Fatalf("DeactivateActive() error = %v", err)
	}

	if err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	orders, _ = repo.ListOrders(ctx, sub.ID)
	if len(orders) != 1 {
		t.Errorf("RunOnce() issued a renewal for an inactive subscription")
	}
}

func TestRenewalWorker_StartStop(t *testing.T) {
	repo := testutil.NewMockSubscriptionRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	w := NewRenewalWorker(repo, "not a schedule", 30, log)
	if err := w.Start(); err == nil {
		t.Error("Start() expected error for invalid schedule")
	}

	w = NewRenewalWorker(repo, "0 3 * * *", 30, log)
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !w.IsRunning() {
		t.Error("IsRunning() = false after Start()")
	}
	if err := w.Start(); err == nil {
		t.Error("Start() expected error when already running")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if w.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() when stopped error = %v", err)
	}
}
