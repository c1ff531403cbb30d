package services

import (
	"context"
	"testing"

	"github.com/planbill/planbill/internal/domain/plan"
	"github.com/planbill/planbill/internal/domain/team"
	apperrors "github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/testutil"
)

func newSubscriptionFixture(t *testing.T) (*testutil.MockSubscriptionRepository, *testutil.MockTeamRepository, *testutil.MockPlanRepository, *team.Team, *plan.Plan) {
	t.Helper()

	subRepo := testutil.NewMockSubscriptionRepository()
	teamRepo := testutil.NewMockTeamRepository()
	planRepo := testutil.NewMockPlanRepository()

	ctx := context.Background()
	tm := &team.Team{Name: "Acme", UserID: 1}
	if err := teamRepo.Create(ctx, tm); err != nil {
		t.Fatalf("team Create() error = %v", err)
	}
	p := &plan.Plan{Name: "Basic", Price: 100}
	if err := planRepo.Create(ctx, p); err != nil {
		t.Fatalf("plan Create() error = %v", err)
	}

	return subRepo, teamRepo, planRepo, tm, p
}

func TestSubscriptionService_Activate(t *testing.T) {
	subRepo, teamRepo, planRepo, tm, p := newSubscriptionFixture(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewSubscriptionService(subRepo, teamRepo, planRepo, log)

	ctx := context.Background()
	sub, err := service.Activate(ctx, tm.ID, p.ID)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if !sub.IsActive {
		t.Error("Activate() returned inactive subscription")
	}

	// An activation audit row and an unpaid order come with the
	// subscription.
	activations, err := service.Activations(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Activations() error = %v", err)
	}
	if len(activations) != 1 {
		t.Errorf("Activations() count = %d, want 1", len(activations))
	}

	orders, err := service.Orders(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Orders() count = %d, want 1", len(orders))
	}
	if orders[0].Paid {
		t.Error("Orders() opening order must start unpaid")
	}
}

func TestSubscriptionService_Activate_ReplacesActive(t *testing.T) {
	subRepo, teamRepo, planRepo, tm, p := newSubscriptionFixture(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewSubscriptionService(subRepo, teamRepo, planRepo, log)

	ctx := context.Background()
	premium := &plan.Plan{Name: "Premium", Price: 300}
	if err := planRepo.Create(ctx, premium); err != nil {
		t.Fatalf("plan Create() error = %v", err)
	}

	first, err := service.Activate(ctx, tm.ID, p.ID)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	second, err := service.Activate(ctx, tm.ID, premium.ID)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	subs, err := service.ListForTeam(ctx, tm.ID)
	if err != nil {
		t.Fatalf("ListForTeam() error = %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("ListForTeam() count = %d, want 2", len(subs))
	}

	active, err := service.ActiveForTeam(ctx, tm.ID)
	if err != nil {
		t.Fatalf("ActiveForTeam() error = %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("ActiveForTeam() = %d, want %d", active.ID, second.ID)
	}

	// The first subscription must have been deactivated.
	for _, s := range subs {
		if s.ID == first.ID && s.IsActive {
			t.Error("Activate() left the previous subscription active")
		}
	}
}

func TestSubscriptionService_Activate_Validation(t *testing.T) {
	subRepo, teamRepo, planRepo, tm, p := newSubscriptionFixture(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewSubscriptionService(subRepo, teamRepo, planRepo, log)

	tests := []struct {
		name   string
		teamID int64
		planID int64
	}{
		{
			name:   "missing team",
			teamID: 999,
			planID: p.ID,
		},
		{
			name:   "missing plan",
			teamID: tm.ID,
			planID: 999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Activate(context.Background(), tt.teamID, tt.planID)
			if err == nil {
				t.Fatal("Activate() expected error")
			}
			if !apperrors.IsNotFound(err) {
				t.Errorf("Activate() error = %v, want not found", err)
			}
			if len(subRepo.Subscriptions) != 0 {
				t.Error("Activate() must not create a subscription on validation failure")
			}
		})
	}
}

func TestSubscriptionService_Cancel(t *testing.T) {
	subRepo, teamRepo, planRepo, tm, p := newSubscriptionFixture(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewSubscriptionService(subRepo, teamRepo, planRepo, log)

	ctx := context.Background()
	if _, err := service.Activate(ctx, tm.ID, p.ID); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	if err := service.Cancel(ctx, tm.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	if _, err := service.ActiveForTeam(ctx, tm.ID); !apperrors.IsNotFound(err) {
		t.Errorf("ActiveForTeam() after cancel error = %v, want not found", err)
	}

	// Cancelling again has nothing left to deactivate.
	if err := service.Cancel(ctx, tm.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Cancel() without active subscription error = %v, want not found", err)
	}
}

func TestSubscriptionService_PayOrder(t *testing.T) {
	subRepo, teamRepo, planRepo, tm, p := newSubscriptionFixture(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewSubscriptionService(subRepo, teamRepo, planRepo, log)

	ctx := context.Background()
	sub, err := service.Activate(ctx, tm.ID, p.ID)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	orders, err := service.Orders(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	orderID := orders[0].ID

	paid, err := service.PayOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("PayOrder() error = %v", err)
	}
	if !paid.Paid {
		t.Error("PayOrder() returned unpaid order")
	}

	// Paying twice conflicts; the order stays paid.
	_, err = service.PayOrder(ctx, orderID)
	if err == nil {
		t.Fatal("PayOrder() expected conflict on second payment")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrCodeConflict {
		t.Errorf("PayOrder() error = %v, want conflict", err)
	}

	orders, _ = service.Orders(ctx, sub.ID)
	if !orders[0].Paid {
		t.Error("PayOrder() conflict must not revert the paid flag")
	}
}

func TestSubscriptionService_PayOrder_NotFound(t *testing.T) {
	subRepo, teamRepo, planRepo, _, _ := newSubscriptionFixture(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewSubscriptionService(subRepo, teamRepo, planRepo, log)

	_, err := service.PayOrder(context.Background(), 999)
	if !apperrors.IsNotFound(err) {
		t.Errorf("PayOrder() error = %v, want not found", err)
	}
}

func TestSubscriptionService_Orders_MissingSubscription(t *testing.T) {
	subRepo, teamRepo, planRepo, _, _ := newSubscriptionFixture(t)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewSubscriptionService(subRepo, teamRepo, planRepo, log)

	if _, err := service.Orders(context.Background(), 999); !apperrors.IsNotFound(err) {
		t.Errorf("Orders() error = %v, want not found", err)
	}
	if _, err := service.Activations(context.Background(), 999); !apperrors.IsNotFound(err) {
		t.Errorf("Activations() error = %v, want not found", err)
	}
}
