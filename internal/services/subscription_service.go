package services

import (
	"context"

	"github.com/planbill/planbill/internal/domain/plan"
	"github.com/planbill/planbill/internal/domain/subscription"
	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/metrics"
)

// SubscriptionService implements subscription.Service
type SubscriptionService struct {
	repo   subscription.Repository
	teams  team.Repository
	plans  plan.Repository
	logger *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	repo subscription.Repository,
	teams team.Repository,
	plans plan.Repository,
	log *logger.Logger,
) subscription.Service {
	return &SubscriptionService{
		repo:   repo,
		teams:  teams,
		plans:  plans,
		logger: log,
	}
}

// Activate subscribes a team to a plan, replacing any currently
// active subscription. The repository performs the deactivate/insert
// pair, the activation audit row and the opening order in one
// transaction.
func (s *SubscriptionService) Activate(ctx context.Context, teamID, planID int64) (*subscription.Subscription, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	if _, err := s.plans.GetByID(ctx, planID); err != nil {
		return nil, err
	}

	sub, err := s.repo.Activate(ctx, teamID, planID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to activate subscription")
		return nil, err
	}

	metrics.RecordActivation()
	metrics.RecordOrderIssued(subscription.OrderSourceActivation)
	s.logger.WithFields(map[string]interface{}{
		"subscription_id": sub.ID,
		"team_id":         teamID,
		"plan_id":         planID,
	}).Info("Subscription activated")

	return sub, nil
}

// Cancel deactivates the team's active subscription. The repository
// does it in one statement, so a cancel cannot silently undo an
// activation that raced in between a read and a write.
func (s *SubscriptionService) Cancel(ctx context.Context, teamID int64) error {
	rows, err := s.repo.DeactivateActive(ctx, teamID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to cancel subscription")
		return err
	}
	if rows == 0 {
		return errors.NotFound("Active subscription")
	}

	s.logger.WithFields(map[string]interface{}{
		"team_id": teamID,
	}).Info("Subscription cancelled")

	return nil
}

// Get retrieves a subscription by ID
func (s *SubscriptionService) Get(ctx context.Context, subscriptionID int64) (*subscription.Subscription, error) {
	return s.repo.GetByID(ctx, subscriptionID)
}

// ActiveForTeam retrieves the team's active subscription
func (s *SubscriptionService) ActiveForTeam(ctx context.Context, teamID int64) (*subscription.Subscription, error) {
	return s.repo.GetActiveByTeam(ctx, teamID)
}

// ListForTeam retrieves the team's full subscription history
func (s *SubscriptionService) ListForTeam(ctx context.Context, teamID int64) ([]*subscription.Subscription, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListByTeam(ctx, teamID)
}

// Orders retrieves all orders for a subscription
func (s *SubscriptionService) Orders(ctx context.Context, subscriptionID int64) ([]*subscription.Order, error) {
	if _, err := s.repo.GetByID(ctx, subscriptionID); err != nil {
		return nil, err
	}
	return s.repo.ListOrders(ctx, subscriptionID)
}

// PayOrder marks an order as paid. The paid flag moves false to true
// exactly once; paying an already-paid order fails with Conflict.
func (s *SubscriptionService) PayOrder(ctx context.Context, orderID int64) (*subscription.Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Paid {
		return nil, errors.Conflict("Order is already paid")
	}

	rows, err := s.repo.MarkOrderPaid(ctx, orderID)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to mark order paid")
		return nil, err
	}
	if rows == 0 {
		// Lost the race with another payer.
		return nil, errors.Conflict("Order is already paid")
	}

	o.Paid = true
	s.logger.WithFields(map[string]interface{}{
		"order_id":        o.ID,
		"subscription_id": o.SubscriptionID,
	}).Info("Order paid")

	return o, nil
}

// Activations retrieves the activation audit trail
func (s *SubscriptionService) Activations(ctx context.Context, subscriptionID int64) ([]*subscription.Activation, error) {
	if _, err := s.repo.GetByID(ctx, subscriptionID); err != nil {
		return nil, err
	}
	return s.repo.ListActivations(ctx, subscriptionID)
}
