package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/planbill/planbill/internal/domain/plan"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/metrics"
)

// billingPeriodDays is the fixed billing period assumed by the
// proration calculation, regardless of the actual month length.
const billingPeriodDays = 30

// PlanService implements plan.Service
type PlanService struct {
	repo   plan.Repository
	logger *logger.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(repo plan.Repository, log *logger.Logger) plan.Service {
	return &PlanService{
		repo:   repo,
		logger: log,
	}
}

// Create inserts a new plan. Duplicate names are permitted.
func (s *PlanService) Create(ctx context.Context, name string, price int64) (*plan.Plan, error) {
	if price < 0 {
		return nil, errors.BadRequest("Price must not be negative")
	}

	p := &plan.Plan{Name: name, Price: price}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create plan")
		return nil, err
	}

	metrics.RecordPlanMutation("create")
	s.logger.WithFields(map[string]interface{}{
		"plan_id": p.ID,
		"name":    p.Name,
		"price":   p.Price,
	}).Info("Plan created")

	return p, nil
}

// Update overwrites name and price unconditionally. Fails with
// NotFound if the plan does not exist.
func (s *PlanService) Update(ctx context.Context, id int64, name string, price int64) (*plan.Plan, error) {
	if price < 0 {
		return nil, errors.BadRequest("Price must not be negative")
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	p := &plan.Plan{ID: id, Name: name, Price: price}
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update plan")
		return nil, err
	}

	metrics.RecordPlanMutation("update")
	s.logger.WithFields(map[string]interface{}{
		"plan_id": p.ID,
		"name":    p.Name,
		"price":   p.Price,
	}).Info("Plan updated")

	return p, nil
}

// Get retrieves a plan
func (s *PlanService) Get(ctx context.Context, id int64) (*plan.Plan, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves plans with pagination
func (s *PlanService) List(ctx context.Context, limit, offset int) ([]*plan.Plan, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

// ProratedUpgradePrice computes the cost of moving from a cheaper
// plan to a more expensive one with daysRemaining left in the billing
// period. The two plan lookups are independent reads and run
// concurrently. The daily rate stays an unrounded float; callers
// decide how to present it.
func (s *PlanService) ProratedUpgradePrice(ctx context.Context, currentPlanID, newPlanID int64, daysRemaining int) (float64, error) {
	if daysRemaining < 0 {
		metrics.RecordProration("rejected")
		return 0, errors.BadRequest("Remaining days should not be negative")
	}

	var currentPlan, newPlan *plan.Plan

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.GetByID(gctx, currentPlanID)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
		currentPlan = p
		return nil
	})
	g.Go(func() error {
		p, err := s.repo.GetByID(gctx, newPlanID)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
		newPlan = p
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.RecordProration("error")
		s.logger.ErrorWithErr(err, "Failed to load plans for proration")
		return 0, err
	}

	// A missing plan here is bad input to validate, not a failed
	// lookup target, hence BadRequest rather than NotFound.
	if currentPlan == nil || newPlan == nil {
		metrics.RecordProration("rejected")
		return 0, errors.BadRequest("Invalid plan IDs")
	}

	if newPlan.Price <= currentPlan.Price {
		metrics.RecordProration("rejected")
		return 0, errors.BadRequest("New plan price must be greater than current plan price for an upgrade")
	}

	dailyRate := float64(newPlan.Price-currentPlan.Price) / billingPeriodDays
	proratedPrice := dailyRate * float64(daysRemaining)

	metrics.RecordProration("ok")
	return proratedPrice, nil
}
