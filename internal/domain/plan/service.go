package plan

import "context"

// Service defines the interface for the plan registry and the
// proration calculator
type Service interface {
	// Create inserts a new plan. Duplicate names are permitted.
	Create(ctx context.Context, name string, price int64) (*Plan, error)

	// Update overwrites name and price unconditionally. Fails with
	// NotFound if the plan does not exist. Concurrent updates race at
	// the store and the last write wins.
	Update(ctx context.Context, id int64, name string, price int64) (*Plan, error)

	// Get retrieves a plan. Fails with NotFound if absent.
	Get(ctx context.Context, id int64) (*Plan, error)

	// List retrieves plans with pagination
	List(ctx context.Context, limit, offset int) ([]*Plan, int64, error)

	// ProratedUpgradePrice computes the cost of moving a team from a
	// cheaper plan to a more expensive one with daysRemaining left in
	// the billing period. Pure computation, no persisted side effect.
	ProratedUpgradePrice(ctx context.Context, currentPlanID, newPlanID int64, daysRemaining int) (float64, error)
}
