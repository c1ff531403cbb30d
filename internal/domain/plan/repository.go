package plan

import "context"

// Repository defines the interface for plan data access
type Repository interface {
	// Create creates a new plan
	Create(ctx context.Context, plan *Plan) error

	// GetByID retrieves a plan by ID
	GetByID(ctx context.Context, id int64) (*Plan, error)

	// Update overwrites name and price for an existing plan
	Update(ctx context.Context, plan *Plan) error

	// List retrieves all plans with pagination
	List(ctx context.Context, limit, offset int) ([]*Plan, int64, error)
}
