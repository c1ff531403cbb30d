package team

import "context"

// Repository defines the interface for team data access
type Repository interface {
	// Create creates a new team
	Create(ctx context.Context, team *Team) error

	// GetByID retrieves a team by ID
	GetByID(ctx context.Context, id int64) (*Team, error)

	// GetPersonal retrieves a user's personal team
	GetPersonal(ctx context.Context, userID int64) (*Team, error)

	// ListByUser retrieves all teams owned by a user
	ListByUser(ctx context.Context, userID int64) ([]*Team, error)

	// Delete removes a team. The store rejects the delete while
	// subscriptions still reference the team.
	Delete(ctx context.Context, id int64) error
}
