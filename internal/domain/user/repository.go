package user

import (
	"context"

	"github.com/planbill/planbill/internal/domain/team"
)

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// CreateWithPersonalTeam creates the user and their personal team
	// in a single transaction, so a failed team insert never leaves a
	// user without one.
	CreateWithPersonalTeam(ctx context.Context, user *User, personal *team.Team) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates a user
	Update(ctx context.Context, user *User) error

	// SetAdmin flips the admin flag for a user
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error

	// List retrieves all users with pagination
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
}
