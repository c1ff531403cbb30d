package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Register creates a new user with a hashed password and their
	// personal team
	Register(ctx context.Context, email, password, name, locale string, timezone *string) (*User, error)

	// Authenticate verifies email/password credentials
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// IsAdmin reports whether the user holds administrator privileges.
	// A missing user is "not admin", never an error.
	IsAdmin(ctx context.Context, userID int64) bool
}
