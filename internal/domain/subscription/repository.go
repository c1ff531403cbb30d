package subscription

import (
	"context"
	"time"
)

// Repository defines the interface for subscription data access
type Repository interface {
	// Activate deactivates any active subscription for the team and
	// inserts a new active one, with its activation audit row and an
	// unpaid order, in a single transaction.
	Activate(ctx context.Context, teamID, planID int64) (*Subscription, error)

	// DeactivateActive clears the active flag on the team's active
	// subscription in a single statement. Returns the number of rows
	// changed; zero means the team had no active subscription.
	DeactivateActive(ctx context.Context, teamID int64) (int64, error)

	// GetByID retrieves a subscription by ID
	GetByID(ctx context.Context, id int64) (*Subscription, error)

	// GetActiveByTeam retrieves the team's active subscription
	GetActiveByTeam(ctx context.Context, teamID int64) (*Subscription, error)

	// ListByTeam retrieves all subscriptions for a team, including
	// inactive history
	ListByTeam(ctx context.Context, teamID int64) ([]*Subscription, error)

	// CreateOrder opens a new unpaid order for a subscription
	CreateOrder(ctx context.Context, subscriptionID int64) (*Order, error)

	// GetOrderByID retrieves an order by ID
	GetOrderByID(ctx context.Context, id int64) (*Order, error)

	// MarkOrderPaid marks an unpaid order as paid. Returns the number
	// of rows changed; zero means the order was already paid.
	MarkOrderPaid(ctx context.Context, id int64) (int64, error)

	// ListOrders retrieves all orders for a subscription
	ListOrders(ctx context.Context, subscriptionID int64) ([]*Order, error)

	// ListActivations retrieves the activation audit trail for a
	// subscription
	ListActivations(ctx context.Context, subscriptionID int64) ([]*Activation, error)

	// ListActiveDue retrieves active subscriptions whose most recent
	// order is older than the cutoff
	ListActiveDue(ctx context.Context, cutoff time.Time) ([]*Subscription, error)
}
