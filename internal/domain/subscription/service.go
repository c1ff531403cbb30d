package subscription

import "context"

// Service defines the interface for the subscription lifecycle
type Service interface {
	// Activate subscribes a team to a plan, replacing any currently
	// active subscription
	Activate(ctx context.Context, teamID, planID int64) (*Subscription, error)

	// Cancel deactivates the team's active subscription
	Cancel(ctx context.Context, teamID int64) error

	// Get retrieves a subscription by ID
	Get(ctx context.Context, subscriptionID int64) (*Subscription, error)

	// ActiveForTeam retrieves the team's active subscription
	ActiveForTeam(ctx context.Context, teamID int64) (*Subscription, error)

	// ListForTeam retrieves the team's full subscription history
	ListForTeam(ctx context.Context, teamID int64) ([]*Subscription, error)

	// Orders retrieves all orders for a subscription
	Orders(ctx context.Context, subscriptionID int64) ([]*Order, error)

	// PayOrder marks an order as paid. Paying an already-paid order
	// fails with Conflict.
	PayOrder(ctx context.Context, orderID int64) (*Order, error)

	// Activations retrieves the activation audit trail
	Activations(ctx context.Context, subscriptionID int64) ([]*Activation, error)
}
