package subscription

import "time"

// Subscription binds a team to a plan. At most one subscription per
// team is active at a time; Activate enforces this transactionally.
type Subscription struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	PlanID    int64     `json:"plan_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order is a billing charge for a subscription. Paid transitions
// false to true exactly once and never reverses.
type Order struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscription_id"`
	Paid           bool      `json:"paid"`
	CreatedAt      time.Time `json:"created_at"`
}

// Activation is an append-only audit record written each time a
// subscription becomes active.
type Activation struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscription_id"`
	ActivationDate time.Time `json:"activation_date"`
}

// Order sources reported in metrics
const (
	OrderSourceActivation = "activation"
	OrderSourceRenewal    = "renewal"
)
