package dto

import "time"

// ActivateSubscriptionRequest represents a subscription activation
// request
type ActivateSubscriptionRequest struct {
	PlanID int64 `json:"planId" validate:"required,gt=0"`
}

// SubscriptionDTO represents a subscription in API responses
type SubscriptionDTO struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"teamId"`
	PlanID    int64     `json:"planId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderDTO represents an order in API responses
type OrderDTO struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscriptionId"`
	Paid           bool      `json:"paid"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ActivationDTO represents an activation audit record in API
// responses
type ActivationDTO struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscriptionId"`
	ActivationDate time.Time `json:"activationDate"`
}
