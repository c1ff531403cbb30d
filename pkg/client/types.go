package client

import "time"

// User represents a user account
type User struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	EmailVerified bool    `json:"emailVerified"`
	IsAdmin       bool    `json:"isAdmin"`
	Locale        string  `json:"locale"`
	Timezone      *string `json:"timezone,omitempty"`
}

// Plan represents a subscription plan
type Plan struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Team represents a billing tenant
type Team struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	IsPersonal bool      `json:"isPersonal"`
	UserID     int64     `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Subscription binds a team to a plan
type Subscription struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"teamId"`
	PlanID    int64     `json:"planId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Order is a billing charge for a subscription
type Order struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscriptionId"`
	Paid           bool      `json:"paid"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Activation is an activation audit record
type Activation struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscriptionId"`
	ActivationDate time.Time `json:"activationDate"`
}
