package client

import (
	"context"
	"fmt"
)

// TeamService handles team and team subscription operations
type TeamService struct {
	client *Client
}

// CreateTeamRequest represents a team creation request
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// ActivateSubscriptionRequest represents an activation request
type ActivateSubscriptionRequest struct {
	PlanID int64 `json:"planId"`
}

// List retrieves the caller's teams
func (s *TeamService) List(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := s.client.doRequest(ctx, "GET", "/api/v1/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Get retrieves a team by ID
func (s *TeamService) Get(ctx context.Context, id int64) (*Team, error) {
	var team Team
	path := fmt.Sprintf("/api/v1/teams/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Create creates a new team
func (s *TeamService) Create(ctx context.Context, req CreateTeamRequest) (*Team, error) {
	var team Team
	if err := s.client.doRequest(ctx, "POST", "/api/v1/teams", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Delete removes a team
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/v1/teams/%d", id)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}

// ActivateSubscription subscribes a team to a plan
func (s *TeamService) ActivateSubscription(ctx context.Context, teamID, planID int64) (*Subscription, error) {
	req := ActivateSubscriptionRequest{PlanID: planID}

	var sub Subscription
	path := fmt.Sprintf("/api/v1/teams/%d/subscriptions", teamID)
	if err := s.client.doRequest(ctx, "POST", path, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription deactivates the team's active subscription
func (s *TeamService) CancelSubscription(ctx context.Context, teamID int64) error {
	path := fmt.Sprintf("/api/v1/teams/%d/subscriptions", teamID)
	return s.client.doRequest(ctx, "DELETE", path, nil, nil)
}

// ListSubscriptions retrieves the team's subscription history
func (s *TeamService) ListSubscriptions(ctx context.Context, teamID int64) ([]Subscription, error) {
	var subs []Subscription
	path := fmt.Sprintf("/api/v1/teams/%d/subscriptions", teamID)
	if err := s.client.doRequest(ctx, "GET", path, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ActiveSubscription retrieves the team's active subscription
func (s *TeamService) ActiveSubscription(ctx context.Context, teamID int64) (*Subscription, error) {
	var sub Subscription
	path := fmt.Sprintf("/api/v1/teams/%d/subscriptions/active", teamID)
	if err := s.client.doRequest(ctx, "GET", path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// SubscriptionService handles subscription detail operations
type SubscriptionService struct {
	client *Client
}

// Orders retrieves all orders for a subscription
func (s *SubscriptionService) Orders(ctx context.Context, subscriptionID int64) ([]Order, error) {
	var orders []Order
	path := fmt.Sprintf("/api/v1/subscriptions/%d/orders", subscriptionID)
	if err := s.client.doRequest(ctx, "GET", path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Activations retrieves the activation audit trail
func (s *SubscriptionService) Activations(ctx context.Context, subscriptionID int64) ([]Activation, error) {
	var activations []Activation
	path := fmt.Sprintf("/api/v1/subscriptions/%d/activations", subscriptionID)
	if err := s.client.doRequest(ctx, "GET", path, nil, &activations); err != nil {
		return nil, err
	}
	return activations, nil
}

// PayOrder marks an order as paid. Requires admin privileges.
func (s *SubscriptionService) PayOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	path := fmt.Sprintf("/api/v1/orders/%d/pay", orderID)
	if err := s.client.doRequest(ctx, "POST", path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
