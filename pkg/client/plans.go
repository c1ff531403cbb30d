package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// PlanService handles plan operations
type PlanService struct {
	client *Client
}

// CreatePlanRequest represents a plan creation request
type CreatePlanRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// UpdatePlanRequest represents a plan update request
type UpdatePlanRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ProrationResult holds a prorated upgrade price
type ProrationResult struct {
	ProratedPrice float64 `json:"proratedPrice"`
}

// List retrieves all plans
func (s *PlanService) List(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := s.client.doRequest(ctx, "GET", "/api/v1/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Get retrieves a plan by ID
func (s *PlanService) Get(ctx context.Context, id int64) (*Plan, error) {
	var plan Plan
	path := fmt.Sprintf("/api/v1/plans/%d", id)
	if err := s.client.doRequest(ctx, "GET", path, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create creates a new plan. Requires admin privileges.
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	var plan Plan
	if err := s.client.doRequest(ctx, "POST", "/api/v1/plans", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update overwrites a plan's name and price. Requires admin
// privileges.
func (s *PlanService) Update(ctx context.Context, id int64, req UpdatePlanRequest) (*Plan, error) {
	var plan Plan
	path := fmt.Sprintf("/api/v1/plans/%d", id)
	if err := s.client.doRequest(ctx, "PUT", path, req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ProratedUpgradePrice computes the charge for switching to a more
// expensive plan mid-cycle
func (s *PlanService) ProratedUpgradePrice(ctx context.Context, currentPlanID, newPlanID int64, daysRemaining int) (float64, error) {
	q := url.Values{}
	q.Set("currentPlanId", strconv.FormatInt(currentPlanID, 10))
	q.Set("newPlanId", strconv.FormatInt(newPlanID, 10))
	q.Set("daysRemaining", strconv.Itoa(daysRemaining))

	var result ProrationResult
	path := "/api/v1/plans/prorated-upgrade-price?" + q.Encode()
	if err := s.client.doRequest(ctx, "GET", path, nil, &result); err != nil {
		return 0, err
	}
	return result.ProratedPrice, nil
}
