package dto

// CreatePlanRequest represents a plan creation request
type CreatePlanRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Price int64  `json:"price" validate:"gte=0"`
}

// UpdatePlanRequest represents a plan update request
type UpdatePlanRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Price int64  `json:"price" validate:"gte=0"`
}

// PlanDTO represents a plan in API responses
type PlanDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ProratedUpgradePriceResponse represents a proration result. The
// price is left unrounded.
type ProratedUpgradePriceResponse struct {
	ProratedPrice float64 `json:"proratedPrice"`
}
