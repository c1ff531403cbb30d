package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/planbill/planbill/internal/api/dto"
	"github.com/planbill/planbill/internal/domain/plan"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/utils"
	"github.com/planbill/planbill/internal/pkg/validator"
)

// PlanHandler handles plan registry and proration requests
type PlanHandler struct {
	service   plan.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(service plan.Service, log *logger.Logger, val *validator.Validator) *PlanHandler {
	return &PlanHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Create creates a new plan
// @Summary Create plan
// @Description Create a new subscription plan (administrators only)
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body dto.CreatePlanRequest true "Plan details"
// @Success 201 {object} dto.PlanDTO "Created plan"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /plans [post]
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.service.Create(r.Context(), req.Name, req.Price)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to create plan")
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, toPlanDTO(p))
}

// Update overwrites an existing plan
// @Summary Update plan
// @Description Overwrite name and price of an existing plan (administrators only)
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param request body dto.UpdatePlanRequest true "Plan details"
// @Success 200 {object} dto.PlanDTO "Updated plan"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Security BearerAuth
// @Router /plans/{id} [put]
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req dto.UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := h.service.Update(r.Context(), id, req.Name, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, toPlanDTO(p))
}

// Get returns a single plan
// @Summary Get plan by ID
// @Description Get a plan's name and price
// @Tags Plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} dto.PlanDTO "Plan details"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 404 {object} utils.ErrorResponse "Plan not found"
// @Security BearerAuth
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, toPlanDTO(p))
}

// List returns all plans with pagination
// @Summary List plans
// @Description Get a paginated list of plans
// @Tags Plans
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.PlanDTO} "List of plans"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)

	plans, total, err := h.service.List(r.Context(), params.PageSize, params.Offset)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to list plans")
		writeServiceError(w, err)
		return
	}

	dtos := make([]dto.PlanDTO, len(plans))
	for i, p := range plans {
		dtos[i] = *toPlanDTO(p)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// ProratedUpgradePrice computes the prorated price of an upgrade
// @Summary Prorated upgrade price
// @Description Compute the cost of upgrading between plans for the remaining days of the billing period
// @Tags Plans
// @Produce json
// @Param currentPlanId query int true "Current plan ID"
// @Param newPlanId query int true "New plan ID"
// @Param daysRemaining query int true "Days remaining in the billing period"
// @Success 200 {object} dto.ProratedUpgradePriceResponse "Prorated price"
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /plans/prorated-upgrade-price [get]
func (h *PlanHandler) ProratedUpgradePrice(w http.ResponseWriter, r *http.Request) {
	currentPlanID, err := strconv.ParseInt(r.URL.Query().Get("currentPlanId"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid currentPlanId"))
		return
	}
	newPlanID, err := strconv.ParseInt(r.URL.Query().Get("newPlanId"), 10, 64)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid newPlanId"))
		return
	}
	daysRemaining, err := strconv.Atoi(r.URL.Query().Get("daysRemaining"))
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid daysRemaining"))
		return
	}

	price, err := h.service.ProratedUpgradePrice(r.Context(), currentPlanID, newPlanID, daysRemaining)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ProratedUpgradePriceResponse{ProratedPrice: price})
}

func toPlanDTO(p *plan.Plan) *dto.PlanDTO {
	return &dto.PlanDTO{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}
}
