package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/planbill/planbill/internal/api/dto"
	"github.com/planbill/planbill/internal/api/middleware"
	"github.com/planbill/planbill/internal/domain/subscription"
	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/utils"
	"github.com/planbill/planbill/internal/pkg/validator"
)

// SubscriptionHandler handles subscription lifecycle requests
type SubscriptionHandler struct {
	service   subscription.Service
	teams     team.Repository
	logger    *logger.Logger
	validator *validator.Validator
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	service subscription.Service,
	teams team.Repository,
	log *logger.Logger,
	val *validator.Validator,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:   service,
		teams:     teams,
		logger:    log,
		validator: val,
	}
}

// requireTeamOwner loads the team and checks the caller owns it
func (h *SubscriptionHandler) requireTeamOwner(r *http.Request, teamID int64) error {
	userID, _ := middleware.GetUserID(r)
	t, err := h.teams.GetByID(r.Context(), teamID)
	if err != nil {
		return err
	}
	if t.UserID != userID {
		return errors.Forbidden("You do not own this team")
	}
	return nil
}

// Activate subscribes a team to a plan
// @Summary Activate subscription
// @Description Subscribe a team to a plan, replacing any active subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body dto.ActivateSubscriptionRequest true "Plan to activate"
// @Success 201 {object} dto.SubscriptionDTO "Activated subscription"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "Team or plan not found"
// @Security BearerAuth
// @Router /teams/{id}/subscriptions [post]
func (h *SubscriptionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	teamID, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.requireTeamOwner(r, teamID); err != nil {
		writeServiceError(w, err)
		return
	}

	var req dto.ActivateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	sub, err := h.service.Activate(r.Context(), teamID, req.PlanID)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to activate subscription")
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, toSubscriptionDTO(sub))
}

// Cancel deactivates the team's active subscription
// @Summary Cancel subscription
// @Description Deactivate the team's active subscription
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} utils.SuccessResponse "Subscription cancelled"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "No active subscription"
// @Security BearerAuth
// @Router /teams/{id}/subscriptions [delete]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	teamID, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.requireTeamOwner(r, teamID); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.service.Cancel(r.Context(), teamID); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription cancelled", nil)
}

// List returns the team's subscription history
// @Summary List subscriptions
// @Description Get the team's subscription history, including inactive entries
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {array} dto.SubscriptionDTO "Subscriptions"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id}/subscriptions [get]
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	teamID, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.requireTeamOwner(r, teamID); err != nil {
		writeServiceError(w, err)
		return
	}

	subs, err := h.service.ListForTeam(r.Context(), teamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]dto.SubscriptionDTO, len(subs))
	for i, s := range subs {
		dtos[i] = *toSubscriptionDTO(s)
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Active returns the team's active subscription
// @Summary Get active subscription
// @Description Get the team's currently active subscription
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} dto.SubscriptionDTO "Active subscription"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "No active subscription"
// @Security BearerAuth
// @Router /teams/{id}/subscriptions/active [get]
func (h *SubscriptionHandler) Active(w http.ResponseWriter, r *http.Request) {
	teamID, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.requireTeamOwner(r, teamID); err != nil {
		writeServiceError(w, err)
		return
	}

	sub, err := h.service.ActiveForTeam(r.Context(), teamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, toSubscriptionDTO(sub))
}

// requireSubscriptionOwner resolves the subscription's team and
// checks the caller owns it.
func (h *SubscriptionHandler) requireSubscriptionOwner(r *http.Request, subscriptionID int64) error {
	sub, err := h.service.Get(r.Context(), subscriptionID)
	if err != nil {
		return err
	}
	return h.requireTeamOwner(r, sub.TeamID)
}

// Orders returns a subscription's orders
// @Summary List orders
// @Description Get all orders for a subscription owned by the caller
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Subscription ID"
// @Success 200 {array} dto.OrderDTO "Orders"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{id}/orders [get]
func (h *SubscriptionHandler) Orders(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.requireSubscriptionOwner(r, subscriptionID); err != nil {
		writeServiceError(w, err)
		return
	}

	orders, err := h.service.Orders(r.Context(), subscriptionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]dto.OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = dto.OrderDTO{
			ID:             o.ID,
			SubscriptionID: o.SubscriptionID,
			Paid:           o.Paid,
			CreatedAt:      o.CreatedAt,
		}
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Activations returns a subscription's activation audit trail
// @Summary List activations
// @Description Get the activation audit trail for a subscription
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Subscription ID"
// @Success 200 {array} dto.ActivationDTO "Activations"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{id}/activations [get]
func (h *SubscriptionHandler) Activations(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.requireSubscriptionOwner(r, subscriptionID); err != nil {
		writeServiceError(w, err)
		return
	}

	activations, err := h.service.Activations(r.Context(), subscriptionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]dto.ActivationDTO, len(activations))
	for i, a := range activations {
		dtos[i] = dto.ActivationDTO{
			ID:             a.ID,
			SubscriptionID: a.SubscriptionID,
			ActivationDate: a.ActivationDate,
		}
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// PayOrder marks an order as paid
// @Summary Pay order
// @Description Mark an order as paid (administrators only)
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} dto.OrderDTO "Paid order"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 404 {object} utils.ErrorResponse "Order not found"
// @Failure 409 {object} utils.ErrorResponse "Order already paid"
// @Security BearerAuth
// @Router /orders/{id}/pay [post]
func (h *SubscriptionHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	o, err := h.service.PayOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.OrderDTO{
		ID:             o.ID,
		SubscriptionID: o.SubscriptionID,
		Paid:           o.Paid,
		CreatedAt:      o.CreatedAt,
	})
}

func toSubscriptionDTO(s *subscription.Subscription) *dto.SubscriptionDTO {
	return &dto.SubscriptionDTO{
		ID:        s.ID,
		TeamID:    s.TeamID,
		PlanID:    s.PlanID,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
