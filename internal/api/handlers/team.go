package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/planbill/planbill/internal/api/dto"
	"github.com/planbill/planbill/internal/api/middleware"
	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
	"github.com/planbill/planbill/internal/pkg/utils"
	"github.com/planbill/planbill/internal/pkg/validator"
)

// TeamHandler handles team management requests
type TeamHandler struct {
	teams     team.Repository
	logger    *logger.Logger
	validator *validator.Validator
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teams team.Repository, log *logger.Logger, val *validator.Validator) *TeamHandler {
	return &TeamHandler{
		teams:     teams,
		logger:    log,
		validator: val,
	}
}

// Create creates a new team owned by the caller
// @Summary Create team
// @Description Create a new team owned by the authenticated user
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body dto.CreateTeamRequest true "Team details"
// @Success 201 {object} dto.TeamDTO "Created team"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Unauthorized"))
		return
	}

	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	t := &team.Team{
		Name:   req.Name,
		UserID: userID,
	}
	if err := h.teams.Create(r.Context(), t); err != nil {
		h.logger.ErrorWithErr(err, "Failed to create team")
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, toTeamDTO(t))
}

// List returns the caller's teams
// @Summary List teams
// @Description Get all teams owned by the authenticated user
// @Tags Teams
// @Produce json
// @Success 200 {array} dto.TeamDTO "Teams"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /teams [get]
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Unauthorized"))
		return
	}

	teams, err := h.teams.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]dto.TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = *toTeamDTO(t)
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Get returns a single team owned by the caller
// @Summary Get team
// @Description Get a team by ID
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} dto.TeamDTO "Team"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	t, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	userID, _ := middleware.GetUserID(r)
	if t.UserID != userID {
		utils.WriteError(w, errors.Forbidden("You do not own this team"))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, toTeamDTO(t))
}

// Delete removes a team owned by the caller
// @Summary Delete team
// @Description Delete a team. Personal teams and teams with
// subscriptions cannot be deleted.
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} utils.SuccessResponse "Team deleted"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Failure 403 {object} utils.ErrorResponse "Not the team owner"
// @Failure 404 {object} utils.ErrorResponse "Team not found"
// @Failure 409 {object} utils.ErrorResponse "Team still referenced"
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	t, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	userID, _ := middleware.GetUserID(r)
	if t.UserID != userID {
		utils.WriteError(w, errors.Forbidden("You do not own this team"))
		return
	}
	if t.IsPersonal {
		utils.WriteError(w, errors.Conflict("Personal teams cannot be deleted"))
		return
	}

	if err := h.teams.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Team deleted", nil)
}

func toTeamDTO(t *team.Team) *dto.TeamDTO {
	return &dto.TeamDTO{
		ID:         t.ID,
		Name:       t.Name,
		IsPersonal: t.IsPersonal,
		UserID:     t.UserID,
		CreatedAt:  t.CreatedAt,
	}
}
