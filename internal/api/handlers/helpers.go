package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/utils"
)

// parseIDParam parses an integer URL parameter
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid " + name)
	}
	return id, nil
}

// writeServiceError writes a service error, preserving AppError
// status and code and hiding anything else behind a 500
func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal("Internal server error", err))
}
