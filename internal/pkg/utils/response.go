package utils

import (
	"encoding/json"
	"net/http"

	"github.com/planbill/planbill/internal/pkg/errors"
)

// SuccessResponse is the envelope for every 2xx body. Data holds the
// payload; Message is only set for operations with nothing to return,
// like a cancel.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope for every error body.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code alongside the
// human-readable message. Details holds field-level validation
// failures when present.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON writes data as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess wraps data in the success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) error {
	return WriteJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// WriteSuccessWithMessage wraps data in the success envelope with a
// status message.
func WriteSuccessWithMessage(w http.ResponseWriter, status int, message string, data interface{}) error {
	return WriteJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

// WriteError writes an AppError using its own status code.
func WriteError(w http.ResponseWriter, err *errors.AppError) error {
	return WriteErrorMessageDetails(w, err.StatusCode, err.Code, err.Message, err.Details)
}

// WriteErrorMessage writes an error body without details.
func WriteErrorMessage(w http.ResponseWriter, status int, code, message string) error {
	return WriteErrorMessageDetails(w, status, code, message, nil)
}

// WriteErrorMessageDetails writes a full error body.
func WriteErrorMessageDetails(w http.ResponseWriter, status int, code, message string, details interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Code: code, Message: message, Details: details},
	})
}
