// Package helpers writes the JSON envelopes shared by every HTTP handler.
package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventgraph/internal/domain"
)

// MessageNotFound is returned for routes that match no handler.
const MessageNotFound = "Not Found!"

// APIError is the error object in the response envelope. ID repeats the HTTP status.
// swagger:model APIError
type APIError struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

// APIResponse is the envelope for all API responses.
// On success only Data is set, on error only Error.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode and encodes v.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONSuccess encodes an APIResponse carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, APIResponse{Data: data})
}

// WriteJSONError encodes an APIResponse carrying message and statusCode as the error id.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, APIResponse{Error: &APIError{Message: message, ID: statusCode}})
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMutationNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
