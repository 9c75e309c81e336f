package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anatole0000/book-store/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse wraps a collection with its total count for pagination
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, nothing more we can do
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a domain error to an HTTP response
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	status, message := mapServiceErrorToUserMessage(err, fallback)
	respondError(w, status, message)
}

// mapServiceErrorToUserMessage converts service errors to HTTP status codes
// and messages users can act on. Internal details stay in the logs.
func mapServiceErrorToUserMessage(err error, fallback string) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgUnknownError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgBadInputHTTP
	case errors.Is(err, domain.ErrBookNotFound):
		return http.StatusNotFound, ErrMsgBookNotFoundHTTP
	case errors.Is(err, domain.ErrBookUnavailable):
		return http.StatusConflict, ErrMsgBookUnavailableHTTP
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, ErrMsgOutOfStockHTTP
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, ErrMsgOrderNotFoundHTTP
	case errors.Is(err, domain.ErrOrderNotPending):
		return http.StatusConflict, ErrMsgOrderNotPendingHTTP
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, ErrMsgBadTransitionHTTP
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrMsgForbiddenHTTP
	case errors.Is(err, domain.ErrTransactionConflict):
		return http.StatusServiceUnavailable, ErrMsgConflictHTTP
	default:
		return http.StatusInternalServerError, fallback
	}
}
