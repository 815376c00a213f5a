package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropLocation),
		errors.Is(err, service.ErrNegativeDistance),
		errors.Is(err, service.ErrNegativeWaitingTime),
		errors.Is(err, service.ErrUnknownVehicleClass),
		errors.Is(err, service.ErrInvalidFareConfig),
		errors.Is(err, service.ErrInvalidDriverStatus),
		errors.Is(err, service.ErrMissingQuote):
		return http.StatusBadRequest

	// State machine violations - Conflict
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRideTerminal),
		errors.Is(err, service.ErrPaymentNotConfirmed),
		errors.Is(err, service.ErrTransitionInFlight),
		errors.Is(err, repository.ErrVersionConflict):
		return http.StatusConflict

	// Wrong verification code
	case errors.Is(err, service.ErrOTPMismatch):
		return http.StatusForbidden

	// Missing pricing data is a server-side condition
	case errors.Is(err, service.ErrNoActiveFareConfig):
		return http.StatusInternalServerError

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
