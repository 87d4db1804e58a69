package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/internal/domain"
	"github.com/wasin-t/eventbook/pkg/response"
)

// respondError maps domain errors to HTTP status codes and error codes
func respondError(c *gin.Context, err error) {
	var (
		capErr    *domain.CapacityExceededError
		policyErr *domain.PolicyViolationError
	)

	switch {
	case errors.As(err, &capErr):
		response.Error(c, http.StatusConflict, "CAPACITY_EXCEEDED", err.Error(), gin.H{
			"seats_remaining": capErr.Remaining,
		})
	case errors.As(err, &policyErr):
		response.Error(c, http.StatusUnprocessableEntity, "CANCELLATION_WINDOW", err.Error(), gin.H{
			"hours_until_event": policyErr.HoursUntilEvent,
			"window_hours":      policyErr.WindowHours,
		})

	case errors.Is(err, domain.ErrEventNotFound):
		response.Error(c, http.StatusNotFound, "EVENT_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", err.Error(), nil)

	case errors.Is(err, domain.ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)

	case errors.Is(err, domain.ErrSoldOut):
		response.Error(c, http.StatusConflict, "SOLD_OUT", err.Error(), nil)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		response.Error(c, http.StatusConflict, "ALREADY_CANCELLED", err.Error(), nil)
	case errors.Is(err, domain.ErrCancellationInProgress):
		response.Error(c, http.StatusConflict, "CANCELLATION_IN_PROGRESS", err.Error(), nil)
	case errors.Is(err, domain.ErrCapacityBelowClaims):
		response.Error(c, http.StatusConflict, "CAPACITY_BELOW_CLAIMS", err.Error(), nil)

	case errors.Is(err, domain.ErrRefundFailed):
		response.Error(c, http.StatusBadGateway, "REFUND_FAILED", err.Error(), nil)
	case errors.Is(err, domain.ErrPaymentGateway):
		response.Error(c, http.StatusBadGateway, "PAYMENT_GATEWAY", err.Error(), nil)
	case errors.Is(err, domain.ErrSignatureInvalid):
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", err.Error(), nil)

	case errors.Is(err, domain.ErrBookingNotConfirmed):
		response.Error(c, http.StatusUnprocessableEntity, "BOOKING_NOT_CONFIRMED", err.Error(), nil)
	case errors.Is(err, domain.ErrTicketFormat):
		response.Error(c, http.StatusUnprocessableEntity, "TICKET_INVALID_FORMAT", err.Error(), nil)
	case errors.Is(err, domain.ErrTicketRevoked):
		response.Error(c, http.StatusGone, "TICKET_REVOKED", err.Error(), nil)
	case errors.Is(err, domain.ErrTicketMismatch):
		response.Error(c, http.StatusConflict, "TICKET_MISMATCH", err.Error(), nil)

	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)

	default:
		response.InternalError(c, err)
	}
}
