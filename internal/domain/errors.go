package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Lookup errors
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")

	// Ownership errors
	ErrForbidden = errors.New("requester does not own this booking")

	// Capacity errors
	ErrSoldOut          = errors.New("event is sold out")
	ErrCapacityExceeded = errors.New("requested quantity exceeds remaining capacity")

	// Cancellation errors
	ErrAlreadyCancelled       = errors.New("booking is already cancelled")
	ErrCancellationWindow     = errors.New("event is too close to cancel")
	ErrCancellationInProgress = errors.New("another cancellation for this booking is in progress")
	ErrRefundFailed           = errors.New("refund failed, cancellation not applied")

	// Payment gateway errors
	ErrPaymentGateway   = errors.New("payment gateway request failed")
	ErrSignatureInvalid = errors.New("webhook signature verification failed")

	// Ticket errors
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")
	ErrTicketFormat        = errors.New("ticket payload has invalid format")
	ErrTicketRevoked       = errors.New("ticket booking has been cancelled")
	ErrTicketMismatch      = errors.New("ticket event does not match booking")

	// Validation errors
	ErrInvalidEventID      = errors.New("invalid event id")
	ErrInvalidBookingID    = errors.New("invalid booking id")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInvalidEmail        = errors.New("invalid customer email")
	ErrInvalidName         = errors.New("invalid customer name")
	ErrInvalidTitle        = errors.New("event title is required")
	ErrInvalidDate         = errors.New("event date must be in the future")
	ErrInvalidPrice        = errors.New("price cannot be negative")
	ErrInvalidCapacity     = errors.New("capacity cannot be negative")
	ErrCapacityBelowClaims = errors.New("capacity cannot be reduced below current attendees")
)

// CapacityExceededError reports how many seats are still available so callers
// can offer a reduced quantity.
type CapacityExceededError struct {
	Remaining int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("requested quantity exceeds remaining capacity (%d seats left)", e.Remaining)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// PolicyViolationError reports the actual hours remaining until the event when
// a cancellation falls inside the no-refund window.
type PolicyViolationError struct {
	HoursUntilEvent float64
	WindowHours     int
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("cannot cancel within %d hours of the event (%.1f hours remain)", e.WindowHours, e.HoursUntilEvent)
}

func (e *PolicyViolationError) Is(target error) bool {
	return target == ErrCancellationWindow
}

// RefundFailedError wraps the gateway failure that blocked a cancellation.
// The booking is left untouched when this is returned.
type RefundFailedError struct {
	Err error
}

func (e *RefundFailedError) Error() string {
	return fmt.Sprintf("refund failed, cancellation not applied: %v", e.Err)
}

func (e *RefundFailedError) Unwrap() error {
	return e.Err
}

func (e *RefundFailedError) Is(target error) bool {
	return target == ErrRefundFailed
}

// GatewayError wraps a payment provider failure
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrPaymentGateway
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrCapacityBelowClaims)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSoldOut) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrCancellationInProgress) ||
		errors.Is(err, ErrTicketMismatch)
}

// IsGatewayError checks if the error originated at the payment provider
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrPaymentGateway) ||
		errors.Is(err, ErrRefundFailed)
}
