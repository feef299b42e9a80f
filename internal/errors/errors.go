package errors

import (
	"errors"
	"net/http"
)

// ValidationError marks caller-fixable bad input: malformed intervals,
// non-positive rates, zero-duration quotes.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ConflictError is returned when a proposed booking overlaps an existing
// non-cancelled booking or explicitly blocked hours.
type ConflictError struct {
	Message    string
	BookingIDs []int
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string, bookingIDs []int) *ConflictError {
	return &ConflictError{Message: message, BookingIDs: bookingIDs}
}

// AuthorizationError is returned when the acting user is neither the renter
// nor the space owner for the booking being mutated.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewAuthorizationError(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

// InvalidStateError is returned for a lifecycle transition not permitted
// from the booking's current status.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

// NotFoundError is returned when a booking, space or vehicle id does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// StatusCode maps a core error to the HTTP status the adapter responds with.
// Unknown errors map to 500.
func StatusCode(err error) int {
	var (
		validationErr    *ValidationError
		conflictErr      *ConflictError
		authorizationErr *AuthorizationError
		invalidStateErr  *InvalidStateError
		notFoundErr      *NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &conflictErr):
		return http.StatusBadRequest
	case errors.As(err, &authorizationErr):
		return http.StatusForbidden
	case errors.As(err, &invalidStateErr):
		return http.StatusConflict
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
