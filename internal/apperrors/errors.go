package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the core taxonomy. Callers classify failures with
// errors.Is against these values.

// ErrNotFound indicates that a referenced entity could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks
// (non-positive amount, unknown category, malformed date range).
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a uniqueness or invariant violation, such as a
// duplicate active budget or removing a project's last owner.
var ErrConflict = errors.New("resource conflict")

// ErrUnavailable indicates the store is transiently unreachable. Pure reads
// may be retried by the caller with backoff; writes must not be.
var ErrUnavailable = errors.New("store unavailable")

// ErrForbidden indicates the acting user lacks the required project role.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-ish status code and a wrapped cause alongside a
// message that is safe to log. Raw store errors stay inside Err and are never
// rendered to end users.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a generic AppError wrapping cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError classified as ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError classified as ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConflict}
}

// NewValidationFailedError creates an AppError classified as ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewUnavailableError creates an AppError classified as ErrUnavailable.
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{Code: 503, Message: message, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}
