package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation error")
	ErrStore              = errors.New("store error")
	ErrPartialFailure     = errors.New("partial failure")
)

// AppError pairs a sentinel kind with the message shown to the client.
// Cause holds the underlying error, if any, for logging.
type AppError struct {
	Kind    error
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func Unauthenticated() *AppError {
	return &AppError{Kind: ErrUnauthenticated, Message: "Not authenticated"}
}

func InvalidCredentials(message string) *AppError {
	return &AppError{Kind: ErrInvalidCredentials, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: ErrConflict, Message: message}
}

func Validation(field, message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message, Field: field}
}

// Store wraps an unexpected store failure. message is what the client sees;
// cause is only logged.
func Store(message string, cause error) *AppError {
	return &AppError{Kind: ErrStore, Message: message, Cause: cause}
}

func PartialFailure(message string, cause error) *AppError {
	return &AppError{Kind: ErrPartialFailure, Message: message, Cause: cause}
}

// HTTPStatus maps an error to the status code used at the HTTP boundary.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Errors that are not
// *AppError never leak their detail.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
