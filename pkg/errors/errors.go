// Package errors defines the service's sentinel errors and an AppError type
// that carries an HTTP status code alongside a wrapped sentinel.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrResourceUnavailable indicates the tagging model or another required
	// startup resource failed to load. Fatal at initialization; never
	// retried per call.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrInvalidArgument indicates a caller-supplied parameter (such as a
	// negative top-k) that the pipeline rejects without producing a result.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDeliveryUnavailable indicates the summary delivery sink rejected or
	// could not complete a publish.
	ErrDeliveryUnavailable = errors.New("delivery sink unavailable")

	ErrTimeout  = errors.New("operation timed out")
	ErrInternal = errors.New("internal error")
)

// AppError wraps a sentinel with a human-readable message and an HTTP status.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError wrapping the given sentinel.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Newf is New with printf-style message formatting.
func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error to the HTTP status code the API should return.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrResourceUnavailable),
		errors.Is(err, ErrDeliveryUnavailable),
		errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
