package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorWrapsSentinel(t *testing.T) {
	err := Newf(ErrInvalidArgument, http.StatusBadRequest, "top-k must be non-negative, got %d", -2)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("expected errors.Is to match the sentinel")
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("expected errors.As to extract *AppError")
	}
	if appErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.StatusCode)
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error status wins", New(ErrInternal, http.StatusConflict, "conflict"), http.StatusConflict},
		{"invalid argument", fmt.Errorf("wrapped: %w", ErrInvalidArgument), http.StatusBadRequest},
		{"resource unavailable", ErrResourceUnavailable, http.StatusServiceUnavailable},
		{"delivery unavailable", ErrDeliveryUnavailable, http.StatusServiceUnavailable},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
