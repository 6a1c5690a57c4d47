package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "Resource not found",
			},
			want: "NOT_FOUND: Resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "Resource not found",
				Cause:   errors.New("id: 123"),
			},
			want: "NOT_FOUND: Resource not found: id: 123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner error")
	err := &AppError{
		Code:    "TEST",
		Message: "outer error",
		Cause:   inner,
	}

	if !errors.Is(err, inner) {
		t.Error("AppError.Unwrap() should allow errors.Is to find inner error")
	}
}

func TestAppError_WithRetry(t *testing.T) {
	err := NewError(ErrCodeServiceUnavail, "upstream", http.StatusServiceUnavailable).WithRetry(5 * time.Second)
	if !err.Temporary() {
		t.Error("Temporary should be true")
	}
	if err.RetryAfter != 5*time.Second {
		t.Errorf("RetryAfter = %v, want 5s", err.RetryAfter)
	}
}

func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("rendering: %w", ErrIncompleteProfile("missing sections: access"))
	if !errors.Is(wrapped, ErrIncompleteProfileSentinel) {
		t.Error("errors.Is should match ErrIncompleteProfileSentinel through wrapping")
	}
	if errors.Is(wrapped, ErrNotFoundSentinel) {
		t.Error("errors.Is should not match a different code")
	}
	if !errors.Is(ErrSuperseded(7), ErrSupersededSentinel) {
		t.Error("ErrSuperseded should match its sentinel")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: ErrGenerationNotFound("abc"), want: http.StatusNotFound},
		{name: "superseded", err: ErrSuperseded(2), want: http.StatusConflict},
		{name: "generation failed", err: ErrGenerationFailed("content", errors.New("boom")), want: http.StatusBadGateway},
		{name: "incomplete profile", err: ErrIncompleteProfile("x"), want: http.StatusUnprocessableEntity},
		{name: "rate limited", err: ErrRateLimited(time.Minute), want: http.StatusTooManyRequests},
		{name: "conflict", err: ErrConflict("busy"), want: http.StatusConflict},
		{name: "internal", err: ErrInternal(""), want: http.StatusInternalServerError},
		{name: "timeout", err: ErrTimeout("generation"), want: http.StatusGatewayTimeout},
		{name: "invalid id", err: ErrInvalidID("landing page", "abc"), want: http.StatusBadRequest},
		{name: "plain error", err: errors.New("plain"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewError_DefaultStatus(t *testing.T) {
	if got := NewError(ErrCodePayloadTooLarge, "big", 0).HTTPStatus; got != http.StatusRequestEntityTooLarge {
		t.Errorf("HTTPStatus = %d, want 413", got)
	}
	if got := NewError("SOMETHING_NEW", "x", 0).HTTPStatus; got != http.StatusInternalServerError {
		t.Errorf("unknown code HTTPStatus = %d, want 500", got)
	}
	if got := NewError(ErrCodeNotFound, "x", http.StatusGone).HTTPStatus; got != http.StatusGone {
		t.Errorf("explicit status should win, got %d", got)
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(errors.New("x")); got != ErrCodeInternal {
		t.Errorf("GetErrorCode() = %s, want %s", got, ErrCodeInternal)
	}
	if got := GetErrorCode(ErrValidation("bad")); got != ErrCodeValidation {
		t.Errorf("GetErrorCode() = %s, want %s", got, ErrCodeValidation)
	}
}

func TestErrGenerationFailed_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := ErrGenerationFailed("design", cause)

	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
	if err.Message == cause.Error() {
		t.Error("Message should be generic, not the cause")
	}
	if err.Metadata["stage"] != "design" {
		t.Errorf("stage metadata = %v, want design", err.Metadata["stage"])
	}
}

func TestErrValidationField(t *testing.T) {
	err := ErrValidationField("prompt", "prompt is required")
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("HTTPStatus = %d, want 400", err.HTTPStatus)
	}
	if err.Metadata["field"] != "prompt" {
		t.Errorf("field metadata = %v, want prompt", err.Metadata["field"])
	}
}
