package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes returned in the API envelope
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeSuperseded      = "SUPERSEDED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"

	ErrCodeIncompleteProfile = "INCOMPLETE_PROFILE"
	ErrCodeGenerationFailed  = "GENERATION_FAILED"
	ErrCodeExportFailed      = "EXPORT_FAILED"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeServiceUnavail    = "SERVICE_UNAVAILABLE"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeInvalidID:         http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeSuperseded:        http.StatusConflict,
	ErrCodeRateLimited:       http.StatusTooManyRequests,
	ErrCodePayloadTooLarge:   http.StatusRequestEntityTooLarge,
	ErrCodeIncompleteProfile: http.StatusUnprocessableEntity,
	ErrCodeGenerationFailed:  http.StatusBadGateway,
	ErrCodeExportFailed:      http.StatusBadGateway,
	ErrCodeTimeout:           http.StatusGatewayTimeout,
	ErrCodeServiceUnavail:    http.StatusServiceUnavailable,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// AppError is an error with a stable code and a message safe to show to the user.
// Cause is logged, never returned to clients.
type AppError struct {
	Code       string
	Message    string
	Details    string
	HTTPStatus int
	Cause      error
	Metadata   map[string]any
	RetryAfter time.Duration
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// Temporary reports whether the caller may retry after RetryAfter.
func (e *AppError) Temporary() bool { return e.RetryAfter > 0 }

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func (e *AppError) WithMetadata(key string, value any) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

func (e *AppError) WithRetry(after time.Duration) *AppError {
	e.RetryAfter = after
	return e
}

// NewError creates an AppError. A zero httpStatus takes the default for code.
func NewError(code, message string, httpStatus int) *AppError {
	if httpStatus == 0 {
		httpStatus = statusByCode[code]
	}
	if httpStatus == 0 {
		httpStatus = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func coded(code, message string) *AppError { return NewError(code, message, 0) }

func ErrValidation(message string) *AppError {
	return coded(ErrCodeValidation, message)
}

func ErrValidationField(field, message string) *AppError {
	return coded(ErrCodeValidation, message).WithMetadata("field", field)
}

func ErrInvalidID(resource, raw string) *AppError {
	return coded(ErrCodeInvalidID, fmt.Sprintf("ID de %s inválido", resource)).
		WithMetadata("resource", resource).
		WithDetails(raw)
}

func ErrNotFound(resource, id string) *AppError {
	return coded(ErrCodeNotFound, fmt.Sprintf("%s não encontrado: %s", resource, id)).
		WithMetadata("resource", resource).
		WithMetadata("id", id)
}

func ErrGenerationNotFound(id string) *AppError {
	return ErrNotFound("landing page", id)
}

func ErrConflict(message string) *AppError {
	return coded(ErrCodeConflict, message)
}

// ErrSuperseded is returned to a request replaced by a newer one from the same session.
func ErrSuperseded(requestID uint64) *AppError {
	return coded(ErrCodeSuperseded, "Geração substituída por uma solicitação mais recente").
		WithMetadata("request_id", requestID)
}

func ErrRateLimited(retryAfter time.Duration) *AppError {
	return coded(ErrCodeRateLimited, "Muitas solicitações. Aguarde um instante.").WithRetry(retryAfter)
}

// ErrIncompleteProfile reports a profile that cannot be rendered. details lists what is missing.
func ErrIncompleteProfile(details string) *AppError {
	return coded(ErrCodeIncompleteProfile, "Generated profile is incomplete").WithDetails(details)
}

// ErrGenerationFailed carries a generic message. The cause stays server side.
func ErrGenerationFailed(stage string, err error) *AppError {
	return coded(ErrCodeGenerationFailed, "Não foi possível gerar a landing page. Tente novamente.").
		WithCause(err).
		WithMetadata("stage", stage)
}

func ErrExportFailed(err error) *AppError {
	return coded(ErrCodeExportFailed, "Não foi possível exportar a landing page").WithCause(err)
}

func ErrTimeout(operation string) *AppError {
	return coded(ErrCodeTimeout, "Tempo esgotado: "+operation).
		WithMetadata("operation", operation).
		WithRetry(10 * time.Second)
}

func ErrServiceUnavailable(service string) *AppError {
	return coded(ErrCodeServiceUnavail, "Serviço indisponível: "+service).
		WithMetadata("service", service).
		WithRetry(30 * time.Second)
}

func ErrInternal(message string) *AppError {
	if message == "" {
		message = "Erro interno"
	}
	return coded(ErrCodeInternal, message)
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns 500 for anything that is not an AppError.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Sentinels for errors.Is
var (
	ErrNotFoundSentinel          = coded(ErrCodeNotFound, "not found")
	ErrSupersededSentinel        = coded(ErrCodeSuperseded, "superseded")
	ErrIncompleteProfileSentinel = coded(ErrCodeIncompleteProfile, "incomplete profile")
)
