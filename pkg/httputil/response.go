// Package httputil writes the JSON envelope every API response uses.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/landingforge/landingforge/internal/domain"
)

// Response represents a standard API response
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error represents an API error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	// Stage names the generation step that failed, when there is one.
	Stage string `json:"stage,omitempty"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// ErrorFromDomain converts an error to an HTTP response. Causes are never exposed.
func ErrorFromDomain(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.ErrInternal("")
	}

	if appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(appErr.RetryAfter.Seconds()))))
	}

	apiErr := &Error{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if stage, ok := appErr.Metadata["stage"].(string); ok {
		apiErr.Stage = stage
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	write(w, status, Response{Error: apiErr})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// HTML writes a rendered page
func HTML(w http.ResponseWriter, status int, doc string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, doc)
}

// DecodeJSON decodes JSON from request body
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return domain.ErrValidationField("body", "request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewError(domain.ErrCodePayloadTooLarge, "Request body too large", http.StatusRequestEntityTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return domain.ErrValidationField("body", "request body is required")
		}
		return domain.ErrValidationField("body", "invalid JSON: "+err.Error())
	}

	return nil
}
