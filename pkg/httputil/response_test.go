package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landingforge/landingforge/internal/domain"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "abc", resp.Data.(map[string]any)["id"])
}

func TestErrorFromDomain(t *testing.T) {
	t.Run("generation failure hides the cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrorFromDomain(rec, domain.ErrGenerationFailed("content", errors.New("api key sk-secret rejected")))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.NotContains(t, rec.Body.String(), "sk-secret")
		resp := decode(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, domain.ErrCodeGenerationFailed, resp.Error.Code)
		assert.Equal(t, "content", resp.Error.Stage)
	})

	t.Run("rate limit sets Retry-After", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrorFromDomain(rec, domain.ErrRateLimited(1500*time.Millisecond))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	})

	t.Run("incomplete profile carries details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrorFromDomain(rec, domain.ErrIncompleteProfile("missing sections: access"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "missing sections: access", decode(t, rec).Error.Details)
	})

	t.Run("unknown errors are internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrorFromDomain(rec, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, domain.ErrCodeInternal, decode(t, rec).Error.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Prompt string `json:"prompt"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"Pizzaria"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "Pizzaria", v.Prompt)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"x","extra":1}`))
	assert.Equal(t, domain.ErrCodeValidation, domain.GetErrorCode(DecodeJSON(req, &v)))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.Equal(t, domain.ErrCodeValidation, domain.GetErrorCode(DecodeJSON(req, &v)))

	rec := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"`+strings.Repeat("a", 100)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 10)
	assert.Equal(t, domain.ErrCodePayloadTooLarge, domain.GetErrorCode(DecodeJSON(req, &v)))
}
