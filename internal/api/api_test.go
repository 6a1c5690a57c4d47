package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/agents"
	"github.com/landingforge/landingforge/internal/api/handlers"
	"github.com/landingforge/landingforge/internal/api/middleware"
	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/observability"
	"github.com/landingforge/landingforge/internal/pipeline"
	"github.com/landingforge/landingforge/internal/repository/memory"
	"github.com/landingforge/landingforge/pkg/httputil"
)

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, req pipeline.Request, _ pipeline.ProgressFunc) (*pipeline.Result, error) {
	return &pipeline.Result{
		Profile: &domain.BusinessProfile{
			Title:        "Pet Shop Amigo Fiel",
			BusinessName: "Amigo Fiel",
			BusinessType: "Pet Shop",
			TemplateID:   domain.TemplateCatalogEcommerce,
			Sellerbot:    domain.Sellerbot{Name: "Fiel"},
		},
		HTML:     `<!DOCTYPE html><html lang="pt-BR"><body data-page="` + req.PageID + `"></body></html>`,
		Duration: 20 * time.Millisecond,
	}, nil
}

type stubReplier struct{}

func (stubReplier) Reply(context.Context, agents.ReplyInput) (string, error) {
	return "Olá!", nil
}

type testEnv struct {
	router  *Router
	store   *memory.Store
	metrics *observability.Metrics
}

func setupTestRouter(t *testing.T, mutate func(*RouterConfig)) *testEnv {
	t.Helper()

	store := memory.New(time.Hour)
	metrics := observability.NewMetrics("landingforge_test", prometheus.NewRegistry())

	cfg := RouterConfig{
		Store:   store,
		Landing: handlers.LandingPageDeps{Generator: stubGenerator{}},
		Replier: stubReplier{},
		Metrics: metrics,
		Logger:  zap.NewNop(),
		Security: config.SecurityConfig{
			CORSEnabled:        true,
			CORSAllowedOrigins: []string{"*"},
		},
		RateLimits: config.RateLimitConfig{
			Enabled:           true,
			RequestsPerMin:    100,
			GenerationsPerMin: 10,
		},
		Checks: map[string]HealthCheck{
			"store": store.Health,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return &testEnv{router: NewRouter(cfg), store: store, metrics: metrics}
}

func (e *testEnv) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestAPIIntegration(t *testing.T) {
	env := setupTestRouter(t, nil)

	var pageID string

	t.Run("Create landing page", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/landing-pages", `{"prompt": "Nome: Amigo Fiel\nTipo: Pet Shop"}`,
			middleware.HeaderSessionID, "browser-tab-1")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp httputil.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		pageID = data["id"].(string)
		assert.Equal(t, "completed", data["status"])
		assert.Equal(t, "catalog-ecommerce", data["templateId"])
		assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("Get landing page", func(t *testing.T) {
		require.NotEmpty(t, pageID)
		rec := env.do(http.MethodGet, "/api/v1/landing-pages/"+pageID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp httputil.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, pageID, data["id"])
		assert.Equal(t, "Pet Shop Amigo Fiel.html", data["fileName"])
	})

	t.Run("Serve HTML", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/landing-pages/"+pageID+"/html", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-page="`+pageID+`"`)
	})

	t.Run("Export without storage", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/landing-pages/"+pageID+"/export", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Replace images without renderer", func(t *testing.T) {
		rec := env.do(http.MethodPut, "/api/v1/landing-pages/"+pageID+"/images", `{"customImages": {"hero": "https://cdn.example.com/dog.jpg"}}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Chat uses stored persona", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/sellerbot/chat", `{"pageId": "`+pageID+`", "message": "Vocês fazem banho e tosa?"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp httputil.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "Olá!", data["reply"])
		assert.Equal(t, "Fiel", data["persona"])
	})

	t.Run("Metrics expose requests", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "landingforge_test_http_requests_total")
		assert.Contains(t, rec.Body.String(), `path="/api/v1/landing-pages/{id}"`)
	})
}

func TestRateLimiting(t *testing.T) {
	env := setupTestRouter(t, func(cfg *RouterConfig) {
		cfg.RateLimits.GenerationsPerMin = 2
	})

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/v1/landing-pages", `{"prompt": "Nome: Ana"}`, middleware.HeaderSessionID, "tab")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodPost, "/api/v1/landing-pages", `{"prompt": "Nome: Ana"}`, middleware.HeaderSessionID, "tab")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	rec = env.do(http.MethodPost, "/api/v1/landing-pages", `{"prompt": "Nome: Ana"}`, middleware.HeaderSessionID, "other-tab")
	assert.Equal(t, http.StatusCreated, rec.Code, "sessions are limited separately")

	rec = env.do(http.MethodGet, "/api/v1/templates", "", middleware.HeaderSessionID, "tab")
	assert.Equal(t, http.StatusOK, rec.Code, "the generation limit only covers page creation")
}

func TestReadiness(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := setupTestRouter(t, nil)
		rec := env.do(http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failing dependency", func(t *testing.T) {
		env := setupTestRouter(t, func(cfg *RouterConfig) {
			cfg.Checks["temporal"] = func(context.Context) error { return errors.New("connection refused") }
		})
		rec := env.do(http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "unhealthy: connection refused")
	})
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sellerbot/chat", nil)
	req.Header.Set("Origin", "null")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Session-ID")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "x-session-id"))
}

func TestCORSPreflight_Put(t *testing.T) {
	env := setupTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/landing-pages/abc/images", nil)
	req.Header.Set("Origin", "null")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPut, rec.Header().Get("Access-Control-Allow-Methods"))
}
