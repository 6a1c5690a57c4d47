package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestRequestLogger(t *testing.T) {
	logger, logs := observedLogger()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Session)
	r.Use(RequestLogger(logger))
	r.Get("/api/v1/landing-pages/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	r.Post("/api/v1/landing-pages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	t.Run("labels by route and echoes the request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/landing-pages/abc", nil)
		req.Header.Set(HeaderRequestID, "req-42")
		req.Header.Set(HeaderSessionID, "tab-1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		e := entries[0]
		assert.Equal(t, zapcore.InfoLevel, e.Level)
		fields := e.ContextMap()
		assert.Equal(t, "/api/v1/landing-pages/{id}", fields["route"])
		assert.Equal(t, "/api/v1/landing-pages/abc", fields["path"])
		assert.Equal(t, "req-42", fields["request_id"])
		assert.Equal(t, "tab-1", fields["session_id"])
		assert.EqualValues(t, 200, fields["status"])
		assert.EqualValues(t, 5, fields["bytes"])
	})

	t.Run("generates a request id when none is sent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/landing-pages/abc", nil))

		assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
		logs.TakeAll()
	})

	tests := []struct {
		name   string
		method string
		path   string
		level  zapcore.Level
	}{
		{name: "client errors warn", method: http.MethodPost, path: "/api/v1/landing-pages", level: zapcore.WarnLevel},
		{name: "server errors error", method: http.MethodGet, path: "/boom", level: zapcore.ErrorLevel},
		{name: "probes are debug", method: http.MethodGet, path: "/health", level: zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			entries := logs.TakeAll()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
		})
	}
}

func TestRequestLogger_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Zero(t, logs.Len(), "probe lines are dropped above debug")
}

func TestRecoverer(t *testing.T) {
	t.Run("passes through normal requests", func(t *testing.T) {
		logger, logs := observedLogger()
		h := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, logs.Len())
	})

	t.Run("turns a panic into a 500 envelope", func(t *testing.T) {
		logger, logs := observedLogger()
		h := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("template exploded")
		}))

		rec := httptest.NewRecorder()
		require.NotPanics(t, func() {
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/landing-pages", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.NotContains(t, body.Error.Message, "template exploded")

		entries := logs.FilterMessage("Panic recovered").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "template exploded", entries[0].ContextMap()["panic"])
	})

	t.Run("re-raises ErrAbortHandler", func(t *testing.T) {
		logger, _ := observedLogger()
		h := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
