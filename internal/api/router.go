// Package api wires the HTTP surface: middleware, routes and probes.
package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/api/handlers"
	"github.com/landingforge/landingforge/internal/api/middleware"
	"github.com/landingforge/landingforge/internal/config"
	"github.com/landingforge/landingforge/internal/observability"
	"github.com/landingforge/landingforge/internal/repository"
	"github.com/landingforge/landingforge/pkg/httputil"
)

// ServiceName is reported by the health probe.
const ServiceName = "landingforge-api"

// HealthCheck probes one dependency for /ready
type HealthCheck func(ctx context.Context) error

// Router holds the HTTP router and its dependencies
type Router struct {
	chi.Router
	logger *zap.Logger
}

// RouterConfig contains configuration for the router
type RouterConfig struct {
	Store repository.GenerationStore
	// Landing holds the page generation collaborators. Store and Logger are filled in when empty.
	Landing        handlers.LandingPageDeps
	LandingConfig  handlers.LandingPageConfig
	Replier        handlers.Replier
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	Security       config.SecurityConfig
	RateLimits     config.RateLimitConfig
	RequestTimeout time.Duration
	Checks         map[string]HealthCheck
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.Landing.Store == nil {
		cfg.Landing.Store = cfg.Store
	}
	if cfg.Landing.Logger == nil {
		cfg.Landing.Logger = cfg.Logger
	}
	if cfg.Landing.Metrics == nil && cfg.Metrics != nil {
		cfg.Landing.Metrics = cfg.Metrics
	}

	r := chi.NewRouter()

	// Base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Session)
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.HTTPMiddleware)
	}
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	if cfg.Security.CORSEnabled {
		origins := cfg.Security.CORSAllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderRequestID, middleware.HeaderSessionID},
			ExposedHeaders: []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", "Location"},
			// Generated pages are opened from file:// and arbitrary hosts; no cookies are used.
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	var limiter middleware.RateLimiter
	if cfg.RateLimits.Enabled && cfg.Store != nil {
		limiter = cfg.Store
	}
	r.Use(middleware.NewRateLimitMiddleware(limiter, "api", cfg.RateLimits.RequestsPerMin, middleware.ByClientIP, cfg.Logger).Handler)

	// Probes
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(cfg.Checks))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	landing := handlers.NewLandingPageHandler(cfg.LandingConfig, cfg.Landing)
	templateHandler := handlers.NewTemplateHandler()
	briefingHandler := handlers.NewBriefingHandler(cfg.LandingConfig.MaxPromptLength, cfg.Logger)
	sellerbot := handlers.NewSellerbotHandler(cfg.Replier, cfg.Store, cfg.Logger)

	generationLimit := middleware.NewRateLimitMiddleware(limiter, "generate", cfg.RateLimits.GenerationsPerMin, middleware.BySessionOrIP, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/landing-pages", func(r chi.Router) {
			r.With(generationLimit.Handler).Post("/", landing.Create)
			r.Get("/{id}", landing.Get)
			r.Get("/{id}/html", landing.HTML)
			r.Get("/{id}/download", landing.Download)
			r.Put("/{id}/images", landing.UpdateImages)
			r.Post("/{id}/export", landing.Export)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templateHandler.List)
			r.Get("/select", templateHandler.Select)
			r.Get("/{id}", templateHandler.Get)
		})

		r.Post("/briefings/normalize", briefingHandler.Normalize)
		r.Post("/sellerbot/chat", sellerbot.Chat)
	})

	return &Router{
		Router: r,
		logger: cfg.Logger,
	}
}

// healthHandler returns basic health status
func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

// readyHandler runs every dependency check with a short deadline
func readyHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		results := make(map[string]string, len(names))
		allHealthy := true
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				results[name] = "unhealthy: " + err.Error()
				allHealthy = false
				continue
			}
			results[name] = "healthy"
		}

		status := http.StatusOK
		statusText := "ready"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		httputil.JSON(w, status, map[string]any{
			"status": statusText,
			"checks": results,
		})
	}
}
