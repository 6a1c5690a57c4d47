package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/pkg/httputil"
)

// RateLimiter counts hits per key in a fixed window.
// repository.GenerationStore implementations satisfy it.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error)
}

// KeyFunc picks the bucket a request is counted in.
type KeyFunc func(r *http.Request) string

// ByClientIP buckets requests by client address
func ByClientIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// BySessionOrIP buckets by session key when one is sent, else by client address
func BySessionOrIP(r *http.Request) string {
	if id, ok := GetSessionID(r.Context()); ok {
		return "session:" + id
	}
	return ByClientIP(r)
}

// RateLimitMiddleware provides rate limiting functionality
type RateLimitMiddleware struct {
	limiter RateLimiter
	scope   string
	limit   int
	keyFunc KeyFunc
	logger  *zap.Logger
}

// NewRateLimitMiddleware creates a rate limiter for one scope. A nil limiter or
// a non-positive limit disables it.
func NewRateLimitMiddleware(limiter RateLimiter, scope string, limit int, keyFunc KeyFunc, logger *zap.Logger) *RateLimitMiddleware {
	if keyFunc == nil {
		keyFunc = ByClientIP
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimitMiddleware{
		limiter: limiter,
		scope:   scope,
		limit:   limit,
		keyFunc: keyFunc,
		logger:  logger,
	}
}

// Handler returns the middleware handler
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil || m.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		switch r.URL.Path {
		case "/health", "/ready", "/metrics":
			next.ServeHTTP(w, r)
			return
		}

		key := m.scope + ":" + m.keyFunc(r)
		allowed, count, err := m.limiter.CheckRateLimit(r.Context(), key, m.limit)
		if err != nil {
			// Fail open: a store outage must not take the API down.
			m.logger.Warn("rate limit check failed", zap.String("scope", m.scope), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		remaining := m.limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			httputil.ErrorFromDomain(w, domain.ErrRateLimited(time.Minute))
			return
		}

		next.ServeHTTP(w, r)
	})
}
