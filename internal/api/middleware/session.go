// Package middleware holds the HTTP middleware of the API.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Headers read by the API
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"
)

// maxSessionIDLen bounds client-chosen session keys.
const maxSessionIDLen = 128

type contextKey string

// ContextKeySessionID holds the caller's session key
const ContextKeySessionID contextKey = "session_id"

// GetSessionID extracts the caller's session key from context
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeySessionID).(string)
	return id, ok && id != ""
}

// Session copies X-Session-ID into the request context. The session key only groups
// generations for cancellation; it grants nothing.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderSessionID))
		if id == "" || len(id) > maxSessionIDLen {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeySessionID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
