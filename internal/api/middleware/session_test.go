package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSession(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"no header", "", "", false},
		{"trimmed", "  tab-1 ", "tab-1", true},
		{"too long", strings.Repeat("x", maxSessionIDLen+1), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got string
				ok  bool
			)
			h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok = GetSessionID(r.Context())
			}))

			req := httptest.NewRequest("POST", "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderSessionID, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if echoed := rec.Header().Get(HeaderSessionID); echoed != "" {
				t.Errorf("response %s = %q, want none", HeaderSessionID, echoed)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("GetSessionID() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.1:80", "198.51.100.2"},
		{"invalid forwarded falls through", map[string]string{"X-Forwarded-For": "garbage"}, "192.0.2.1:4444", "192.0.2.1"},
		{"remote addr", nil, "192.0.2.1:4444", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
