package auth

import (
	"net/http"
	"strings"

	"github.com/JustinTDCT/pifindex/internal/httputil"
)

// Middleware wraps a Checker as chi-compatible HTTP middleware.
type Middleware struct {
	checker *Checker
}

// NewMiddleware builds a Middleware from an already-hashed Checker.
func NewMiddleware(checker *Checker) *Middleware {
	return &Middleware{checker: checker}
}

// RequireKey rejects requests whose bearer token doesn't match the
// configured API key. When auth is disabled (empty configured key),
// every request passes.
func (m *Middleware) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.checker.Check(extractToken(r)); err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.Header.Get("X-API-Key")
}
