package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avelex/tradehook/internal/domain"
)

// Authorizer decides whether a claimed source IP may invoke a resource.
type Authorizer interface {
	Authorize(ctx context.Context, clientIP, resource string) domain.AuthDecision
}

// IPAllowList returns middleware that gates every request through the
// allow-list authorizer before any handler runs. The caller's IP is taken
// from forwardedHeader; requests without the header are denied (fail-closed).
func IPAllowList(authorizer Authorizer, forwardedHeader string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := forwardedIP(r, forwardedHeader)
			resource := r.Method + " " + r.URL.Path

			decision := authorizer.Authorize(r.Context(), clientIP, resource)
			if !decision.Allowed() {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// forwardedIP extracts the claimed source IP: the first entry of the
// configured forwarding header. The value is only as trustworthy as the edge
// that sets it; an edge that appends rather than overwrites leaves this
// spoofable.
func forwardedIP(r *http.Request, header string) string {
	value := r.Header.Get(header)
	if value == "" {
		return ""
	}
	if i := strings.IndexByte(value, ','); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

// writeUnauthorized sends a 401 response with a JSON error body.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
