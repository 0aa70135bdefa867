// Package middleware provides reusable HTTP middleware for request IDs,
// Prometheus metrics, and request timeouts.
package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"webseek/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context and response headers,
// generating one when the client did not supply it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf[:])
}
