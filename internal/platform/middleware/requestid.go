// Package middleware holds the HTTP middleware chain: request identity,
// logging, panic recovery and JWT authentication.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"selfid/pkg/requestcontext"
)

// HeaderRequestID is honored when the caller supplies its own correlation ID.
const HeaderRequestID = "X-Request-ID"

// RequestID tags every request with a correlation ID and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
