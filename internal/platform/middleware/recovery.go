package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "selfid/pkg/domain-errors"
	"selfid/pkg/platform/httputil"
	"selfid/pkg/requestcontext"
)

// Recovery converts handler panics into 500 responses instead of killing the
// connection. http.ErrAbortHandler is re-raised per net/http convention.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "handler panicked",
					"panic", rec,
					"stack", string(debug.Stack()),
					"request_id", requestcontext.RequestID(r.Context()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
