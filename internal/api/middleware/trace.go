// Package middleware contains the HTTP middleware specific to this service.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/instarag/internal/api/shared"
	"github.com/phrazzld/instarag/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that adds a trace ID to the request
// context and the X-Trace-ID response header. Apply it early in the chain so
// that every later handler and error response can use the ID. The logger is
// stored in the request context for the shared response helpers.
func NewTraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithLogger(shared.SetTraceID(r.Context()), log)
			traceID := shared.GetTraceID(ctx)
			w.Header().Set(shared.TraceIDHeader, traceID)

			log.DebugContext(ctx, "request started",
				slog.String("trace_id", traceID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
