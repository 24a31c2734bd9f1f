// backend/src/handlers/middleware.go
package handlers

import (
	"net/http"
	"time"

	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// ContextualLoggerMiddleware attaches a request-scoped logger (carrying the
// request id, method and path) to the context and logs one line per request.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.L.With(
			"requestID", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx := logger.ToContext(r.Context(), reqLogger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLogger.Info("Request handled",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"durationMs", time.Since(start).Milliseconds(),
		)
	})
}
