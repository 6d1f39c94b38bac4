package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/farmlabs/farming-engine/internal/observability/metrics"
	"github.com/farmlabs/farming-engine/internal/observability/tracing"
	"github.com/farmlabs/farming-engine/internal/types"
)

// CallerHeader carries the address of the account performing an operation.
// The engine only checks authorization. The header is authenticated either
// by an upstream proxy or, when server.api-token is set, by requiring that
// token on every state changing request.
const CallerHeader = "X-Caller"

// bearerTokenMiddleware rejects requests that do not carry the configured
// token in the Authorization header.
func bearerTokenMiddleware(token string) func(http.Handler) http.Handler {
	expected := []byte("Bearer " + token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			if subtle.ConstantTimeCompare(got, expected) != 1 {
				writeError(w, r, types.NewErrorWithMsg(http.StatusUnauthorized, types.Unauthorized, "missing or invalid api token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(tracing.TraceIDHeader)
		ctx := tracing.WithTraceID(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequestDuration(time.Since(start), r.Method, route, status)
	})
}
