package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
)

// ObservabilityMiddleware opens a span per request and records request metrics. metrics may be nil.
// Change streams get a span but no metric sample: their duration is the connection lifetime.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeLabel(r)

			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+route)
			defer span.End()
			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
			)

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			observability.SetSpanAttributes(span,
				attribute.Int("http.status_code", rec.statusCode),
				attribute.Int("http.response_size", rec.bytes),
			)
			if rec.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.statusCode))
			}

			if metrics != nil && !isStream(r) {
				observability.RecordRequestMetric(ctx, metrics, r.Method, route, rec.statusCode, time.Since(start))
			}
		})
	}
}

// routeLabel keeps ids out of metric labels: /api/clinics/4 becomes /api/clinics/{id}
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		if _, path, ok := strings.Cut(r.Pattern, " "); ok {
			return path
		}
		return r.Pattern
	}
	parts := strings.Split(r.URL.Path, "/")
	for i, part := range parts {
		if part != "" && strings.Trim(part, "0123456789") == "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
