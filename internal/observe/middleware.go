package observe

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// statusTap wraps [http.ResponseWriter] so the middleware can read the status
// code the downstream handler wrote.
type statusTap struct {
	http.ResponseWriter
	status int
}

func (t *statusTap) WriteHeader(code int) {
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

// Middleware instruments the metrics/health mux. Each request is joined onto
// any incoming W3C trace (or starts a fresh one), answered with the trace ID
// in X-Correlation-ID, and recorded to [Metrics.HTTPRequestDuration] under
// its matched route pattern — the pattern, not the raw URL, so an errant
// client cannot blow up metric cardinality.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	prop := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := StartSpan(ctx, "HTTP "+r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			if cid := CorrelationID(ctx); cid != "" {
				w.Header().Set("X-Correlation-ID", cid)
			}
			prop.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			tap := &statusTap{ResponseWriter: w, status: http.StatusOK}
			r = r.WithContext(ctx)
			next.ServeHTTP(tap, r)

			// The mux fills in Pattern while routing; unmatched requests
			// (404s) fall back to the raw path.
			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}

			elapsed := time.Since(start)
			m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(),
				metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("route", route),
					attribute.Int("status", tap.status),
				),
			)
			span.SetAttributes(
				semconv.HTTPResponseStatusCode(tap.status),
				semconv.HTTPRoute(route),
			)

			slog.LogAttrs(ctx, slog.LevelInfo, "http request served",
				slog.String("trace_id", CorrelationID(ctx)),
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", tap.status),
				slog.Duration("elapsed", elapsed),
			)
		})
	}
}
