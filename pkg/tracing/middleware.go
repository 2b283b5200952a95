package tracing

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// NewTracingMiddleware starts a server span per request, continuing any
// trace propagated in the request headers. The span is named after the
// matched chi route once the handler has run.
func NewTracingMiddleware(t Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := t.StartSpanFromHeader(r.Context(), r.Header, "HTTP "+r.Method)
			defer span.End()

			t.InjectHTTP(ctx, w.Header())

			r = r.WithContext(ctx)
			rw := NewResponseWriter(w)
			next.ServeHTTP(rw, r)

			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					span.SetName(r.Method + " " + pattern)
					span.SetAttributes(semconv.HTTPRoute(pattern))
				}
			}

			span.SetAttributes(
				semconv.HTTPMethod(strings.ToUpper(r.Method)),
				attribute.String("http.url", r.URL.String()),
				semconv.HTTPStatusCode(rw.Status()),
			)
			if rw.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.Status()))
			}
		})
	}
}

// NewResponseWriter creates a new ResponseWriter from a http.ResponseWriter.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// ResponseWriter is a wrapper around http.ResponseWriter that records the
// status code written by the handler.
type ResponseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader saves the status code and calls the original ResponseWriter's WriteHeader.
func (rw *ResponseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Status returns the status code of the response or 200 if the response has not been
// written (as this is the HTTP default).
func (rw *ResponseWriter) Status() int {
	return rw.status
}
