package observability

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// TracingMiddleware adds distributed tracing to HTTP requests
func TracingMiddleware() func(http.Handler) http.Handler {
	tracer := otel.Tracer(instrumentationName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			propagator := otel.GetTextMapPropagator()
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
					attribute.String("http.host", r.Host),
					attribute.String("http.user_agent", r.UserAgent()),
					attribute.String("net.peer.ip", r.RemoteAddr),
				),
			)
			defer span.End()

			rw := newResponseWriter(w)
			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			next.ServeHTTP(rw, r.WithContext(ctx))

			span.SetAttributes(
				attribute.Int("http.status_code", rw.statusCode),
				attribute.Int64("http.response_content_length", rw.size),
			)
			if rw.statusCode >= 400 {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			} else {
				span.SetStatus(codes.Ok, "")
			}
		})
	}
}

// CollabMetrics holds collaboration event counters
type CollabMetrics struct {
	editsApplied     metric.Int64Counter
	editsDenied      metric.Int64Counter
	annotationsAdded metric.Int64Counter
	sessionsCreated  metric.Int64Counter
	eventsPublished  metric.Int64Counter
}

// NewCollabMetrics creates the collaboration metric instruments
func NewCollabMetrics() (*CollabMetrics, error) {
	meter := otel.Meter(instrumentationName)

	editsApplied, err := meter.Int64Counter(
		"collab.edits.applied",
		metric.WithDescription("Edit operations applied to document replicas"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return nil, err
	}

	editsDenied, err := meter.Int64Counter(
		"collab.edits.denied",
		metric.WithDescription("Edit operations rejected by access control"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return nil, err
	}

	annotationsAdded, err := meter.Int64Counter(
		"collab.annotations.added",
		metric.WithDescription("Annotations anchored to documents"),
		metric.WithUnit("{annotations}"),
	)
	if err != nil {
		return nil, err
	}

	sessionsCreated, err := meter.Int64Counter(
		"collab.sessions.created",
		metric.WithDescription("Collaboration sessions created"),
		metric.WithUnit("{sessions}"),
	)
	if err != nil {
		return nil, err
	}

	eventsPublished, err := meter.Int64Counter(
		"collab.events.published",
		metric.WithDescription("Events fanned out on the collaboration bus"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, err
	}

	return &CollabMetrics{
		editsApplied:     editsApplied,
		editsDenied:      editsDenied,
		annotationsAdded: annotationsAdded,
		sessionsCreated:  sessionsCreated,
		eventsPublished:  eventsPublished,
	}, nil
}

// RecordEdit counts an edit attempt by outcome
func (m *CollabMetrics) RecordEdit(ctx context.Context, applied bool) {
	if applied {
		m.editsApplied.Add(ctx, 1)
	} else {
		m.editsDenied.Add(ctx, 1)
	}
}

// RecordAnnotation counts an anchored annotation
func (m *CollabMetrics) RecordAnnotation(ctx context.Context) {
	m.annotationsAdded.Add(ctx, 1)
}

// RecordSessionCreated counts a created session
func (m *CollabMetrics) RecordSessionCreated(ctx context.Context) {
	m.sessionsCreated.Add(ctx, 1)
}

// RecordEventPublished counts a bus event by family
func (m *CollabMetrics) RecordEventPublished(ctx context.Context, family string) {
	m.eventsPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("event.family", family)))
}
