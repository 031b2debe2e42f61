package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/interfaces/httpapi")

// handlerSpan opens a child of the otelhttp server span. Requests that were
// filtered out of tracing get the non-recording span already on the context.
func handlerSpan(r *http.Request, op string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, "httpapi."+op)
}
