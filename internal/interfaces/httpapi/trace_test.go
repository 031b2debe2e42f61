package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestHandlerSpan_UntracedRequestStaysNonRecording(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	ctx, span := handlerSpan(req, "Healthz")
	defer span.End()

	assert.False(t, span.IsRecording())
	assert.Equal(t, req.Context(), ctx)
}

func TestHandlerSpan_KeepsParentTrace(t *testing.T) {
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0x42, 0x42},
		SpanID:     trace.SpanID{0x01},
		TraceFlags: trace.FlagsSampled,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/teams/merge", nil)
	req = req.WithContext(trace.ContextWithRemoteSpanContext(context.Background(), parent))

	ctx, span := handlerSpan(req, "MergeTeams")
	defer span.End()

	assert.Equal(t, parent.TraceID(), trace.SpanContextFromContext(ctx).TraceID())
}

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /healthz ", want: false},
		{path: "/readyz", want: false},
		{path: "/openapi.yaml", want: false},
		{path: "/v1/catalog/clubs", want: true},
		{path: "/v1/leagues/51961/sync", want: true},
		{path: "/docs", want: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, shouldTraceRequest(tt.path), tt.path)
	}
}
