package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func restoreProvider(t *testing.T) {
	t.Helper()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestSetup_NoEndpoint(t *testing.T) {
	restoreProvider(t)
	prev := otel.GetTracerProvider()

	tel, err := Setup(context.Background(), "akleg-senators", Config{})
	require.NoError(t, err)
	require.False(t, tel.Enabled())
	require.Equal(t, prev, otel.GetTracerProvider())
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetup_UnknownProtocol(t *testing.T) {
	restoreProvider(t)

	_, err := Setup(context.Background(), "akleg-senators", Config{
		Endpoint: "http://localhost:4318",
		Protocol: "udp",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown protocol")
}

func TestSetup_HTTPExportOnShutdown(t *testing.T) {
	restoreProvider(t)

	var requests atomic.Int32
	var header atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		header.Store(r.Header.Get("X-Team"))
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tel, err := Setup(context.Background(), "akleg-senators", Config{
		Endpoint: srv.URL + "/v1/traces",
		Headers:  map[string]string{"X-Team": "data"},
	})
	require.NoError(t, err)
	require.True(t, tel.Enabled())

	_, span := otel.Tracer("test").Start(context.Background(), "Run")
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))
	require.Positive(t, requests.Load())
	require.Equal(t, "data", header.Load())
}

func TestInstall_RecordsSpans(t *testing.T) {
	restoreProvider(t)

	exp := tracetest.NewInMemoryExporter()
	tel, err := Install("akleg-senators", exp)
	require.NoError(t, err)

	ctx, parent := otel.Tracer("test").Start(context.Background(), "Run")
	_, child := otel.Tracer("test").Start(ctx, "ScrapeProfile")
	child.End()
	parent.End()

	require.NoError(t, tel.TracerProvider.ForceFlush(context.Background()))
	spans := exp.GetSpans()
	require.Len(t, spans, 2)
	require.Equal(t, "ScrapeProfile", spans[0].Name)
	require.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	require.Contains(t, spans[1].Resource.Attributes(), semconv.ServiceName("akleg-senators"))

	require.NoError(t, tel.Shutdown(context.Background()))
}
