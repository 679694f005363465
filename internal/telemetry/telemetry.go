// Package telemetry installs the OpenTelemetry tracer provider for a run.
//
// Spans are exported over OTLP (HTTP or gRPC) only when an endpoint is
// configured. Without one the global provider stays the no-op default.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/pfrederiksen/akleg-senators/internal/logger"
)

const (
	ProtocolHTTP = "http"
	ProtocolGRPC = "grpc"

	exporterTimeout = 3 * time.Second
)

// Config selects the OTLP trace exporter.
type Config struct {
	Endpoint string // empty disables export
	Protocol string // ProtocolHTTP (default) or ProtocolGRPC
	Headers  map[string]string
}

// Telemetry owns the installed tracer provider. The zero value is a no-op.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
}

// Enabled reports whether spans are being exported.
func (t Telemetry) Enabled() bool {
	return t.TracerProvider != nil
}

// Shutdown flushes pending spans and stops the exporter.
func (t Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}
	var errs []error
	if err := t.TracerProvider.ForceFlush(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Setup installs a global tracer provider exporting to cfg.Endpoint. With no
// endpoint it installs nothing and returns the zero Telemetry.
func Setup(ctx context.Context, serviceName string, cfg Config) (Telemetry, error) {
	if cfg.Endpoint == "" {
		return Telemetry{}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return Telemetry{}, fmt.Errorf("creating %s trace exporter: %w", cfg.Protocol, err)
	}

	tel, err := Install(serviceName, exporter)
	if err != nil {
		return Telemetry{}, err
	}

	logger.Info("trace export initialized", logger.Fields{
		"protocol": protocol(cfg),
		"endpoint": cfg.Endpoint,
		"headers":  len(cfg.Headers) > 0,
	})
	return tel, nil
}

// Install makes exporter the destination of every span started through the
// global otel API.
func Install(serviceName string, exporter sdktrace.SpanExporter) (Telemetry, error) {
	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, fmt.Errorf("building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	return Telemetry{TracerProvider: tp}, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func protocol(cfg Config) string {
	if cfg.Protocol == "" {
		return ProtocolHTTP
	}
	return cfg.Protocol
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	switch protocol(cfg) {
	case ProtocolGRPC:
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(cfg.Endpoint),
			otlptracegrpc.WithHeaders(cfg.Headers),
		)
	case ProtocolHTTP:
		return otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(cfg.Endpoint),
			otlptracehttp.WithHeaders(cfg.Headers),
		)
	default:
		return nil, fmt.Errorf("unknown protocol %q", cfg.Protocol)
	}
}
