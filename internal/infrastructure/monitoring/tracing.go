package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/certverify/internal/config"
	"github.com/turtacn/certverify/pkg/logger"
)

const tracerName = "github.com/turtacn/certverify"

// TracingManager owns the OpenTelemetry tracer provider. Spans are sampled
// and propagated so trace IDs appear in logs and downstream calls; no span
// exporter is configured.
type TracingManager struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	logger   logger.Logger
}

// NewTracingManager creates the tracer provider when tracing is enabled and
// installs it, with the W3C propagators, as the global provider.
func NewTracingManager(cfg *config.TracingConfig, environment string, log logger.Logger) (*TracingManager, error) {
	ctx := context.Background()
	if !cfg.Enabled {
		log.Info(ctx, "Tracing is disabled")
		return &TracingManager{tracer: otel.Tracer(tracerName), logger: log}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			attribute.String("environment", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info(ctx, "Tracing initialized successfully",
		logger.String("service_name", cfg.ServiceName),
		logger.Any("sampling_rate", cfg.SamplingRate),
	)

	return &TracingManager{
		tracer:   provider.Tracer(tracerName),
		provider: provider,
		logger:   log,
	}, nil
}

// Tracer returns the service tracer.
func (m *TracingManager) Tracer() trace.Tracer {
	return m.tracer
}

// Shutdown flushes and stops the provider.
func (m *TracingManager) Shutdown(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}
	if err := m.provider.Shutdown(ctx); err != nil {
		m.logger.Error(ctx, "Failed to shutdown tracer provider", err)
		return err
	}
	return nil
}
