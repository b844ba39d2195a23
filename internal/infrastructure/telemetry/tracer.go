// Package telemetry instala el proveedor de trazas OpenTelemetry del proceso.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/erp-workflow-api/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// TracerProvider envuelve el proveedor del SDK. Con la telemetría deshabilitada
// provider queda en nil y los tracers salen del proveedor global (no-op).
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	log      zerolog.Logger
}

// NewTracerProvider crea el exportador OTLP gRPC y registra el proveedor como global.
func NewTracerProvider(ctx context.Context, cfg config.TelemetryConfig, log zerolog.Logger) (*TracerProvider, error) {
	if !cfg.Enabled {
		log.Info().Msg("telemetría deshabilitada, trazas no-op")
		return &TracerProvider{log: log}, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("crear exportador OTLP: %w", err)
	}

	tp, err := newWithExporter(cfg, exporter, log)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info().
		Str("collector_endpoint", cfg.CollectorEndpoint).
		Float64("sampling_ratio", cfg.SamplingRatio).
		Str("service_name", cfg.ServiceName).
		Msg("proveedor de trazas OpenTelemetry inicializado")
	return tp, nil
}

func newWithExporter(cfg config.TelemetryConfig, exporter sdktrace.SpanExporter, log zerolog.Logger) (*TracerProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("crear recurso: %w", err)
	}
	return &TracerProvider{
		provider: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(samplerFor(cfg.SamplingRatio))),
		),
		log: log,
	}, nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}

// Enabled indica si hay un proveedor del SDK exportando.
func (tp *TracerProvider) Enabled() bool {
	return tp.provider != nil
}

// Tracer tracer con nombre; sin SDK se delega al proveedor global.
func (tp *TracerProvider) Tracer(name string) trace.Tracer {
	if tp.provider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return tp.provider.Tracer(name)
}

// ForceFlush exporta los spans pendientes.
func (tp *TracerProvider) ForceFlush(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	return tp.provider.ForceFlush(ctx)
}

// Shutdown vacía el lote pendiente y cierra el exportador.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := tp.provider.Shutdown(ctx); err != nil {
		tp.log.Error().Err(err).Msg("cerrar proveedor de trazas")
		return fmt.Errorf("cerrar proveedor de trazas: %w", err)
	}
	return nil
}
