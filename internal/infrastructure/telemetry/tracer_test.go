package telemetry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jhoicas/erp-workflow-api/pkg/config"
)

func TestNewTracerProvider_Deshabilitado(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, config.TelemetryConfig{Enabled: false}, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, tp.Enabled())
	assert.NotNil(t, tp.Tracer("erp/workflow"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewWithExporter_ExportaConServicio(t *testing.T) {
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := newWithExporter(config.TelemetryConfig{Enabled: true, SamplingRatio: 1, ServiceName: "erp-test"}, exporter, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, tp.Enabled())

	_, span := tp.Tracer("erp/workflow").Start(ctx, "ConfirmSalesOrder")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "ConfirmSalesOrder", spans[0].Name)
	assert.Contains(t, spans[0].Resource.Attributes(), attribute.String("service.name", "erp-test"))

	require.NoError(t, tp.Shutdown(ctx))
}

func TestNewWithExporter_MuestreoCero(t *testing.T) {
	ctx := context.Background()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := newWithExporter(config.TelemetryConfig{Enabled: true, SamplingRatio: 0, ServiceName: "erp-test"}, exporter, zerolog.Nop())
	require.NoError(t, err)

	_, span := tp.Tracer("erp/workflow").Start(ctx, "ReceivePayment")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))
	assert.Empty(t, exporter.GetSpans())
	require.NoError(t, tp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), samplerFor(0.5).Description())
}
