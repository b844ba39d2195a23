package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
)

func tracedFixture(t *testing.T) (*fixture, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return newFixtureWith(t, workflow.Options{Tracer: tp.Tracer("erp/workflow")}), sr
}

func endedSpans(sr *tracetest.SpanRecorder, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range sr.Ended() {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

func spanAttr(s sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

func TestEngineSpans_ConfirmSalesOrder(t *testing.T) {
	f, sr := tracedFixture(t)
	ctx := context.Background()
	f.stockUp(t, "prod-x", "10", "1")
	so := f.salesOrder(t, "prod-x", "2", "5", "0")

	_, err := f.engine.ConfirmSalesOrder(ctx, so.ID, testUser)
	require.NoError(t, err)

	spans := endedSpans(sr, "ConfirmSalesOrder")
	require.Len(t, spans, 1)
	ok := spans[0]
	docID, found := spanAttr(ok, "erp.document_id")
	require.True(t, found)
	assert.Equal(t, so.ID, docID)
	companyID, found := spanAttr(ok, "erp.company_id")
	require.True(t, found)
	assert.Equal(t, f.companyID, companyID)
	assert.Equal(t, codes.Unset, ok.Status().Code)

	// la segunda confirmación falla y el span queda en error con el evento registrado
	_, err = f.engine.ConfirmSalesOrder(ctx, so.ID, testUser)
	require.Error(t, err)

	spans = endedSpans(sr, "ConfirmSalesOrder")
	require.Len(t, spans, 2)
	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Equal(t, err.Error(), failed.Status().Description)
	require.NotEmpty(t, failed.Events())
	assert.Equal(t, "exception", failed.Events()[0].Name)
}

func TestEngineSpans_CadaOperacionConSuNombre(t *testing.T) {
	f, sr := tracedFixture(t)
	f.stockUp(t, "prod-x", "10", "60")
	inv := f.invoicedOrder(t, "prod-x", "5", "100", "50")

	_, err := f.engine.ReceivePayment(context.Background(), workflow.PaymentInput{
		CompanyID: f.companyID, CounterpartyID: f.customerID, InvoiceIDs: []string{inv.ID}, Amount: d("550"),
	})
	require.NoError(t, err)

	for _, name := range []string{
		"CreatePurchaseOrder", "ConfirmPurchaseOrder", "ReceiveGoodsFromPurchaseOrder",
		"CreateSalesOrder", "ConfirmSalesOrder", "CreateDeliveryFromSalesOrder",
		"CreateInvoiceFromSalesOrder", "ReceivePayment",
	} {
		assert.NotEmpty(t, endedSpans(sr, name), name)
	}

	pay := endedSpans(sr, "ReceivePayment")[0]
	companyID, _ := spanAttr(pay, "erp.company_id")
	assert.Equal(t, f.companyID, companyID)
	assert.Contains(t, pay.Attributes(), attribute.String("erp.document_id", f.customerID))
}
