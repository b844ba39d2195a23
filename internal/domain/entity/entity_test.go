package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─────────────────────────────────────────────────────────────────────────────
// Máquinas de estado
// ─────────────────────────────────────────────────────────────────────────────

func TestSalesOrderStatus_TransicionesPermitidas(t *testing.T) {
	cases := []struct {
		from, to SalesOrderStatus
		ok       bool
	}{
		{SalesOrderDraft, SalesOrderConfirmed, true},
		{SalesOrderDraft, SalesOrderCancelled, true},
		{SalesOrderConfirmed, SalesOrderDelivered, true},
		{SalesOrderConfirmed, SalesOrderCancelled, true},
		{SalesOrderDelivered, SalesOrderInvoiced, true},
		{SalesOrderDraft, SalesOrderDelivered, false},
		{SalesOrderDelivered, SalesOrderCancelled, false},
		{SalesOrderInvoiced, SalesOrderDelivered, false},
		{SalesOrderConfirmed, SalesOrderDraft, false},
		{SalesOrderCancelled, SalesOrderConfirmed, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
	assert.True(t, SalesOrderInvoiced.IsTerminal())
	assert.True(t, SalesOrderCancelled.IsTerminal())
}

func TestPurchaseOrderStatus_TransicionesPermitidas(t *testing.T) {
	assert.True(t, PurchaseOrderDraft.CanTransitionTo(PurchaseOrderOrdered))
	assert.True(t, PurchaseOrderOrdered.CanTransitionTo(PurchaseOrderReceived))
	assert.True(t, PurchaseOrderReceived.CanTransitionTo(PurchaseOrderBilled))
	assert.True(t, PurchaseOrderOrdered.CanTransitionTo(PurchaseOrderCancelled))
	assert.False(t, PurchaseOrderReceived.CanTransitionTo(PurchaseOrderCancelled))
	assert.False(t, PurchaseOrderBilled.CanTransitionTo(PurchaseOrderReceived))
	assert.True(t, PurchaseOrderBilled.IsTerminal())
}

func TestSalesOrder_TransitionToSellaFechas(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o := &SalesOrder{ID: "so1", Status: SalesOrderDraft}

	require.NoError(t, o.TransitionTo(SalesOrderConfirmed, now))
	assert.Equal(t, SalesOrderConfirmed, o.Status)
	require.NotNil(t, o.ConfirmedAt)
	assert.Equal(t, now, *o.ConfirmedAt)

	err := o.TransitionTo(SalesOrderInvoiced, now)
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "confirmed", te.Current)
	assert.Equal(t, []string{"delivered"}, te.Required)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, SalesOrderConfirmed, o.Status)
}

func TestPurchaseOrder_CancelarRequiereEstadoAbierto(t *testing.T) {
	o := &PurchaseOrder{ID: "po1", Status: PurchaseOrderReceived}
	err := o.TransitionTo(PurchaseOrderCancelled, time.Now())

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, []string{"draft", "ordered"}, te.Required)
}

// ─────────────────────────────────────────────────────────────────────────────
// Documento transaccional
// ─────────────────────────────────────────────────────────────────────────────

func TestTransactionalDocument_TotalesDesdeLineas(t *testing.T) {
	lines := []OrderLine{
		{LineNo: 1, Quantity: d("5"), UnitPrice: d("100"), LineTotal: d("500"), TaxAmount: d("50")},
		{LineNo: 2, Quantity: d("2"), UnitPrice: d("12.5"), LineTotal: d("25"), TaxAmount: d("0")},
	}
	docs := []TransactionalDocument{
		&SalesOrder{ID: "so", CompanyID: "c", Lines: lines},
		&PurchaseOrder{ID: "po", CompanyID: "c", Lines: lines},
	}
	for _, doc := range docs {
		sub, tax, total := doc.Totals()
		assert.True(t, sub.Equal(d("525")))
		assert.True(t, tax.Equal(d("50")))
		assert.True(t, total.Equal(d("575")))
		assert.Equal(t, "c", doc.DocumentCompanyID())
		assert.Len(t, doc.OrderLines(), 2)
	}
}

func TestSalesOrder_CloneNoComparteLineas(t *testing.T) {
	o := &SalesOrder{ID: "so1", Lines: []OrderLine{{ID: "l1", Quantity: d("1")}}}
	c := o.Clone()
	c.Lines[0].Quantity = d("9")
	assert.True(t, o.Lines[0].Quantity.Equal(d("1")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Stock, reservas y facturas
// ─────────────────────────────────────────────────────────────────────────────

func TestStockLevel_ApplyRecalculaDisponible(t *testing.T) {
	s := NewStockLevel(StockKey{CompanyID: "c", ProductID: "p", WarehouseID: "w"}, time.Now())
	s.Apply(StockDelta{OnHand: d("10")}, time.Now())
	s.Apply(StockDelta{Reserved: d("4")}, time.Now())

	assert.True(t, s.QuantityAvailable.Equal(d("6")))
	cost := d("12.5")
	s.Apply(StockDelta{OnHand: d("-4"), Reserved: d("-4"), AverageCost: &cost}, time.Now())
	assert.True(t, s.QuantityOnHand.Equal(d("6")))
	assert.True(t, s.QuantityReserved.IsZero())
	assert.True(t, s.QuantityAvailable.Equal(d("6")))
	assert.True(t, s.AverageCost.Equal(cost))
}

func TestStockReservation_ConsumeYRelease(t *testing.T) {
	r := &StockReservation{QuantityReserved: d("5"), QuantityFulfilled: decimal.Zero, Status: ReservationActive}
	r.Consume(d("2"), time.Now())
	assert.Equal(t, ReservationActive, r.Status)
	assert.True(t, r.Remaining().Equal(d("3")))

	assert.True(t, r.Release(time.Now()).Equal(d("3")))
	assert.Equal(t, ReservationReleased, r.Status)

	r2 := &StockReservation{QuantityReserved: d("5"), QuantityFulfilled: decimal.Zero, Status: ReservationActive}
	r2.Consume(d("5"), time.Now())
	assert.Equal(t, ReservationFulfilled, r2.Status)
}

func TestInvoice_ApplyPaymentEstados(t *testing.T) {
	inv := &Invoice{Total: d("550"), AmountPaid: decimal.Zero, AmountDue: d("550"), Status: InvoicePosted}

	inv.ApplyPayment(d("200"), time.Now())
	assert.Equal(t, InvoicePartiallyPaid, inv.Status)
	assert.True(t, inv.AmountDue.Equal(d("350")))

	inv.ApplyPayment(d("350"), time.Now())
	assert.Equal(t, InvoicePaid, inv.Status)
	assert.True(t, inv.AmountDue.IsZero())
	assert.True(t, inv.AmountDue.Equal(inv.Total.Sub(inv.AmountPaid)))
}
