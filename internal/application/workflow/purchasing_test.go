package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

func TestProcureToPay_FullCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const product = "prod-tornillo"

	po, err := f.engine.CreatePurchaseOrder(ctx, workflow.DraftOrderInput{
		CompanyID:      f.companyID,
		CounterpartyID: f.vendorID,
		WarehouseID:    f.warehouseID,
		Lines:          []workflow.DraftLine{{ProductID: product, Quantity: d("10"), UnitPrice: d("20"), TaxAmount: d("38")}},
	})
	require.NoError(t, err)

	// enviar al proveedor: cantidad en camino
	conf, err := f.engine.ConfirmPurchaseOrder(ctx, po.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderOrdered, conf.Order.Status)
	assert.Equal(t, "PO-000001", conf.Order.Number)
	assert.True(t, f.level(t, product).QuantityOnOrder.Equal(d("10")))

	// recibir en un nivel vacío: promedio 20, existencias 10, en camino 0
	rec, err := f.engine.ReceiveGoodsFromPurchaseOrder(ctx, po.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, rec.Order.Status)
	assert.Equal(t, "GR-000001", rec.Receipt.Number)
	require.Len(t, rec.Movements, 1)
	assert.Equal(t, entity.MovementTypeReceipt, rec.Movements[0].Type)
	assert.True(t, rec.Movements[0].Quantity.Equal(d("10")))
	assert.True(t, rec.Receipt.TotalCost.Equal(d("200")))
	require.NotNil(t, rec.JournalEntry)
	assert.True(t, rec.JournalEntry.TotalDebit.Equal(d("200")))

	lvl := f.level(t, product)
	assert.True(t, lvl.AverageCost.Equal(d("20")))
	assert.True(t, lvl.QuantityOnHand.Equal(d("10")))
	assert.True(t, lvl.QuantityOnOrder.IsZero())

	// factura de proveedor: cruce de GRNI, IVA descontable y cuenta por pagar
	bill, err := f.engine.CreateVendorInvoice(ctx, po.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, "BILL-000001", bill.Invoice.Number)
	assert.Equal(t, entity.InvoiceVendor, bill.Invoice.Type)
	assert.True(t, bill.Invoice.Total.Equal(d("238")))
	assert.True(t, bill.JournalEntry.TotalCredit.Equal(d("238")))
	assert.True(t, bill.LedgerEntry.Credit.Equal(d("238")))
	assert.True(t, bill.LedgerEntry.RunningBalance.Equal(d("238")))

	// pago parcial al proveedor
	pay, err := f.engine.MakeVendorPayment(ctx, workflow.PaymentInput{
		CompanyID:      f.companyID,
		CounterpartyID: f.vendorID,
		InvoiceIDs:     []string{bill.Invoice.ID},
		Amount:         d("100"),
		Method:         "transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY-000001", pay.Payment.Number)
	assert.Equal(t, entity.InvoicePartiallyPaid, pay.Invoices[0].Status)
	assert.True(t, pay.Invoices[0].AmountDue.Equal(d("138")))
	assert.True(t, pay.LedgerEntry.Debit.Equal(d("100")))
	assert.True(t, pay.LedgerEntry.RunningBalance.Equal(d("138")))

	ap, err := f.engine.ListLedger(ctx, entity.LedgerKey{CompanyID: f.companyID, LedgerType: entity.LedgerAP, CounterpartyID: f.vendorID})
	require.NoError(t, err)
	require.Len(t, ap, 2)
	assert.True(t, ap[0].Amount.Equal(d("238")))
	assert.True(t, ap[1].Amount.Equal(d("-100")))

	f.assertInvariants(t, product)
}

func TestReceiveGoods_MovingAverage(t *testing.T) {
	f := newFixture(t)
	const product = "prod-avg"

	f.stockUp(t, product, "10", "20")
	f.stockUp(t, product, "30", "24")

	lvl := f.level(t, product)
	assert.True(t, lvl.QuantityOnHand.Equal(d("40")))
	// (10*20 + 30*24) / 40 = 23
	assert.True(t, lvl.AverageCost.Equal(d("23")), "promedio %s", lvl.AverageCost)
	f.assertInvariants(t, product)
}

func TestPurchaseOrder_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po, err := f.engine.CreatePurchaseOrder(ctx, workflow.DraftOrderInput{
		CompanyID:      f.companyID,
		CounterpartyID: f.vendorID,
		WarehouseID:    f.warehouseID,
		Lines:          []workflow.DraftLine{{ProductID: "p", Quantity: d("1"), UnitPrice: d("1")}},
	})
	require.NoError(t, err)

	_, err = f.engine.ReceiveGoodsFromPurchaseOrder(ctx, po.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.engine.CreateVendorInvoice(ctx, po.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.engine.ConfirmPurchaseOrder(ctx, po.ID, testUser)
	require.NoError(t, err)
	_, err = f.engine.ConfirmPurchaseOrder(ctx, po.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, f.level(t, "p").QuantityOnOrder.Equal(d("1")))
}

func TestCancelPurchaseOrder_RemovesOnOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po, err := f.engine.CreatePurchaseOrder(ctx, workflow.DraftOrderInput{
		CompanyID:      f.companyID,
		CounterpartyID: f.vendorID,
		WarehouseID:    f.warehouseID,
		Lines:          []workflow.DraftLine{{ProductID: "p", Quantity: d("7"), UnitPrice: d("3")}},
	})
	require.NoError(t, err)
	_, err = f.engine.ConfirmPurchaseOrder(ctx, po.ID, testUser)
	require.NoError(t, err)

	res, err := f.engine.CancelPurchaseOrder(ctx, po.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderCancelled, res.Order.Status)
	assert.NotNil(t, res.Order.CancelledAt)
	assert.True(t, f.level(t, "p").QuantityOnOrder.IsZero())

	_, err = f.engine.ReceiveGoodsFromPurchaseOrder(ctx, po.ID, testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
