package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "00000000-0000-0000-0000-000000000001"

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store       *memory.Store
	engine      *workflow.Engine
	companyID   string
	customerID  string
	vendorID    string
	warehouseID string
	accounts    map[string]string
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, workflow.Options{})
}

func newFixtureWith(t *testing.T, opts workflow.Options) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:       store,
		companyID:   uuid.New().String(),
		customerID:  uuid.New().String(),
		vendorID:    uuid.New().String(),
		warehouseID: uuid.New().String(),
	}
	f.accounts = store.SeedAccounts(f.companyID, accounting.DefaultAccountMap())
	store.AddCustomer(entity.Customer{ID: f.customerID, CompanyID: f.companyID, Name: "Cliente Uno", TaxID: "900123456"})
	store.AddVendor(entity.Vendor{ID: f.vendorID, CompanyID: f.companyID, Name: "Proveedor Uno", TaxID: "800765432"})
	store.AddWarehouse(entity.Warehouse{ID: f.warehouseID, CompanyID: f.companyID, Name: "Principal"})

	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	f.engine = workflow.NewEngine(store, opts, zerolog.Nop())
	return f
}

func (f *fixture) key(productID string) entity.StockKey {
	return entity.StockKey{CompanyID: f.companyID, ProductID: productID, WarehouseID: f.warehouseID}
}

// stockUp entra qty unidades a unitCost por el flujo de compra (PO -> ordered -> received).
func (f *fixture) stockUp(t *testing.T, productID, qty, unitCost string) *workflow.GoodsReceiptResult {
	t.Helper()
	ctx := context.Background()
	po, err := f.engine.CreatePurchaseOrder(ctx, workflow.DraftOrderInput{
		CompanyID:      f.companyID,
		CounterpartyID: f.vendorID,
		WarehouseID:    f.warehouseID,
		UserID:         testUser,
		Lines:          []workflow.DraftLine{{ProductID: productID, Quantity: d(qty), UnitPrice: d(unitCost)}},
	})
	require.NoError(t, err)
	_, err = f.engine.ConfirmPurchaseOrder(ctx, po.ID, testUser)
	require.NoError(t, err)
	res, err := f.engine.ReceiveGoodsFromPurchaseOrder(ctx, po.ID, testUser)
	require.NoError(t, err)
	return res
}

// salesOrder crea una orden de venta en draft con una línea.
func (f *fixture) salesOrder(t *testing.T, productID, qty, price, tax string) *entity.SalesOrder {
	t.Helper()
	so, err := f.engine.CreateSalesOrder(context.Background(), workflow.DraftOrderInput{
		CompanyID:      f.companyID,
		CounterpartyID: f.customerID,
		WarehouseID:    f.warehouseID,
		UserID:         testUser,
		Lines:          []workflow.DraftLine{{ProductID: productID, Quantity: d(qty), UnitPrice: d(price), TaxAmount: d(tax)}},
	})
	require.NoError(t, err)
	return so
}

// invoicedOrder lleva una orden de venta hasta invoiced y devuelve su factura.
func (f *fixture) invoicedOrder(t *testing.T, productID, qty, price, tax string) *entity.Invoice {
	t.Helper()
	ctx := context.Background()
	so := f.salesOrder(t, productID, qty, price, tax)
	_, err := f.engine.ConfirmSalesOrder(ctx, so.ID, testUser)
	require.NoError(t, err)
	_, err = f.engine.CreateDeliveryFromSalesOrder(ctx, so.ID, testUser)
	require.NoError(t, err)
	res, err := f.engine.CreateInvoiceFromSalesOrder(ctx, so.ID, testUser)
	require.NoError(t, err)
	return res.Invoice
}

// read ejecuta fn sobre los repositorios del store (solo lectura en los tests).
func (f *fixture) read(t *testing.T, fn func(ctx context.Context, r repository.Repos) error) {
	t.Helper()
	require.NoError(t, f.store.Run(context.Background(), fn))
}

func (f *fixture) level(t *testing.T, productID string) *entity.StockLevel {
	t.Helper()
	var out *entity.StockLevel
	f.read(t, func(ctx context.Context, r repository.Repos) error {
		var err error
		out, err = r.Stock.Get(ctx, f.key(productID))
		return err
	})
	return out
}

func (f *fixture) reservations(t *testing.T, salesOrderID string) []*entity.StockReservation {
	t.Helper()
	var out []*entity.StockReservation
	f.read(t, func(ctx context.Context, r repository.Repos) error {
		var err error
		out, err = r.Reservations.ListByOrder(ctx, salesOrderID)
		return err
	})
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades globales
// ──────────────────────────────────────────────────────────────────────────────

// assertInvariants verifica cuadre contable, conservación de stock y tope de reservas.
func (f *fixture) assertInvariants(t *testing.T, productIDs ...string) {
	t.Helper()
	entries, err := f.engine.ListJournalEntries(context.Background(), f.companyID)
	require.NoError(t, err)
	for _, e := range entries {
		debit, credit := decimal.Zero, decimal.Zero
		for _, l := range e.Lines {
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
		require.True(t, debit.Equal(credit), "asiento %s descuadrado: %s vs %s", e.Number, debit, credit)
		require.True(t, e.TotalDebit.Equal(debit), "asiento %s: total débito", e.Number)
	}

	for _, p := range productIDs {
		f.read(t, func(ctx context.Context, r repository.Repos) error {
			level, err := r.Stock.Get(ctx, f.key(p))
			require.NoError(t, err)
			require.NotNil(t, level)

			movs, err := r.Movements.ListByStock(ctx, f.key(p))
			require.NoError(t, err)
			sum := decimal.Zero
			for _, m := range movs {
				sum = sum.Add(m.Quantity)
			}
			require.True(t, level.QuantityOnHand.Equal(sum), "producto %s: existencias %s, kárdex %s", p, level.QuantityOnHand, sum)

			active, err := r.Reservations.ListActiveByStock(ctx, f.key(p))
			require.NoError(t, err)
			reserved := decimal.Zero
			for _, res := range active {
				reserved = reserved.Add(res.Remaining())
			}
			require.True(t, level.QuantityReserved.Equal(reserved), "producto %s: reservado %s, reservas %s", p, level.QuantityReserved, reserved)
			require.True(t, level.QuantityAvailable.Equal(level.QuantityOnHand.Sub(level.QuantityReserved)))
			return nil
		})
	}
}

func assertInvoiceBalance(t *testing.T, inv *entity.Invoice) {
	t.Helper()
	require.True(t, inv.AmountDue.Equal(inv.Total.Sub(inv.AmountPaid)), "factura %s: saldo", inv.Number)
	require.Equal(t, inv.AmountDue.LessThanOrEqual(decimal.Zero), inv.Status == entity.InvoicePaid, "factura %s: estado %s", inv.Number, inv.Status)
}
