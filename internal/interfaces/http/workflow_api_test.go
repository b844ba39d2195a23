package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/erp-workflow-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: API completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app         *fiber.App
	companyID   string
	customerID  string
	vendorID    string
	warehouseID string
	token       string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	a := &testAPI{
		companyID:   uuid.New().String(),
		customerID:  uuid.New().String(),
		vendorID:    uuid.New().String(),
		warehouseID: uuid.New().String(),
	}
	store.SeedAccounts(a.companyID, accounting.DefaultAccountMap())
	store.AddCustomer(entity.Customer{ID: a.customerID, CompanyID: a.companyID, Name: "Cliente HTTP"})
	store.AddVendor(entity.Vendor{ID: a.vendorID, CompanyID: a.companyID, Name: "Proveedor HTTP"})
	store.AddWarehouse(entity.Warehouse{ID: a.warehouseID, CompanyID: a.companyID, Name: "Principal"})

	a.app = fiber.New()
	apphttp.Router(a.app, apphttp.RouterDeps{
		Engine:         workflow.NewEngine(store, workflow.Options{}, zerolog.Nop()),
		Idempotency:    idempotency.NewMemoryStore(),
		IdempotencyTTL: time.Hour,
		JWTSecret:      testJWTSecret,
		JWTIssuer:      testIssuer,
		Log:            zerolog.Nop(),
	})
	a.token = tokenFor(t, a.companyID, apphttp.RoleAdmin)
	return a
}

type apiResponse struct {
	status int
	header http.Header
	raw    []byte
	body   map[string]any
}

func (a *testAPI) call(t *testing.T, method, path, token string, payload any, headers ...string) apiResponse {
	t.Helper()
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := apiResponse{status: resp.StatusCode, header: resp.Header, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (a *testAPI) post(t *testing.T, path string, payload any, headers ...string) apiResponse {
	return a.call(t, http.MethodPost, path, a.token, payload, headers...)
}

func (a *testAPI) get(t *testing.T, path string) apiResponse {
	return a.call(t, http.MethodGet, path, a.token, nil)
}

func field(t *testing.T, m map[string]any, keys ...string) any {
	t.Helper()
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		require.True(t, ok, "%v no es objeto al buscar %q", cur, k)
		cur = obj[k]
	}
	return cur
}

// stockUp compra y recibe qty unidades de productID a unitPrice.
func (a *testAPI) stockUp(t *testing.T, productID string, qty, unitPrice int) {
	t.Helper()
	po := a.post(t, "/api/purchase-orders", map[string]any{
		"vendor_id":    a.vendorID,
		"warehouse_id": a.warehouseID,
		"lines":        []map[string]any{{"product_id": productID, "quantity": qty, "unit_price": unitPrice}},
	})
	require.Equal(t, http.StatusCreated, po.status, string(po.raw))
	id := po.body["id"].(string)

	require.Equal(t, http.StatusOK, a.post(t, "/api/purchase-orders/"+id+"/confirm", nil).status)
	rcv := a.post(t, "/api/purchase-orders/"+id+"/receive", nil)
	require.Equal(t, http.StatusCreated, rcv.status, string(rcv.raw))
}

func (a *testAPI) salesOrder(t *testing.T, productID string, qty, unitPrice int) string {
	t.Helper()
	so := a.post(t, "/api/sales-orders", map[string]any{
		"customer_id":  a.customerID,
		"warehouse_id": a.warehouseID,
		"lines":        []map[string]any{{"product_id": productID, "quantity": qty, "unit_price": unitPrice}},
	})
	require.Equal(t, http.StatusCreated, so.status, string(so.raw))
	assert.Equal(t, "draft", so.body["status"])
	return so.body["id"].(string)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_OrderToCash(t *testing.T) {
	a := newTestAPI(t)
	a.stockUp(t, "SKU-1", 10, 30)

	id := a.salesOrder(t, "SKU-1", 4, 100)

	conf := a.post(t, "/api/sales-orders/"+id+"/confirm", nil)
	require.Equal(t, http.StatusOK, conf.status, string(conf.raw))
	assert.Equal(t, "SO-000001", field(t, conf.body, "order", "number"))
	assert.Equal(t, "confirmed", field(t, conf.body, "order", "status"))
	assert.Len(t, conf.body["reservations"], 1)

	dn := a.post(t, "/api/sales-orders/"+id+"/deliver", nil)
	require.Equal(t, http.StatusCreated, dn.status, string(dn.raw))
	assert.Equal(t, "DN-000001", field(t, dn.body, "delivery", "number"))
	assert.Equal(t, "120", field(t, dn.body, "delivery", "total_cost"))

	inv := a.post(t, "/api/sales-orders/"+id+"/invoice", nil)
	require.Equal(t, http.StatusCreated, inv.status, string(inv.raw))
	assert.Equal(t, "INV-000001", field(t, inv.body, "invoice", "number"))
	assert.Equal(t, "400", field(t, inv.body, "invoice", "amount_due"))
	invoiceID := field(t, inv.body, "invoice", "id").(string)

	pay := a.post(t, "/api/payments/received", map[string]any{
		"counterparty_id": a.customerID,
		"invoice_ids":     []string{invoiceID},
		"amount":          400,
		"method":          "transferencia",
	})
	require.Equal(t, http.StatusCreated, pay.status, string(pay.raw))
	assert.Equal(t, "RCV-000001", pay.body["number"])
	assert.Equal(t, "0", pay.body["unapplied"])

	got := a.get(t, "/api/invoices/"+invoiceID)
	require.Equal(t, http.StatusOK, got.status)
	assert.Equal(t, "paid", got.body["status"])
	assert.Equal(t, "0", got.body["amount_due"])

	level := a.get(t, "/api/stock-levels/SKU-1/"+a.warehouseID)
	require.Equal(t, http.StatusOK, level.status)
	assert.Equal(t, "6", level.body["quantity_on_hand"])
	assert.Equal(t, "0", level.body["quantity_reserved"])

	ledger := a.call(t, http.MethodGet, "/api/ledger/ar/"+a.customerID, a.token, nil)
	require.Equal(t, http.StatusOK, ledger.status)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(ledger.raw, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "400", rows[0]["running_balance"])
	assert.Equal(t, "0", rows[1]["running_balance"])

	journal := a.call(t, http.MethodGet, "/api/journal-entries", a.token, nil)
	require.Equal(t, http.StatusOK, journal.status)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(journal.raw, &entries))
	// recepción, costo de ventas, factura y recaudo
	assert.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, e["total_debit"], e["total_credit"])
	}

	order := a.get(t, "/api/sales-orders/"+id)
	require.Equal(t, http.StatusOK, order.status)
	assert.Equal(t, "invoiced", order.body["status"])
}

func TestAPI_ProcureToPay(t *testing.T) {
	a := newTestAPI(t)
	po := a.post(t, "/api/purchase-orders", map[string]any{
		"vendor_id":    a.vendorID,
		"warehouse_id": a.warehouseID,
		"lines":        []map[string]any{{"product_id": "SKU-9", "quantity": 5, "unit_price": 20, "tax_amount": 19}},
	})
	require.Equal(t, http.StatusCreated, po.status, string(po.raw))
	id := po.body["id"].(string)

	conf := a.post(t, "/api/purchase-orders/"+id+"/confirm", nil)
	require.Equal(t, http.StatusOK, conf.status)
	assert.Equal(t, "PO-000001", conf.body["number"])
	assert.Equal(t, "ordered", conf.body["status"])

	rcv := a.post(t, "/api/purchase-orders/"+id+"/receive", nil)
	require.Equal(t, http.StatusCreated, rcv.status, string(rcv.raw))
	assert.Equal(t, "GR-000001", field(t, rcv.body, "receipt", "number"))

	bill := a.post(t, "/api/purchase-orders/"+id+"/bill", nil)
	require.Equal(t, http.StatusCreated, bill.status, string(bill.raw))
	assert.Equal(t, "BILL-000001", field(t, bill.body, "invoice", "number"))
	assert.Equal(t, "119", field(t, bill.body, "invoice", "total"))
	billID := field(t, bill.body, "invoice", "id").(string)

	pay := a.post(t, "/api/payments/made", map[string]any{
		"counterparty_id": a.vendorID,
		"invoice_ids":     []string{billID},
		"amount":          50,
		"method":          "cheque",
	})
	require.Equal(t, http.StatusCreated, pay.status, string(pay.raw))
	assert.Equal(t, "PAY-000001", pay.body["number"])

	got := a.get(t, "/api/invoices/"+billID)
	assert.Equal(t, "partially_paid", got.body["status"])
	assert.Equal(t, "69", got.body["amount_due"])

	order := a.get(t, "/api/purchase-orders/"+id)
	assert.Equal(t, "billed", order.body["status"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_InsufficientStockDetails(t *testing.T) {
	a := newTestAPI(t)
	a.stockUp(t, "SKU-2", 3, 10)
	id := a.salesOrder(t, "SKU-2", 5, 50)

	resp := a.post(t, "/api/sales-orders/"+id+"/confirm", nil)
	require.Equal(t, http.StatusConflict, resp.status, string(resp.raw))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.body["code"])
	assert.Equal(t, "3", field(t, resp.body, "details", "available"))
	assert.Equal(t, "5", field(t, resp.body, "details", "requested"))
	assert.Equal(t, "SKU-2", field(t, resp.body, "details", "product_id"))

	order := a.get(t, "/api/sales-orders/"+id)
	assert.Equal(t, "draft", order.body["status"], "la orden no cambia si la confirmación falla")
}

func TestAPI_InvalidStateIs409(t *testing.T) {
	a := newTestAPI(t)
	id := a.salesOrder(t, "SKU-3", 1, 10)

	resp := a.post(t, "/api/sales-orders/"+id+"/invoice", nil)
	require.Equal(t, http.StatusConflict, resp.status)
	assert.Equal(t, "INVALID_STATE", resp.body["code"])
	assert.Equal(t, "draft", field(t, resp.body, "details", "current"))

	require.Equal(t, http.StatusOK, a.post(t, "/api/sales-orders/"+id+"/cancel", nil).status)
	again := a.post(t, "/api/sales-orders/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, again.status, "cancelled es terminal")
}

func TestAPI_ValidationErrors(t *testing.T) {
	a := newTestAPI(t)

	resp := a.post(t, "/api/sales-orders", map[string]any{
		"customer_id":  "no-es-uuid",
		"warehouse_id": a.warehouseID,
	})
	require.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "VALIDATION", resp.body["code"])
	var fields []string
	for _, d := range resp.body["details"].([]any) {
		fields = append(fields, d.(map[string]any)["field"].(string))
	}
	assert.ElementsMatch(t, []string{"customer_id", "lines"}, fields)

	bad := a.post(t, "/api/sales-orders/123/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, bad.status)

	neg := a.post(t, "/api/sales-orders", map[string]any{
		"customer_id":  a.customerID,
		"warehouse_id": a.warehouseID,
		"lines":        []map[string]any{{"product_id": "SKU-1", "quantity": -1, "unit_price": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, neg.status)

	ledger := a.get(t, "/api/ledger/xx/"+a.customerID)
	assert.Equal(t, http.StatusBadRequest, ledger.status)
}

func TestAPI_NotFoundAndForbidden(t *testing.T) {
	a := newTestAPI(t)
	id := a.salesOrder(t, "SKU-4", 1, 10)

	missing := a.post(t, "/api/sales-orders/"+uuid.New().String()+"/confirm", nil)
	assert.Equal(t, http.StatusNotFound, missing.status)

	other := tokenFor(t, uuid.New().String(), apphttp.RoleAdmin)
	resp := a.call(t, http.MethodGet, "/api/sales-orders/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	conf := a.call(t, http.MethodPost, "/api/sales-orders/"+id+"/confirm", other, nil)
	assert.Equal(t, http.StatusForbidden, conf.status)

	noStock := a.get(t, "/api/stock-levels/SKU-X/"+a.warehouseID)
	assert.Equal(t, http.StatusNotFound, noStock.status)
}

func TestAPI_RolesPerRoute(t *testing.T) {
	a := newTestAPI(t)
	sales := tokenFor(t, a.companyID, apphttp.RoleSales)

	resp := a.call(t, http.MethodPost, "/api/payments/received", sales, map[string]any{
		"counterparty_id": a.customerID,
		"invoice_ids":     []string{uuid.New().String()},
		"amount":          1,
		"method":          "efectivo",
	})
	assert.Equal(t, http.StatusForbidden, resp.status)

	po := a.call(t, http.MethodPost, "/api/purchase-orders", sales, map[string]any{
		"vendor_id":    a.vendorID,
		"warehouse_id": a.warehouseID,
		"lines":        []map[string]any{{"product_id": "SKU-1", "quantity": 1, "unit_price": 1}},
	})
	assert.Equal(t, http.StatusForbidden, po.status)

	noAuth := a.call(t, http.MethodGet, "/api/journal-entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, noAuth.status)
}

func TestAPI_DecimalScaleIs400(t *testing.T) {
	a := newTestAPI(t)
	a.stockUp(t, "SKU-6", 5, 10)
	id := a.salesOrder(t, "SKU-6", 2, 100)
	require.Equal(t, http.StatusOK, a.post(t, "/api/sales-orders/"+id+"/confirm", nil).status)
	require.Equal(t, http.StatusCreated, a.post(t, "/api/sales-orders/"+id+"/deliver", nil).status)
	inv := a.post(t, "/api/sales-orders/"+id+"/invoice", nil)
	require.Equal(t, http.StatusCreated, inv.status)
	invoiceID := field(t, inv.body, "invoice", "id").(string)

	pay := a.post(t, "/api/payments/received", map[string]any{
		"counterparty_id": a.customerID,
		"invoice_ids":     []string{invoiceID},
		"amount":          "10.005",
		"method":          "efectivo",
	})
	require.Equal(t, http.StatusBadRequest, pay.status, string(pay.raw))
	assert.Equal(t, "VALIDATION", pay.body["code"])

	got := a.get(t, "/api/invoices/"+invoiceID)
	assert.Equal(t, "0", got.body["amount_paid"])

	so := a.post(t, "/api/sales-orders", map[string]any{
		"customer_id":  a.customerID,
		"warehouse_id": a.warehouseID,
		"lines":        []map[string]any{{"product_id": "SKU-6", "quantity": "1.00005", "unit_price": 100}},
	})
	require.Equal(t, http.StatusBadRequest, so.status, string(so.raw))
	assert.Equal(t, "VALIDATION", so.body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotency-Key en pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_PaymentIdempotencyKeyReplays(t *testing.T) {
	a := newTestAPI(t)
	a.stockUp(t, "SKU-5", 5, 10)
	id := a.salesOrder(t, "SKU-5", 2, 100)
	require.Equal(t, http.StatusOK, a.post(t, "/api/sales-orders/"+id+"/confirm", nil).status)
	require.Equal(t, http.StatusCreated, a.post(t, "/api/sales-orders/"+id+"/deliver", nil).status)
	inv := a.post(t, "/api/sales-orders/"+id+"/invoice", nil)
	require.Equal(t, http.StatusCreated, inv.status)
	invoiceID := field(t, inv.body, "invoice", "id").(string)

	body := map[string]any{
		"counterparty_id": a.customerID,
		"invoice_ids":     []string{invoiceID},
		"amount":          80,
		"method":          "efectivo",
	}
	first := a.post(t, "/api/payments/received", body, apphttp.HeaderIdempotencyKey, "pago-1")
	require.Equal(t, http.StatusCreated, first.status, string(first.raw))

	second := a.post(t, "/api/payments/received", body, apphttp.HeaderIdempotencyKey, "pago-1")
	require.Equal(t, http.StatusCreated, second.status)
	assert.Equal(t, "true", second.header.Get("Idempotent-Replayed"))
	assert.JSONEq(t, string(first.raw), string(second.raw))

	got := a.get(t, "/api/invoices/"+invoiceID)
	assert.Equal(t, "80", got.body["amount_paid"], "el reintento no aplica el pago dos veces")

	third := a.post(t, "/api/payments/received", body, apphttp.HeaderIdempotencyKey, "pago-2")
	require.Equal(t, http.StatusCreated, third.status)
	assert.Equal(t, "RCV-000002", third.body["number"])
}

func TestAPI_IdempotencyCachesBusinessErrors(t *testing.T) {
	a := newTestAPI(t)
	body := map[string]any{
		"counterparty_id": a.customerID,
		"invoice_ids":     []string{uuid.New().String()},
		"amount":          10,
		"method":          "efectivo",
	}
	first := a.post(t, "/api/payments/received", body, apphttp.HeaderIdempotencyKey, "k")
	require.Equal(t, http.StatusNotFound, first.status)

	second := a.post(t, "/api/payments/received", body, apphttp.HeaderIdempotencyKey, "k")
	assert.Equal(t, http.StatusNotFound, second.status)
	assert.Equal(t, "true", second.header.Get("Idempotent-Replayed"))
}
