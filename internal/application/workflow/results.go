package workflow

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// SalesOrderResult resultado de confirmar o cancelar una orden de venta.
type SalesOrderResult struct {
	Order        *entity.SalesOrder
	Reservations []*entity.StockReservation
}

// DeliveryResult resultado de despachar una orden de venta.
type DeliveryResult struct {
	Order        *entity.SalesOrder
	Delivery     *entity.Delivery
	Movements    []*entity.StockMovement
	JournalEntry *entity.JournalEntry // nil si el costo fue cero
}

// InvoiceResult factura de cliente o de proveedor con su asiento y movimiento de cartera.
type InvoiceResult struct {
	Invoice      *entity.Invoice
	JournalEntry *entity.JournalEntry
	LedgerEntry  *entity.ArApLedgerEntry
}

// PurchaseOrderResult resultado de confirmar o cancelar una orden de compra.
type PurchaseOrderResult struct {
	Order *entity.PurchaseOrder
}

// GoodsReceiptResult resultado de recibir una orden de compra.
type GoodsReceiptResult struct {
	Order        *entity.PurchaseOrder
	Receipt      *entity.GoodsReceipt
	Movements    []*entity.StockMovement
	JournalEntry *entity.JournalEntry
}

// PaymentInput datos de un pago recibido o realizado.
// InvoiceIDs se aplican en el orden dado; los duplicados se ignoran.
type PaymentInput struct {
	CompanyID      string
	CounterpartyID string
	InvoiceIDs     []string
	Amount         decimal.Decimal
	Method         string
	BankAccountID  string // cuenta contable de banco; vacío = caja por defecto
	UserID         string
}

// PaymentResult pago, sus aplicaciones y las facturas actualizadas.
type PaymentResult struct {
	Payment      *entity.Payment
	Applications []*entity.PaymentApplication
	Invoices     []*entity.Invoice
	JournalEntry *entity.JournalEntry
	LedgerEntry  *entity.ArApLedgerEntry
}
