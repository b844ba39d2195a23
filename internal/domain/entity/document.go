package entity

import "github.com/shopspring/decimal"

// DocumentType identifica la clase de documento; también es la clave de su secuencia de numeración.
type DocumentType string

const (
	DocSalesOrder      DocumentType = "sales_order"
	DocPurchaseOrder   DocumentType = "purchase_order"
	DocDelivery        DocumentType = "delivery"
	DocGoodsReceipt    DocumentType = "goods_receipt"
	DocCustomerInvoice DocumentType = "customer_invoice"
	DocVendorInvoice   DocumentType = "vendor_invoice"
	DocPaymentReceived DocumentType = "payment_received"
	DocPaymentMade     DocumentType = "payment_made"
	DocJournalEntry    DocumentType = "journal_entry"
)

// SourceRef apunta al documento de negocio que originó un movimiento o asiento.
type SourceRef struct {
	Type   DocumentType
	ID     string
	Number string
}

// TransactionalDocument es la capacidad común de las órdenes que recorren el flujo:
// estado, líneas y totales. El orquestador valida precondiciones sobre esta interfaz.
type TransactionalDocument interface {
	DocumentType() DocumentType
	DocumentID() string
	DocumentCompanyID() string
	CurrentStatus() string
	OrderLines() []OrderLine
	Totals() (subtotal, tax, total decimal.Decimal)
}

// OrderLine es una línea de orden de venta o de compra. El impuesto viene precalculado.
type OrderLine struct {
	ID        string
	OrderID   string
	LineNo    int
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxAmount decimal.Decimal
	LineTotal decimal.Decimal // Quantity * UnitPrice, sin impuesto
}

// lineTotals suma subtotal e impuesto de las líneas.
func lineTotals(lines []OrderLine) (subtotal, tax, total decimal.Decimal) {
	subtotal, tax = decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
		tax = tax.Add(l.TaxAmount)
	}
	return subtotal, tax, subtotal.Add(tax)
}

func copyLines(lines []OrderLine) []OrderLine {
	if lines == nil {
		return nil
	}
	out := make([]OrderLine, len(lines))
	copy(out, lines)
	return out
}
