package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType distingue factura de cliente (AR) y de proveedor (AP).
type InvoiceType string

const (
	InvoiceCustomer InvoiceType = "customer"
	InvoiceVendor   InvoiceType = "vendor"
)

// InvoiceStatus estado de pago de una factura.
type InvoiceStatus string

const (
	InvoicePosted        InvoiceStatus = "posted"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
)

// Invoice cabecera de factura. Invariante: AmountDue = Total - AmountPaid, AmountDue >= 0.
type Invoice struct {
	ID             string
	CompanyID      string
	Type           InvoiceType
	CounterpartyID string // cliente o proveedor
	OrderID        string
	Number         string
	Subtotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal
	AmountPaid     decimal.Decimal
	AmountDue      decimal.Decimal
	Status         InvoiceStatus
	JournalEntryID string
	Lines          []InvoiceLine
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InvoiceLine copia de la línea de orden facturada.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxAmount decimal.Decimal
	LineTotal decimal.Decimal
}

// ApplyPayment abona amount (ya limitado al saldo) y recalcula estado.
func (i *Invoice) ApplyPayment(amount decimal.Decimal, at time.Time) {
	i.AmountPaid = i.AmountPaid.Add(amount)
	i.AmountDue = i.Total.Sub(i.AmountPaid)
	switch {
	case i.AmountDue.LessThanOrEqual(decimal.Zero):
		i.Status = InvoicePaid
	case i.AmountPaid.GreaterThan(decimal.Zero):
		i.Status = InvoicePartiallyPaid
	default:
		i.Status = InvoicePosted
	}
	i.UpdatedAt = at
}

func (i *Invoice) Clone() *Invoice {
	c := *i
	if i.Lines != nil {
		c.Lines = make([]InvoiceLine, len(i.Lines))
		copy(c.Lines, i.Lines)
	}
	return &c
}
