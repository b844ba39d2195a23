package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType recibido (de cliente) o realizado (a proveedor).
type PaymentType string

const (
	PaymentReceived PaymentType = "received"
	PaymentMade     PaymentType = "made"
)

// Payment pago registrado. Amount - AmountApplied queda sin aplicar.
type Payment struct {
	ID             string
	CompanyID      string
	Type           PaymentType
	CounterpartyID string
	Number         string
	Amount         decimal.Decimal
	AmountApplied  decimal.Decimal
	Method         string
	BankAccountID  string
	JournalEntryID string
	CreatedBy      string
	CreatedAt      time.Time
}

// Unapplied saldo del pago que no cubrió ninguna factura.
func (p *Payment) Unapplied() decimal.Decimal {
	return p.Amount.Sub(p.AmountApplied)
}

// PaymentApplication parte de un pago aplicada a una factura.
type PaymentApplication struct {
	ID            string
	PaymentID     string
	InvoiceID     string
	AmountApplied decimal.Decimal
	CreatedAt     time.Time
}
