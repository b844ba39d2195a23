package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerType cartera por cobrar (ar) o por pagar (ap).
type LedgerType string

const (
	LedgerAR LedgerType = "ar"
	LedgerAP LedgerType = "ap"
)

// LedgerEntryType origen del movimiento de cartera.
type LedgerEntryType string

const (
	LedgerEntryInvoice LedgerEntryType = "invoice"
	LedgerEntryPayment LedgerEntryType = "payment"
)

// ArApLedgerEntry movimiento de cartera de un tercero. RunningBalance es el saldo
// acumulado del tercero después de este movimiento.
type ArApLedgerEntry struct {
	ID             string
	Seq            int64
	CompanyID      string
	LedgerType     LedgerType
	CounterpartyID string
	EntryType      LedgerEntryType
	SourceID       string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Amount         decimal.Decimal // con signo: + aumenta la deuda, - la reduce
	RunningBalance decimal.Decimal
	JournalEntryID string
	CreatedAt      time.Time
}

// LedgerKey identifica la cartera de un tercero.
type LedgerKey struct {
	CompanyID      string
	LedgerType     LedgerType
	CounterpartyID string
}
