package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatusPosted único estado de un asiento: se contabiliza al crearse y no se edita.
const JournalStatusPosted = "posted"

// JournalEntry asiento de doble partida. TotalDebit == TotalCredit siempre.
type JournalEntry struct {
	ID           string
	CompanyID    string
	Number       string
	Status       string
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	SourceType   DocumentType
	SourceID     string
	SourceNumber string
	Description  string
	PostedBy     string
	PostedAt     time.Time
	Lines        []JournalEntryLine
}

// JournalEntryLine cada línea tiene débito o crédito, nunca ambos.
type JournalEntryLine struct {
	ID          string
	EntryID     string
	LineNo      int
	AccountID   string
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// AccountType clasificación del plan de cuentas.
type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountRevenue   AccountType = "revenue"
	AccountExpense   AccountType = "expense"
)

// Account cuenta del plan de cuentas de una compañía (solo lectura para el motor).
type Account struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Type      AccountType
}
