package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// PaymentRequest body para POST /api/payments/received y /api/payments/made.
// invoice_ids se aplican en el orden dado; bank_account_id vacío = caja.
type PaymentRequest struct {
	CounterpartyID string          `json:"counterparty_id" validate:"required,uuid"`
	InvoiceIDs     []string        `json:"invoice_ids" validate:"required,min=1,dive,uuid"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method" validate:"required,max=32"`
	BankAccountID  string          `json:"bank_account_id,omitempty" validate:"omitempty,uuid"`
}

// JournalLineResponse línea de asiento.
type JournalLineResponse struct {
	LineNo      int             `json:"line_no"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalEntryResponse asiento contabilizado.
type JournalEntryResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	Status       string                `json:"status"`
	TotalDebit   decimal.Decimal       `json:"total_debit"`
	TotalCredit  decimal.Decimal       `json:"total_credit"`
	SourceType   string                `json:"source_type"`
	SourceID     string                `json:"source_id"`
	SourceNumber string                `json:"source_number"`
	Description  string                `json:"description,omitempty"`
	PostedAt     time.Time             `json:"posted_at"`
	Lines        []JournalLineResponse `json:"lines"`
}

// InvoiceLineResponse línea de factura.
type InvoiceLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoiceResponse factura de cliente o de proveedor.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	Type           string                `json:"type"`
	CounterpartyID string                `json:"counterparty_id"`
	OrderID        string                `json:"order_id"`
	Number         string                `json:"number"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxTotal       decimal.Decimal       `json:"tax_total"`
	Total          decimal.Decimal       `json:"total"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	AmountDue      decimal.Decimal       `json:"amount_due"`
	Status         string                `json:"status"`
	JournalEntryID string                `json:"journal_entry_id,omitempty"`
	Lines          []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// LedgerEntryResponse movimiento de cartera.
type LedgerEntryResponse struct {
	ID             string          `json:"id"`
	EntryType      string          `json:"entry_type"`
	SourceID       string          `json:"source_id"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	JournalEntryID string          `json:"journal_entry_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// InvoiceResultResponse respuesta de facturar una orden.
type InvoiceResultResponse struct {
	Invoice      InvoiceResponse      `json:"invoice"`
	JournalEntry JournalEntryResponse `json:"journal_entry"`
	LedgerEntry  *LedgerEntryResponse `json:"ledger_entry,omitempty"`
}

// PaymentApplicationResponse abono de un pago a una factura.
type PaymentApplicationResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	AmountApplied decimal.Decimal `json:"amount_applied"`
}

// PaymentResponse pago con aplicaciones y facturas actualizadas.
type PaymentResponse struct {
	ID             string                       `json:"id"`
	Type           string                       `json:"type"`
	CounterpartyID string                       `json:"counterparty_id"`
	Number         string                       `json:"number"`
	Amount         decimal.Decimal              `json:"amount"`
	AmountApplied  decimal.Decimal              `json:"amount_applied"`
	Unapplied      decimal.Decimal              `json:"unapplied"`
	Method         string                       `json:"method"`
	Applications   []PaymentApplicationResponse `json:"applications"`
	Invoices       []InvoiceResponse            `json:"invoices"`
	JournalEntry   *JournalEntryResponse        `json:"journal_entry,omitempty"`
	LedgerEntry    *LedgerEntryResponse         `json:"ledger_entry,omitempty"`
	CreatedAt      time.Time                    `json:"created_at"`
}

func FromJournalEntry(e *entity.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, JournalLineResponse{
			LineNo: l.LineNo, AccountCode: l.AccountCode, Debit: l.Debit, Credit: l.Credit, Description: l.Description,
		})
	}
	return JournalEntryResponse{
		ID:           e.ID,
		Number:       e.Number,
		Status:       e.Status,
		TotalDebit:   e.TotalDebit,
		TotalCredit:  e.TotalCredit,
		SourceType:   string(e.SourceType),
		SourceID:     e.SourceID,
		SourceNumber: e.SourceNumber,
		Description:  e.Description,
		PostedAt:     e.PostedAt,
		Lines:        lines,
	}
}

// FromJournalEntryPtr nil si el flujo no generó asiento.
func FromJournalEntryPtr(e *entity.JournalEntry) *JournalEntryResponse {
	if e == nil {
		return nil
	}
	r := FromJournalEntry(e)
	return &r
}

func FromInvoice(inv *entity.Invoice) InvoiceResponse {
	var lines []InvoiceLineResponse
	for _, l := range inv.Lines {
		lines = append(lines, InvoiceLineResponse{
			ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, TaxAmount: l.TaxAmount, LineTotal: l.LineTotal,
		})
	}
	return InvoiceResponse{
		ID:             inv.ID,
		Type:           string(inv.Type),
		CounterpartyID: inv.CounterpartyID,
		OrderID:        inv.OrderID,
		Number:         inv.Number,
		Subtotal:       inv.Subtotal,
		TaxTotal:       inv.TaxTotal,
		Total:          inv.Total,
		AmountPaid:     inv.AmountPaid,
		AmountDue:      inv.AmountDue,
		Status:         string(inv.Status),
		JournalEntryID: inv.JournalEntryID,
		Lines:          lines,
		CreatedAt:      inv.CreatedAt,
	}
}

func FromLedgerEntry(e *entity.ArApLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             e.ID,
		EntryType:      string(e.EntryType),
		SourceID:       e.SourceID,
		Debit:          e.Debit,
		Credit:         e.Credit,
		Amount:         e.Amount,
		RunningBalance: e.RunningBalance,
		JournalEntryID: e.JournalEntryID,
		CreatedAt:      e.CreatedAt,
	}
}

func FromLedgerEntryPtr(e *entity.ArApLedgerEntry) *LedgerEntryResponse {
	if e == nil {
		return nil
	}
	r := FromLedgerEntry(e)
	return &r
}

func FromPayment(p *entity.Payment, apps []*entity.PaymentApplication, invoices []*entity.Invoice) PaymentResponse {
	out := PaymentResponse{
		ID:             p.ID,
		Type:           string(p.Type),
		CounterpartyID: p.CounterpartyID,
		Number:         p.Number,
		Amount:         p.Amount,
		AmountApplied:  p.AmountApplied,
		Unapplied:      p.Amount.Sub(p.AmountApplied),
		Method:         p.Method,
		Applications:   make([]PaymentApplicationResponse, 0, len(apps)),
		Invoices:       make([]InvoiceResponse, 0, len(invoices)),
		CreatedAt:      p.CreatedAt,
	}
	for _, a := range apps {
		out.Applications = append(out.Applications, PaymentApplicationResponse{InvoiceID: a.InvoiceID, AmountApplied: a.AmountApplied})
	}
	for _, inv := range invoices {
		out.Invoices = append(out.Invoices, FromInvoice(inv))
	}
	return out
}
