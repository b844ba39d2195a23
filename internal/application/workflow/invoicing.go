package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appaccounting "github.com/jhoicas/erp-workflow-api/internal/application/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// invoiceSpec parámetros de facturación comunes a venta (AR) y compra (AP).
type invoiceSpec struct {
	order       entity.TransactionalDocument
	invoiceType entity.InvoiceType
	docType     entity.DocumentType
	ledger      entity.LedgerType
	party       string
	userID      string
}

// postInvoice crea la factura desde las líneas de la orden, la contabiliza y la carga a la cartera.
// Orden de bloqueos: cartera del tercero, secuencia de factura, secuencia de asiento.
func (e *Engine) postInvoice(ctx context.Context, r repository.Repos, s invoiceSpec) (*InvoiceResult, error) {
	now := e.now()
	companyID := s.order.DocumentCompanyID()
	subtotal, tax, total := s.order.Totals()
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: la orden %s no tiene valor a facturar", domain.ErrInvalidInput, s.order.DocumentID())
	}

	handle, err := e.ledger.Lock(ctx, r, entity.LedgerKey{CompanyID: companyID, LedgerType: s.ledger, CounterpartyID: s.party})
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Type:           s.invoiceType,
		CounterpartyID: s.party,
		OrderID:        s.order.DocumentID(),
		Subtotal:       subtotal,
		TaxTotal:       tax,
		Total:          total,
		AmountPaid:     decimal.Zero,
		AmountDue:      total,
		Status:         entity.InvoicePosted,
		CreatedBy:      s.userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, l := range s.order.OrderLines() {
		inv.Lines = append(inv.Lines, entity.InvoiceLine{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxAmount: l.TaxAmount,
			LineTotal: l.LineTotal,
		})
	}

	number, err := e.seq.NextNumber(ctx, r, companyID, s.docType)
	if err != nil {
		return nil, err
	}
	inv.Number = number

	lines := e.accounts.CustomerInvoiceLines(subtotal, tax)
	desc := "Factura de venta " + number
	if s.invoiceType == entity.InvoiceVendor {
		lines = e.accounts.VendorInvoiceLines(subtotal, tax)
		desc = "Factura de proveedor " + number
	}
	je, err := e.journal.Post(ctx, r, appaccounting.PostingRequest{
		CompanyID:   companyID,
		Lines:       lines,
		Source:      entity.SourceRef{Type: s.docType, ID: inv.ID, Number: number},
		Description: desc,
		UserID:      s.userID,
	})
	if err != nil {
		return nil, err
	}
	inv.JournalEntryID = je.ID

	if err := r.Invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("guardar factura: %w", err)
	}
	le, err := e.ledger.Append(ctx, r, handle, entity.LedgerEntryInvoice, inv.ID, total, je.ID)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: inv, JournalEntry: je, LedgerEntry: le}, nil
}
