package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appaccounting "github.com/jhoicas/erp-workflow-api/internal/application/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/allocation"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/inventory"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// paymentKind diferencia recaudo de cliente y pago a proveedor.
type paymentKind struct {
	op          string
	paymentType entity.PaymentType
	invoiceType entity.InvoiceType
	ledger      entity.LedgerType
	docType     entity.DocumentType
	label       string
}

var (
	receivedKind = paymentKind{
		op:          "ReceivePayment",
		paymentType: entity.PaymentReceived,
		invoiceType: entity.InvoiceCustomer,
		ledger:      entity.LedgerAR,
		docType:     entity.DocPaymentReceived,
		label:       "Recibo de caja",
	}
	madeKind = paymentKind{
		op:          "MakeVendorPayment",
		paymentType: entity.PaymentMade,
		invoiceType: entity.InvoiceVendor,
		ledger:      entity.LedgerAP,
		docType:     entity.DocPaymentMade,
		label:       "Comprobante de egreso",
	}
)

// ReceivePayment aplica un recaudo de cliente a sus facturas en el orden indicado.
func (e *Engine) ReceivePayment(ctx context.Context, in PaymentInput) (*PaymentResult, error) {
	return e.applyPayment(ctx, receivedKind, in)
}

// MakeVendorPayment aplica un pago a facturas de proveedor en el orden indicado.
func (e *Engine) MakeVendorPayment(ctx context.Context, in PaymentInput) (*PaymentResult, error) {
	return e.applyPayment(ctx, madeKind, in)
}

// applyPayment reparte el monto sobre el saldo de las facturas (la primera primero),
// registra un pago, sus aplicaciones, un asiento y un movimiento de cartera.
// Lo que exceda el saldo de las facturas queda sin aplicar en el pago.
func (e *Engine) applyPayment(ctx context.Context, kind paymentKind, in PaymentInput) (*PaymentResult, error) {
	if in.CompanyID == "" || in.CounterpartyID == "" || len(in.InvoiceIDs) == 0 {
		return nil, fmt.Errorf("%w: compañía, tercero y facturas son obligatorios", domain.ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto del pago debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if !inventory.FitsScale(in.Amount, inventory.MoneyScale) {
		return nil, fmt.Errorf("%w: el monto del pago admite máximo %d decimales", domain.ErrInvalidInput, inventory.MoneyScale)
	}
	if err := checkScope(ctx, in.CompanyID); err != nil {
		return nil, err
	}
	invoiceIDs := dedupe(in.InvoiceIDs)

	var out *PaymentResult
	err := e.run(ctx, kind.op, in.CounterpartyID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()
		annotate(ctx, in.CompanyID)

		// 1) Tercero válido para la compañía
		if err := e.requireCounterparty(ctx, r, kind, in); err != nil {
			return err
		}

		// 2) Bloquear facturas en el orden del llamador y validar pertenencia
		invoices := make([]*entity.Invoice, 0, len(invoiceIDs))
		buckets := make([]allocation.Bucket, 0, len(invoiceIDs))
		for _, id := range invoiceIDs {
			inv, err := r.Invoices.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("bloquear factura: %w", err)
			}
			if inv == nil {
				return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
			}
			if inv.CompanyID != in.CompanyID {
				return fmt.Errorf("%w: factura %s de otra compañía", domain.ErrForbidden, id)
			}
			if inv.Type != kind.invoiceType || inv.CounterpartyID != in.CounterpartyID {
				return fmt.Errorf("%w: factura %s no corresponde al tercero", domain.ErrInvalidInput, id)
			}
			invoices = append(invoices, inv)
			buckets = append(buckets, allocation.Bucket{ID: inv.ID, Capacity: inv.AmountDue})
		}

		// 3) Reparto FIFO
		allocs, unapplied := allocation.Greedy(in.Amount, buckets)
		applied := in.Amount.Sub(unapplied)
		if !applied.IsPositive() {
			return fmt.Errorf("%w: las facturas no tienen saldo pendiente", domain.ErrInvalidInput)
		}

		// 4) Cartera del tercero, luego numeración
		handle, err := e.ledger.Lock(ctx, r, entity.LedgerKey{CompanyID: in.CompanyID, LedgerType: kind.ledger, CounterpartyID: in.CounterpartyID})
		if err != nil {
			return err
		}
		payment := &entity.Payment{
			ID:             uuid.New().String(),
			CompanyID:      in.CompanyID,
			Type:           kind.paymentType,
			CounterpartyID: in.CounterpartyID,
			Amount:         in.Amount,
			AmountApplied:  applied,
			Method:         in.Method,
			BankAccountID:  in.BankAccountID,
			CreatedBy:      in.UserID,
			CreatedAt:      now,
		}
		number, err := e.seq.NextNumber(ctx, r, in.CompanyID, kind.docType)
		if err != nil {
			return err
		}
		payment.Number = number

		lines := e.accounts.PaymentReceivedLines(applied, in.BankAccountID)
		if kind.paymentType == entity.PaymentMade {
			lines = e.accounts.PaymentMadeLines(applied, in.BankAccountID)
		}
		je, err := e.journal.Post(ctx, r, appaccounting.PostingRequest{
			CompanyID:   in.CompanyID,
			Lines:       lines,
			Source:      entity.SourceRef{Type: kind.docType, ID: payment.ID, Number: number},
			Description: kind.label + " " + number,
			UserID:      in.UserID,
		})
		if err != nil {
			return err
		}
		payment.JournalEntryID = je.ID
		if err := r.Payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("guardar pago: %w", err)
		}

		// 5) Aplicaciones y saldos de facturas
		byID := make(map[string]*entity.Invoice, len(invoices))
		for _, inv := range invoices {
			byID[inv.ID] = inv
		}
		res := &PaymentResult{Payment: payment, JournalEntry: je}
		for _, a := range allocs {
			inv := byID[a.ID]
			inv.ApplyPayment(a.Amount, now)
			if err := r.Invoices.UpdatePayment(ctx, inv); err != nil {
				return fmt.Errorf("actualizar factura: %w", err)
			}
			app := &entity.PaymentApplication{
				ID:            uuid.New().String(),
				PaymentID:     payment.ID,
				InvoiceID:     inv.ID,
				AmountApplied: a.Amount,
				CreatedAt:     now,
			}
			if err := r.Payments.CreateApplication(ctx, app); err != nil {
				return fmt.Errorf("guardar aplicación de pago: %w", err)
			}
			res.Applications = append(res.Applications, app)
			res.Invoices = append(res.Invoices, inv)
		}

		// 6) Cartera
		le, err := e.ledger.Append(ctx, r, handle, entity.LedgerEntryPayment, payment.ID, applied, je.ID)
		if err != nil {
			return err
		}
		res.LedgerEntry = le
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", kind.op).Str("company_id", in.CompanyID).
		Str("document_id", out.Payment.ID).Str("number", out.Payment.Number).
		Str("applied", out.Payment.AmountApplied.String()).
		Str("unapplied", out.Payment.Unapplied().String()).Msg("pago registrado")
	return out, nil
}

func (e *Engine) requireCounterparty(ctx context.Context, r repository.Repos, kind paymentKind, in PaymentInput) error {
	var companyID string
	if kind.paymentType == entity.PaymentReceived {
		c, err := r.Customers.GetByID(ctx, in.CounterpartyID)
		if err != nil {
			return fmt.Errorf("buscar cliente: %w", err)
		}
		if c != nil {
			companyID = c.CompanyID
		}
	} else {
		v, err := r.Vendors.GetByID(ctx, in.CounterpartyID)
		if err != nil {
			return fmt.Errorf("buscar proveedor: %w", err)
		}
		if v != nil {
			companyID = v.CompanyID
		}
	}
	if companyID == "" || companyID != in.CompanyID {
		return fmt.Errorf("%w: tercero %s", domain.ErrNotFound, in.CounterpartyID)
	}
	return nil
}

// dedupe conserva la primera aparición de cada id.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
