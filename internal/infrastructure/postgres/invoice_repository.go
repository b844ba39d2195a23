package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y las líneas de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, company_id, type, counterparty_id, order_id, number, subtotal, tax_total, total,
			amount_paid, amount_due, status, journal_entry_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, string(inv.Type), inv.CounterpartyID, inv.OrderID, inv.Number,
		inv.Subtotal, inv.TaxTotal, inv.Total, inv.AmountPaid, inv.AmountDue, string(inv.Status),
		nullIfEmpty(inv.JournalEntryID), inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, l := range inv.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_lines (id, invoice_id, product_id, quantity, unit_price, tax_amount, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, inv.ID, l.ProductID, l.Quantity, l.UnitPrice, l.TaxAmount, l.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

func (r *InvoiceRepo) get(ctx context.Context, id string, lock bool) (*entity.Invoice, error) {
	query := `
		SELECT id, company_id, type, counterparty_id, order_id, number, subtotal, tax_total, total,
		       amount_paid, amount_due, status, journal_entry_id, created_by, created_at, updated_at
		FROM invoices WHERE id = $1`
	if lock {
		query += " FOR UPDATE"
	}
	var (
		inv          entity.Invoice
		typ, status  string
		journalEntry *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.CompanyID, &typ, &inv.CounterpartyID, &inv.OrderID, &inv.Number,
		&inv.Subtotal, &inv.TaxTotal, &inv.Total, &inv.AmountPaid, &inv.AmountDue, &status,
		&journalEntry, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Type = entity.InvoiceType(typ)
	inv.Status = entity.InvoiceStatus(status)
	inv.JournalEntryID = fromNull(journalEntry)

	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, quantity, unit_price, tax_amount, line_total
		FROM invoice_lines WHERE invoice_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.TaxAmount, &l.LineTotal); err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, l)
	}
	return &inv, rows.Err()
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, id, false)
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, id, true)
}

// UpdatePayment actualiza abonos, saldo y estado.
func (r *InvoiceRepo) UpdatePayment(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET amount_paid = $2, amount_due = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		inv.ID, inv.AmountPaid, inv.AmountDue, string(inv.Status), inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, inv.ID)
	}
	return nil
}

// ─── Pagos ──────────────────────────────────────────────────────────────────

// PaymentRepo pagos y aplicaciones.
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, company_id, type, counterparty_id, number, amount, amount_applied, method,
			bank_account_id, journal_entry_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.CompanyID, string(p.Type), p.CounterpartyID, p.Number, p.Amount, p.AmountApplied, p.Method,
		nullIfEmpty(p.BankAccountID), nullIfEmpty(p.JournalEntryID), p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pago %s", domain.ErrDuplicate, p.Number)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) CreateApplication(ctx context.Context, a *entity.PaymentApplication) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_applications (id, payment_id, invoice_id, amount_applied, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.PaymentID, a.InvoiceID, a.AmountApplied, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment application: %w", err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	var (
		p             entity.Payment
		typ           string
		bank, journal *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, type, counterparty_id, number, amount, amount_applied, method,
		       bank_account_id, journal_entry_id, created_by, created_at
		FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.CompanyID, &typ, &p.CounterpartyID, &p.Number, &p.Amount, &p.AmountApplied, &p.Method,
		&bank, &journal, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	p.Type = entity.PaymentType(typ)
	p.BankAccountID = fromNull(bank)
	p.JournalEntryID = fromNull(journal)
	return &p, nil
}

func (r *PaymentRepo) ListApplications(ctx context.Context, paymentID string) ([]*entity.PaymentApplication, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, payment_id, invoice_id, amount_applied, created_at
		FROM payment_applications WHERE payment_id = $1
		ORDER BY created_at, id`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment applications: %w", err)
	}
	defer rows.Close()

	var out []*entity.PaymentApplication
	for rows.Next() {
		var a entity.PaymentApplication
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.InvoiceID, &a.AmountApplied, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
