package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.AccountRepository  = (*AccountRepo)(nil)
	_ repository.JournalRepository  = (*JournalRepo)(nil)
	_ repository.LedgerRepository   = (*LedgerRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// ─── Plan de cuentas ────────────────────────────────────────────────────────

type AccountRepo struct {
	q Querier
}

func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

func (r *AccountRepo) get(ctx context.Context, query string, args ...any) (*entity.Account, error) {
	var (
		a   entity.Account
		typ string
	)
	err := r.q.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &typ)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Type = entity.AccountType(typ)
	return &a, nil
}

func (r *AccountRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Account, error) {
	return r.get(ctx, `SELECT id, company_id, code, name, type FROM accounts WHERE company_id = $1 AND code = $2`, companyID, code)
}

func (r *AccountRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Account, error) {
	return r.get(ctx, `SELECT id, company_id, code, name, type FROM accounts WHERE company_id = $1 AND id = $2`, companyID, id)
}

// ─── Asientos ───────────────────────────────────────────────────────────────

type JournalRepo struct {
	q Querier
}

func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create inserta cabecera y líneas; el CHECK de la tabla rechaza un asiento descuadrado.
func (r *JournalRepo) Create(ctx context.Context, e *entity.JournalEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO journal_entries (id, company_id, number, status, total_debit, total_credit, source_type, source_id,
			source_number, description, posted_by, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.CompanyID, e.Number, e.Status, e.TotalDebit, e.TotalCredit, string(e.SourceType), e.SourceID,
		e.SourceNumber, e.Description, e.PostedBy, e.PostedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asiento %s", domain.ErrDuplicate, e.Number)
		}
		return fmt.Errorf("insert journal entry: %w", err)
	}
	for _, l := range e.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO journal_entry_lines (id, entry_id, line_no, account_id, debit, credit, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, e.ID, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Description,
		)
		if err != nil {
			return fmt.Errorf("insert journal entry line: %w", err)
		}
	}
	return nil
}

const journalColumns = `id, company_id, number, status, total_debit, total_credit, source_type, source_id,
	source_number, description, posted_by, posted_at`

func scanJournal(row pgx.Row) (*entity.JournalEntry, error) {
	var (
		e          entity.JournalEntry
		sourceType string
	)
	if err := row.Scan(&e.ID, &e.CompanyID, &e.Number, &e.Status, &e.TotalDebit, &e.TotalCredit, &sourceType,
		&e.SourceID, &e.SourceNumber, &e.Description, &e.PostedBy, &e.PostedAt); err != nil {
		return nil, err
	}
	e.SourceType = entity.DocumentType(sourceType)
	return &e, nil
}

// loadLines completa las líneas (con el código de cuenta) de los asientos dados.
func (r *JournalRepo) loadLines(ctx context.Context, entries []*entity.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	byID := make(map[string]*entity.JournalEntry, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		byID[e.ID] = e
	}
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.entry_id, l.line_no, l.account_id, a.code, l.debit, l.credit, l.description
		FROM journal_entry_lines l
		JOIN accounts a ON a.id = l.account_id
		WHERE l.entry_id = ANY($1::text[]::uuid[])
		ORDER BY l.entry_id, l.line_no`, ids)
	if err != nil {
		return fmt.Errorf("list journal entry lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.JournalEntryLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.LineNo, &l.AccountID, &l.AccountCode, &l.Debit, &l.Credit, &l.Description); err != nil {
			return err
		}
		if e := byID[l.EntryID]; e != nil {
			e.Lines = append(e.Lines, l)
		}
	}
	return rows.Err()
}

func (r *JournalRepo) GetByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	e, err := scanJournal(r.q.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.JournalEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *JournalRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.JournalEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+journalColumns+` FROM journal_entries
		WHERE company_id = $1
		ORDER BY posted_at, number`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	var out []*entity.JournalEntry
	for rows.Next() {
		e, err := scanJournal(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Cartera AR/AP ──────────────────────────────────────────────────────────

type LedgerRepo struct {
	q Querier
}

func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// LockBalance serializa los movimientos de un mismo tercero sobre su fila de saldo.
func (r *LedgerRepo) LockBalance(ctx context.Context, key entity.LedgerKey) (decimal.Decimal, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ar_ap_balances (company_id, ledger_type, counterparty_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, ledger_type, counterparty_id) DO NOTHING`,
		key.CompanyID, string(key.LedgerType), key.CounterpartyID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("insert ledger balance: %w", err)
	}
	var balance decimal.Decimal
	err = r.q.QueryRow(ctx, `
		SELECT balance FROM ar_ap_balances
		WHERE company_id = $1 AND ledger_type = $2 AND counterparty_id = $3
		FOR UPDATE`,
		key.CompanyID, string(key.LedgerType), key.CounterpartyID,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lock ledger balance: %w", err)
	}
	return balance, nil
}

func (r *LedgerRepo) SetBalance(ctx context.Context, key entity.LedgerKey, balance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE ar_ap_balances SET balance = $4, updated_at = now()
		WHERE company_id = $1 AND ledger_type = $2 AND counterparty_id = $3`,
		key.CompanyID, string(key.LedgerType), key.CounterpartyID, balance,
	)
	if err != nil {
		return fmt.Errorf("update ledger balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: saldo de cartera %s/%s", domain.ErrNotFound, key.LedgerType, key.CounterpartyID)
	}
	return nil
}

func (r *LedgerRepo) Create(ctx context.Context, e *entity.ArApLedgerEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO ar_ap_ledger (id, company_id, ledger_type, counterparty_id, entry_type, source_id, debit, credit,
			amount, running_balance, journal_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`,
		e.ID, e.CompanyID, string(e.LedgerType), e.CounterpartyID, string(e.EntryType), e.SourceID, e.Debit, e.Credit,
		e.Amount, e.RunningBalance, nullIfEmpty(e.JournalEntryID), e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepo) List(ctx context.Context, key entity.LedgerKey) ([]*entity.ArApLedgerEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, seq, company_id, ledger_type, counterparty_id, entry_type, source_id, debit, credit,
		       amount, running_balance, journal_entry_id, created_at
		FROM ar_ap_ledger
		WHERE company_id = $1 AND ledger_type = $2 AND counterparty_id = $3
		ORDER BY seq`,
		key.CompanyID, string(key.LedgerType), key.CounterpartyID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.ArApLedgerEntry
	for rows.Next() {
		var (
			e                   entity.ArApLedgerEntry
			ledgerType, entType string
			journal             *string
		)
		if err := rows.Scan(&e.ID, &e.Seq, &e.CompanyID, &ledgerType, &e.CounterpartyID, &entType, &e.SourceID,
			&e.Debit, &e.Credit, &e.Amount, &e.RunningBalance, &journal, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.LedgerType = entity.LedgerType(ledgerType)
		e.EntryType = entity.LedgerEntryType(entType)
		e.JournalEntryID = fromNull(journal)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ─── Numeración ─────────────────────────────────────────────────────────────

type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// LockOrCreate inserta def si falta y bloquea la fila hasta el fin de la transacción.
func (r *SequenceRepo) LockOrCreate(ctx context.Context, def entity.DocumentSequence) (*entity.DocumentSequence, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO document_sequences (company_id, document_type, prefix, suffix, current_number, number_length)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, document_type) DO NOTHING`,
		def.CompanyID, string(def.DocumentType), def.Prefix, def.Suffix, def.CurrentNumber, def.NumberLength,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document sequence: %w", err)
	}
	var (
		s       entity.DocumentSequence
		docType string
	)
	err = r.q.QueryRow(ctx, `
		SELECT company_id, document_type, prefix, suffix, current_number, number_length
		FROM document_sequences
		WHERE company_id = $1 AND document_type = $2
		FOR UPDATE`,
		def.CompanyID, string(def.DocumentType),
	).Scan(&s.CompanyID, &docType, &s.Prefix, &s.Suffix, &s.CurrentNumber, &s.NumberLength)
	if err != nil {
		return nil, fmt.Errorf("lock document sequence: %w", err)
	}
	s.DocumentType = entity.DocumentType(docType)
	return &s, nil
}

func (r *SequenceRepo) Advance(ctx context.Context, companyID string, docType entity.DocumentType) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		UPDATE document_sequences SET current_number = current_number + 1
		WHERE company_id = $1 AND document_type = $2
		RETURNING current_number`,
		companyID, string(docType),
	).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: secuencia %s", domain.ErrNotFound, docType)
		}
		return 0, fmt.Errorf("advance document sequence: %w", err)
	}
	return n, nil
}
