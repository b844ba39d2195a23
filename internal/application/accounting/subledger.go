package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// SubLedger cartera AR/AP con saldo acumulado real por tercero.
// AR: saldo = anterior + débito - crédito. AP: saldo = anterior + crédito - débito.
type SubLedger struct {
	now func() time.Time
}

func NewSubLedger(now func() time.Time) *SubLedger {
	if now == nil {
		now = time.Now
	}
	return &SubLedger{now: now}
}

// LedgerHandle saldo bloqueado de un tercero dentro de la transacción.
type LedgerHandle struct {
	key     entity.LedgerKey
	balance decimal.Decimal
}

// Balance saldo actual según el handle.
func (h *LedgerHandle) Balance() decimal.Decimal { return h.balance }

// Lock bloquea el saldo del tercero. Se toma antes de la numeración de documentos.
func (s *SubLedger) Lock(ctx context.Context, r repository.Repos, key entity.LedgerKey) (*LedgerHandle, error) {
	if key.LedgerType != entity.LedgerAR && key.LedgerType != entity.LedgerAP {
		return nil, fmt.Errorf("%w: cartera %q", domain.ErrInvalidInput, key.LedgerType)
	}
	bal, err := r.Ledger.LockBalance(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("bloquear cartera: %w", err)
	}
	return &LedgerHandle{key: key, balance: bal}, nil
}

// AppendRequest movimiento de cartera; Amount siempre positivo.
type AppendRequest struct {
	Key            entity.LedgerKey
	EntryType      entity.LedgerEntryType
	SourceID       string
	Amount         decimal.Decimal
	JournalEntryID string
}

// AppendEntry bloquea y registra en un solo paso.
func (s *SubLedger) AppendEntry(ctx context.Context, r repository.Repos, req AppendRequest) (*entity.ArApLedgerEntry, error) {
	h, err := s.Lock(ctx, r, req.Key)
	if err != nil {
		return nil, err
	}
	return s.Append(ctx, r, h, req.EntryType, req.SourceID, req.Amount, req.JournalEntryID)
}

// Append registra el movimiento con el saldo acumulado y actualiza el saldo del handle.
// Las facturas aumentan la deuda del tercero y los pagos la reducen.
func (s *SubLedger) Append(ctx context.Context, r repository.Repos, h *LedgerHandle, entryType entity.LedgerEntryType, sourceID string, amount decimal.Decimal, journalEntryID string) (*entity.ArApLedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: monto de cartera %s", domain.ErrInvalidInput, amount)
	}

	signed := amount
	if entryType == entity.LedgerEntryPayment {
		signed = amount.Neg()
	}
	debit, credit := decimal.Zero, decimal.Zero
	// En AR la factura es débito; en AP es crédito.
	if (h.key.LedgerType == entity.LedgerAR) == (entryType == entity.LedgerEntryInvoice) {
		debit = amount
	} else {
		credit = amount
	}

	e := &entity.ArApLedgerEntry{
		ID:             uuid.New().String(),
		CompanyID:      h.key.CompanyID,
		LedgerType:     h.key.LedgerType,
		CounterpartyID: h.key.CounterpartyID,
		EntryType:      entryType,
		SourceID:       sourceID,
		Debit:          debit,
		Credit:         credit,
		Amount:         signed,
		RunningBalance: h.balance.Add(signed),
		JournalEntryID: journalEntryID,
		CreatedAt:      s.now(),
	}
	if err := r.Ledger.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("guardar movimiento de cartera: %w", err)
	}
	if err := r.Ledger.SetBalance(ctx, h.key, e.RunningBalance); err != nil {
		return nil, fmt.Errorf("actualizar saldo de cartera: %w", err)
	}
	h.balance = e.RunningBalance
	return e, nil
}
