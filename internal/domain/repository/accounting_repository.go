package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// AccountRepository lectura del plan de cuentas. (nil, nil) si la cuenta no existe.
type AccountRepository interface {
	GetByCode(ctx context.Context, companyID, code string) (*entity.Account, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.Account, error)
}

// JournalRepository asientos contables (cabecera + líneas en la misma transacción).
type JournalRepository interface {
	Create(ctx context.Context, e *entity.JournalEntry) error
	GetByID(ctx context.Context, id string) (*entity.JournalEntry, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.JournalEntry, error)
}

// LedgerRepository cartera AR/AP por tercero.
type LedgerRepository interface {
	// LockBalance crea si hace falta y bloquea el saldo del tercero; devuelve el saldo actual.
	LockBalance(ctx context.Context, key entity.LedgerKey) (decimal.Decimal, error)
	SetBalance(ctx context.Context, key entity.LedgerKey, balance decimal.Decimal) error
	Create(ctx context.Context, e *entity.ArApLedgerEntry) error
	List(ctx context.Context, key entity.LedgerKey) ([]*entity.ArApLedgerEntry, error)
}

// SequenceRepository numeración de documentos.
type SequenceRepository interface {
	// LockOrCreate inserta def si no existe la fila y la bloquea.
	LockOrCreate(ctx context.Context, def entity.DocumentSequence) (*entity.DocumentSequence, error)
	// Advance incrementa y devuelve el nuevo CurrentNumber (fila ya bloqueada).
	Advance(ctx context.Context, companyID string, docType entity.DocumentType) (int64, error)
}
