package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// PostingRequest asiento a contabilizar: líneas por código de cuenta y documento origen.
type PostingRequest struct {
	CompanyID   string
	Lines       []accounting.LineInput
	Source      entity.SourceRef
	Description string
	UserID      string
}

// JournalPoster valida y persiste asientos de doble partida.
type JournalPoster struct {
	seq    *SequenceGenerator
	now    func() time.Time
	strict bool
}

// NewJournalPoster construye el motor de contabilización. Con strict, un asiento
// descuadrado además de fallar provoca panic (tests y entornos de desarrollo).
func NewJournalPoster(seq *SequenceGenerator, now func() time.Time, strict bool) *JournalPoster {
	if now == nil {
		now = time.Now
	}
	return &JournalPoster{seq: seq, now: now, strict: strict}
}

// Post resuelve las cuentas, valida el cuadre antes de escribir, toma el número JE
// y guarda cabecera y líneas en la transacción de r.
func (p *JournalPoster) Post(ctx context.Context, r repository.Repos, req PostingRequest) (*entity.JournalEntry, error) {
	// 1) Cuadre sobre las líneas de entrada
	if err := accounting.CheckBalanced(req.Lines); err != nil {
		return nil, p.invariant(err)
	}

	// 2) Resolver cuentas: una cuenta faltante es error, nunca un id vacío
	lines := make([]entity.JournalEntryLine, 0, len(req.Lines))
	for _, in := range req.Lines {
		acc, err := p.resolve(ctx, r, req.CompanyID, in)
		if err != nil {
			return nil, err
		}
		lines = append(lines, entity.JournalEntryLine{
			ID:          uuid.New().String(),
			AccountID:   acc.ID,
			AccountCode: acc.Code,
			Debit:       in.Debit,
			Credit:      in.Credit,
			Description: in.Description,
		})
	}

	entry, err := accounting.NewJournalEntry(entity.JournalEntry{
		ID:           uuid.New().String(),
		CompanyID:    req.CompanyID,
		SourceType:   req.Source.Type,
		SourceID:     req.Source.ID,
		SourceNumber: req.Source.Number,
		Description:  req.Description,
		PostedBy:     req.UserID,
		PostedAt:     p.now(),
	}, lines)
	if err != nil {
		return nil, p.invariant(err)
	}

	// 3) Número del asiento: último bloqueo de la transacción
	number, err := p.seq.NextNumber(ctx, r, req.CompanyID, entity.DocJournalEntry)
	if err != nil {
		return nil, err
	}
	entry.Number = number

	if err := r.Journals.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("guardar asiento: %w", err)
	}
	return entry, nil
}

func (p *JournalPoster) resolve(ctx context.Context, r repository.Repos, companyID string, in accounting.LineInput) (*entity.Account, error) {
	if in.AccountID != "" {
		acc, err := r.Accounts.GetByID(ctx, companyID, in.AccountID)
		if err != nil {
			return nil, fmt.Errorf("buscar cuenta %s: %w", in.AccountID, err)
		}
		if acc == nil {
			return nil, fmt.Errorf("%w: id %s", domain.ErrAccountNotFound, in.AccountID)
		}
		return acc, nil
	}
	acc, err := r.Accounts.GetByCode(ctx, companyID, in.AccountCode)
	if err != nil {
		return nil, fmt.Errorf("buscar cuenta %s: %w", in.AccountCode, err)
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrAccountNotFound, in.AccountCode)
	}
	return acc, nil
}

func (p *JournalPoster) invariant(err error) error {
	if p.strict && errors.Is(err, domain.ErrUnbalancedEntry) {
		panic(err)
	}
	return err
}
