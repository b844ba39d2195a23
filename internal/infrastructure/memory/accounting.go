package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.AccountRepository   = (*accountRepo)(nil)
	_ repository.JournalRepository   = (*journalRepo)(nil)
	_ repository.LedgerRepository    = (*ledgerRepo)(nil)
	_ repository.SequenceRepository  = (*sequenceRepo)(nil)
	_ repository.CustomerRepository  = (*customerRepo)(nil)
	_ repository.VendorRepository    = (*vendorRepo)(nil)
	_ repository.WarehouseRepository = (*warehouseRepo)(nil)
)

type accountRepo struct{ s *Store }

func (r *accountRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Account, error) {
	id, ok := r.s.data.accountByCode[accountKey{companyID: companyID, code: code}]
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, companyID, id)
}

func (r *accountRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Account, error) {
	a, ok := r.s.data.accounts[id]
	if !ok || a.CompanyID != companyID {
		return nil, nil
	}
	c := *a
	return &c, nil
}

type journalRepo struct{ s *Store }

func cloneJournal(e *entity.JournalEntry) *entity.JournalEntry {
	c := *e
	c.Lines = slices.Clone(e.Lines)
	return &c
}

func (r *journalRepo) Create(ctx context.Context, e *entity.JournalEntry) error {
	if _, ok := r.s.data.journals[e.ID]; ok {
		return fmt.Errorf("%w: asiento %s", domain.ErrDuplicate, e.ID)
	}
	r.s.data.journals[e.ID] = cloneJournal(e)
	r.s.data.journalOrder = append(r.s.data.journalOrder, e.ID)
	return nil
}

func (r *journalRepo) GetByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	e, ok := r.s.data.journals[id]
	if !ok {
		return nil, nil
	}
	return cloneJournal(e), nil
}

func (r *journalRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, id := range r.s.data.journalOrder {
		if e := r.s.data.journals[id]; e.CompanyID == companyID {
			out = append(out, cloneJournal(e))
		}
	}
	return out, nil
}

type ledgerRepo struct{ s *Store }

func (r *ledgerRepo) LockBalance(ctx context.Context, key entity.LedgerKey) (decimal.Decimal, error) {
	bal, ok := r.s.data.balances[key]
	if !ok {
		bal = decimal.Zero
		r.s.data.balances[key] = bal
	}
	return bal, nil
}

func (r *ledgerRepo) SetBalance(ctx context.Context, key entity.LedgerKey, balance decimal.Decimal) error {
	if _, ok := r.s.data.balances[key]; !ok {
		return fmt.Errorf("%w: saldo de cartera sin bloquear", domain.ErrNotFound)
	}
	r.s.data.balances[key] = balance
	return nil
}

func (r *ledgerRepo) Create(ctx context.Context, e *entity.ArApLedgerEntry) error {
	r.s.data.ledgerSeq++
	e.Seq = r.s.data.ledgerSeq
	c := *e
	r.s.data.ledger = append(r.s.data.ledger, &c)
	return nil
}

func (r *ledgerRepo) List(ctx context.Context, key entity.LedgerKey) ([]*entity.ArApLedgerEntry, error) {
	var out []*entity.ArApLedgerEntry
	for _, e := range r.s.data.ledger {
		if e.CompanyID == key.CompanyID && e.LedgerType == key.LedgerType && e.CounterpartyID == key.CounterpartyID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

type sequenceRepo struct{ s *Store }

func (r *sequenceRepo) LockOrCreate(ctx context.Context, def entity.DocumentSequence) (*entity.DocumentSequence, error) {
	k := seqKey{companyID: def.CompanyID, docType: def.DocumentType}
	cur, ok := r.s.data.sequences[k]
	if !ok {
		c := def
		r.s.data.sequences[k] = &c
		cur = &c
	}
	out := *cur
	return &out, nil
}

func (r *sequenceRepo) Advance(ctx context.Context, companyID string, docType entity.DocumentType) (int64, error) {
	k := seqKey{companyID: companyID, docType: docType}
	cur, ok := r.s.data.sequences[k]
	if !ok {
		return 0, fmt.Errorf("%w: secuencia %s", domain.ErrNotFound, docType)
	}
	next := *cur
	next.CurrentNumber++
	r.s.data.sequences[k] = &next
	return next.CurrentNumber, nil
}

type customerRepo struct{ s *Store }

func (r *customerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

type vendorRepo struct{ s *Store }

func (r *vendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	v, ok := r.s.data.vendors[id]
	if !ok {
		return nil, nil
	}
	out := *v
	return &out, nil
}

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.s.data.warehouses[id]
	if !ok {
		return nil, nil
	}
	out := *w
	return &out, nil
}
