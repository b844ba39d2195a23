package accounting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaccounting "github.com/jhoicas/erp-workflow-api/internal/application/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

func TestSubLedger_RunningBalanceIsCumulative(t *testing.T) {
	s, _ := newStore(t)
	sl := appaccounting.NewSubLedger(fixedNow)
	key := entity.LedgerKey{CompanyID: company, LedgerType: entity.LedgerAR, CounterpartyID: "cli-1"}

	steps := []struct {
		typ     entity.LedgerEntryType
		amount  string
		balance string
	}{
		{entity.LedgerEntryInvoice, "550", "550"},
		{entity.LedgerEntryInvoice, "100", "650"},
		{entity.LedgerEntryPayment, "300", "350"},
	}
	for _, st := range steps {
		err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
			e, err := sl.AppendEntry(ctx, r, appaccounting.AppendRequest{Key: key, EntryType: st.typ, SourceID: "src", Amount: d(st.amount)})
			if err != nil {
				return err
			}
			assert.True(t, e.RunningBalance.Equal(d(st.balance)), "saldo %s, esperado %s", e.RunningBalance, st.balance)
			return nil
		})
		require.NoError(t, err)
	}

	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		rows, err := r.Ledger.List(ctx, key)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.True(t, rows[0].Debit.Equal(d("550")))
		assert.True(t, rows[2].Credit.Equal(d("300")))
		assert.True(t, rows[2].Amount.Equal(d("-300")))
		assert.Less(t, rows[0].Seq, rows[2].Seq)
		return nil
	})
	require.NoError(t, err)
}

func TestSubLedger_APSides(t *testing.T) {
	s, _ := newStore(t)
	sl := appaccounting.NewSubLedger(fixedNow)
	key := entity.LedgerKey{CompanyID: company, LedgerType: entity.LedgerAP, CounterpartyID: "prov-1"}

	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		h, err := sl.Lock(ctx, r, key)
		require.NoError(t, err)
		bill, err := sl.Append(ctx, r, h, entity.LedgerEntryInvoice, "bill", d("238"), "")
		require.NoError(t, err)
		assert.True(t, bill.Credit.Equal(d("238")))
		assert.True(t, bill.Debit.IsZero())

		pay, err := sl.Append(ctx, r, h, entity.LedgerEntryPayment, "pay", d("38"), "")
		require.NoError(t, err)
		assert.True(t, pay.Debit.Equal(d("38")))
		assert.True(t, h.Balance().Equal(d("200")))
		return nil
	})
	require.NoError(t, err)
}

func TestSubLedger_Rejects(t *testing.T) {
	s, _ := newStore(t)
	sl := appaccounting.NewSubLedger(fixedNow)

	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		_, err := sl.Lock(ctx, r, entity.LedgerKey{CompanyID: company, LedgerType: "gl", CounterpartyID: "x"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		_, err := sl.AppendEntry(ctx, r, appaccounting.AppendRequest{
			Key:       entity.LedgerKey{CompanyID: company, LedgerType: entity.LedgerAR, CounterpartyID: "x"},
			EntryType: entity.LedgerEntryInvoice,
			Amount:    d("0"),
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSequenceGenerator_PerCompanyAndType(t *testing.T) {
	s, _ := newStore(t)
	g := appaccounting.NewSequenceGenerator()

	var got []string
	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		for _, c := range []struct {
			company string
			typ     entity.DocumentType
		}{
			{company, entity.DocSalesOrder},
			{company, entity.DocSalesOrder},
			{company, entity.DocCustomerInvoice},
			{"otra", entity.DocSalesOrder},
		} {
			n, err := g.NextNumber(ctx, r, c.company, c.typ)
			if err != nil {
				return err
			}
			got = append(got, n)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SO-000001", "SO-000002", "INV-000001", "SO-000001"}, got)
}

func TestSequenceGenerator_RollbackDoesNotConsume(t *testing.T) {
	s, _ := newStore(t)
	g := appaccounting.NewSequenceGenerator()

	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		_, err := g.NextNumber(ctx, r, company, entity.DocDelivery)
		require.NoError(t, err)
		return domain.ErrConflict
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	err = s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		n, err := g.NextNumber(ctx, r, company, entity.DocDelivery)
		assert.Equal(t, "DN-000001", n)
		return err
	})
	require.NoError(t, err)
}
