package accounting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaccounting "github.com/jhoicas/erp-workflow-api/internal/application/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/memory"
)

const company = "00000000-0000-0000-0000-0000000000c1"

var fixedNow = func() time.Time { return time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC) }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore(t *testing.T) (*memory.Store, map[string]string) {
	t.Helper()
	s := memory.NewStore()
	return s, s.SeedAccounts(company, accounting.DefaultAccountMap())
}

func post(t *testing.T, s *memory.Store, p *appaccounting.JournalPoster, lines []accounting.LineInput) (*entity.JournalEntry, error) {
	t.Helper()
	var out *entity.JournalEntry
	err := s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		var err error
		out, err = p.Post(ctx, r, appaccounting.PostingRequest{
			CompanyID:   company,
			Lines:       lines,
			Source:      entity.SourceRef{Type: entity.DocDelivery, ID: "dn-1", Number: "DN-000001"},
			Description: "prueba",
			UserID:      "u1",
		})
		return err
	})
	return out, err
}

func TestJournalPoster_PostsBalancedEntry(t *testing.T) {
	s, ids := newStore(t)
	p := appaccounting.NewJournalPoster(appaccounting.NewSequenceGenerator(), fixedNow, false)
	m := accounting.DefaultAccountMap()

	je, err := post(t, s, p, m.COGSLines(d("300")))
	require.NoError(t, err)
	assert.Equal(t, "JE-000001", je.Number)
	assert.Equal(t, entity.JournalStatusPosted, je.Status)
	assert.True(t, je.TotalDebit.Equal(d("300")))
	assert.True(t, je.TotalCredit.Equal(d("300")))
	require.Len(t, je.Lines, 2)
	assert.Equal(t, ids[m.COGS], je.Lines[0].AccountID)
	assert.Equal(t, ids[m.Inventory], je.Lines[1].AccountID)
	assert.Equal(t, 1, je.Lines[0].LineNo)
	assert.Equal(t, "DN-000001", je.SourceNumber)

	je2, err := post(t, s, p, m.COGSLines(d("1")))
	require.NoError(t, err)
	assert.Equal(t, "JE-000002", je2.Number)
}

func TestJournalPoster_UnbalancedFails(t *testing.T) {
	s, _ := newStore(t)
	p := appaccounting.NewJournalPoster(appaccounting.NewSequenceGenerator(), fixedNow, false)

	_, err := post(t, s, p, []accounting.LineInput{
		accounting.Dr("5000", d("10"), ""),
		accounting.Cr("1300", d("9.99"), ""),
	})
	assert.ErrorIs(t, err, domain.ErrUnbalancedEntry)
	assert.False(t, domain.IsBusiness(err))

	// la secuencia no avanzó
	je, err := post(t, s, p, accounting.DefaultAccountMap().COGSLines(d("1")))
	require.NoError(t, err)
	assert.Equal(t, "JE-000001", je.Number)
}

func TestJournalPoster_StrictPanicsOnUnbalanced(t *testing.T) {
	s, _ := newStore(t)
	p := appaccounting.NewJournalPoster(appaccounting.NewSequenceGenerator(), fixedNow, true)

	assert.Panics(t, func() {
		_, _ = post(t, s, p, []accounting.LineInput{
			accounting.Dr("5000", d("10"), ""),
			accounting.Cr("1300", d("1"), ""),
		})
	})

	// el store sigue utilizable tras el panic
	_, err := post(t, s, p, accounting.DefaultAccountMap().COGSLines(d("1")))
	assert.NoError(t, err)
}

func TestJournalPoster_MissingAccount(t *testing.T) {
	s, _ := newStore(t)
	p := appaccounting.NewJournalPoster(appaccounting.NewSequenceGenerator(), fixedNow, true)

	_, err := post(t, s, p, []accounting.LineInput{
		accounting.Dr("9999", d("10"), ""),
		accounting.Cr("1300", d("10"), ""),
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	bank := accounting.DefaultAccountMap().PaymentReceivedLines(d("5"), "banco-inexistente")
	_, err = post(t, s, p, bank)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestJournalPoster_BankAccountOverride(t *testing.T) {
	s, _ := newStore(t)
	s.AddAccount(entity.Account{ID: "banco-1", CompanyID: company, Code: "1110", Name: "Banco", Type: entity.AccountAsset})
	p := appaccounting.NewJournalPoster(appaccounting.NewSequenceGenerator(), fixedNow, false)

	je, err := post(t, s, p, accounting.DefaultAccountMap().PaymentReceivedLines(d("5"), "banco-1"))
	require.NoError(t, err)
	assert.Equal(t, "banco-1", je.Lines[0].AccountID)
	assert.Equal(t, "1110", je.Lines[0].AccountCode)
}
