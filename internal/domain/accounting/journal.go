package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// LineInput línea de asiento antes de resolver la cuenta.
// Si AccountID viene informado se usa esa cuenta; si no, se busca AccountCode.
type LineInput struct {
	AccountCode string
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// Dr línea débito.
func Dr(code string, amount decimal.Decimal, desc string) LineInput {
	return LineInput{AccountCode: code, Debit: amount, Credit: decimal.Zero, Description: desc}
}

// Cr línea crédito.
func Cr(code string, amount decimal.Decimal, desc string) LineInput {
	return LineInput{AccountCode: code, Debit: decimal.Zero, Credit: amount, Description: desc}
}

// NewJournalEntry valida las líneas ya resueltas y arma el asiento contabilizado.
// Exige al menos dos líneas, cada una con un solo lado positivo, y débitos == créditos.
// Cualquier violación es ErrUnbalancedEntry: nada se persiste.
func NewJournalEntry(header entity.JournalEntry, lines []entity.JournalEntryLine) (*entity.JournalEntry, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: se requieren al menos 2 líneas, hay %d", domain.ErrUnbalancedEntry, len(lines))
	}
	debit, credit := decimal.Zero, decimal.Zero
	out := make([]entity.JournalEntryLine, len(lines))
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d con valor negativo", domain.ErrUnbalancedEntry, i+1)
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d debe tener débito o crédito, no ambos", domain.ErrUnbalancedEntry, i+1)
		}
		if l.AccountID == "" {
			return nil, fmt.Errorf("%w: línea %d sin cuenta", domain.ErrUnbalancedEntry, i+1)
		}
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
		l.LineNo = i + 1
		l.EntryID = header.ID
		out[i] = l
	}
	if !debit.Equal(credit) {
		return nil, fmt.Errorf("%w: débitos %s, créditos %s", domain.ErrUnbalancedEntry, debit, credit)
	}

	e := header
	e.Status = entity.JournalStatusPosted
	e.TotalDebit = debit
	e.TotalCredit = credit
	e.Lines = out
	return &e, nil
}

// CheckBalanced validación previa sobre LineInput (antes de resolver cuentas).
func CheckBalanced(lines []LineInput) error {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: débitos %s, créditos %s", domain.ErrUnbalancedEntry, debit, credit)
	}
	return nil
}
