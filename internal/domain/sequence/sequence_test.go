package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

func TestFormat(t *testing.T) {
	seq := DefaultFor("c1", entity.DocCustomerInvoice)
	assert.Equal(t, "INV-000001", Format(seq, 1))
	assert.Equal(t, "INV-123456", Format(seq, 123456))
	assert.Equal(t, "INV-1234567", Format(seq, 1234567))

	seq.Suffix = "/26"
	seq.NumberLength = 3
	assert.Equal(t, "INV-042/26", Format(seq, 42))

	seq.NumberLength = 0
	assert.Equal(t, "INV-000042/26", Format(seq, 42))
}

func TestDefaultPrefix(t *testing.T) {
	assert.Equal(t, "SO-", DefaultPrefix(entity.DocSalesOrder))
	assert.Equal(t, "JE-", DefaultPrefix(entity.DocJournalEntry))
	assert.Equal(t, "BILL-", DefaultPrefix(entity.DocVendorInvoice))
	assert.Equal(t, "DOC-", DefaultPrefix(entity.DocumentType("otro")))
}
