// Package sequence formatea números de documento: prefijo + consecutivo con ceros + sufijo.
package sequence

import (
	"fmt"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// DefaultNumberLength dígitos del consecutivo cuando la secuencia no define otro.
const DefaultNumberLength = 6

var defaultPrefixes = map[entity.DocumentType]string{
	entity.DocSalesOrder:      "SO-",
	entity.DocPurchaseOrder:   "PO-",
	entity.DocDelivery:        "DN-",
	entity.DocGoodsReceipt:    "GR-",
	entity.DocCustomerInvoice: "INV-",
	entity.DocVendorInvoice:   "BILL-",
	entity.DocPaymentReceived: "RCV-",
	entity.DocPaymentMade:     "PAY-",
	entity.DocJournalEntry:    "JE-",
}

// DefaultFor secuencia inicial (CurrentNumber 0) de una compañía para docType.
func DefaultFor(companyID string, docType entity.DocumentType) entity.DocumentSequence {
	return entity.DocumentSequence{
		CompanyID:     companyID,
		DocumentType:  docType,
		Prefix:        DefaultPrefix(docType),
		CurrentNumber: 0,
		NumberLength:  DefaultNumberLength,
	}
}

// DefaultPrefix prefijo por defecto; tipos desconocidos usan "DOC-".
func DefaultPrefix(docType entity.DocumentType) string {
	if p, ok := defaultPrefixes[docType]; ok {
		return p
	}
	return "DOC-"
}

// Format arma el número visible. Si n tiene más dígitos que NumberLength no se trunca.
func Format(seq entity.DocumentSequence, n int64) string {
	width := seq.NumberLength
	if width <= 0 {
		width = DefaultNumberLength
	}
	return fmt.Sprintf("%s%0*d%s", seq.Prefix, width, n, seq.Suffix)
}
