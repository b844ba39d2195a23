package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/dto"
	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
)

// PaymentHandler recaudos de clientes y pagos a proveedores.
type PaymentHandler struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

func NewPaymentHandler(engine *workflow.Engine, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{engine: engine, log: log}
}

// Received POST /api/payments/received
func (h *PaymentHandler) Received(c *fiber.Ctx) error {
	return h.apply(c, h.engine.ReceivePayment)
}

// Made POST /api/payments/made
func (h *PaymentHandler) Made(c *fiber.Ctx) error {
	return h.apply(c, h.engine.MakeVendorPayment)
}

func (h *PaymentHandler) apply(c *fiber.Ctx, op func(context.Context, workflow.PaymentInput) (*workflow.PaymentResult, error)) error {
	var in dto.PaymentRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := op(c.UserContext(), workflow.PaymentInput{
		CompanyID:      GetCompanyID(c),
		CounterpartyID: in.CounterpartyID,
		InvoiceIDs:     in.InvoiceIDs,
		Amount:         in.Amount,
		Method:         in.Method,
		BankAccountID:  in.BankAccountID,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.FromPayment(res.Payment, res.Applications, res.Invoices)
	out.JournalEntry = dto.FromJournalEntryPtr(res.JournalEntry)
	out.LedgerEntry = dto.FromLedgerEntryPtr(res.LedgerEntry)
	return c.Status(fiber.StatusCreated).JSON(out)
}
