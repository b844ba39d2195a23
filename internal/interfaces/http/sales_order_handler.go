package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/dto"
	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
)

// SalesOrderHandler flujo de venta: borrador, confirmación, despacho, factura y anulación.
type SalesOrderHandler struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

func NewSalesOrderHandler(engine *workflow.Engine, log zerolog.Logger) *SalesOrderHandler {
	return &SalesOrderHandler{engine: engine, log: log}
}

// Create registra una orden de venta en borrador.
// POST /api/sales-orders
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	order, err := h.engine.CreateSalesOrder(c.UserContext(), workflow.DraftOrderInput{
		CompanyID:      GetCompanyID(c),
		CounterpartyID: in.CustomerID,
		WarehouseID:    in.WarehouseID,
		FiscalPeriod:   in.FiscalPeriod,
		UserID:         GetUserID(c),
		Lines:          draftLines(in.Lines),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSalesOrder(order))
}

// GetByID GET /api/sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	order, err := h.engine.GetSalesOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// Confirm numera la orden y reserva stock.
// POST /api/sales-orders/:id/confirm
func (h *SalesOrderHandler) Confirm(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.ConfirmSalesOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ConfirmSalesOrderResponse{Order: dto.FromSalesOrder(res.Order), Reservations: dto.FromReservations(res.Reservations)})
}

// Deliver despacha la orden: salida de inventario y asiento de costo de ventas.
// POST /api/sales-orders/:id/deliver
func (h *SalesOrderHandler) Deliver(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.CreateDeliveryFromSalesOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DeliveryResultResponse{
		Order:        dto.FromSalesOrder(res.Order),
		Delivery:     dto.FromDelivery(res.Delivery),
		Movements:    dto.FromMovements(res.Movements),
		JournalEntry: dto.FromJournalEntryPtr(res.JournalEntry),
	})
}

// Invoice factura la orden despachada.
// POST /api/sales-orders/:id/invoice
func (h *SalesOrderHandler) Invoice(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.CreateInvoiceFromSalesOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoiceResult(res))
}

// Cancel anula la orden y libera sus reservas.
// POST /api/sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.CancelSalesOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ConfirmSalesOrderResponse{Order: dto.FromSalesOrder(res.Order), Reservations: dto.FromReservations(res.Reservations)})
}

func draftLines(in []dto.OrderLineRequest) []workflow.DraftLine {
	out := make([]workflow.DraftLine, len(in))
	for i, l := range in {
		out[i] = workflow.DraftLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, TaxAmount: l.TaxAmount}
	}
	return out
}

func invoiceResult(res *workflow.InvoiceResult) dto.InvoiceResultResponse {
	return dto.InvoiceResultResponse{
		Invoice:      dto.FromInvoice(res.Invoice),
		JournalEntry: dto.FromJournalEntry(res.JournalEntry),
		LedgerEntry:  dto.FromLedgerEntryPtr(res.LedgerEntry),
	}
}
