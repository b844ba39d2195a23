package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/dto"
	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
)

// PurchaseOrderHandler flujo de compra.
type PurchaseOrderHandler struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

func NewPurchaseOrderHandler(engine *workflow.Engine, log zerolog.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{engine: engine, log: log}
}

// Create POST /api/purchase-orders
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	order, err := h.engine.CreatePurchaseOrder(c.UserContext(), workflow.DraftOrderInput{
		CompanyID:      GetCompanyID(c),
		CounterpartyID: in.VendorID,
		WarehouseID:    in.WarehouseID,
		FiscalPeriod:   in.FiscalPeriod,
		UserID:         GetUserID(c),
		Lines:          draftLines(in.Lines),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchaseOrder(order))
}

// GetByID GET /api/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	order, err := h.engine.GetPurchaseOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromPurchaseOrder(order))
}

// Confirm POST /api/purchase-orders/:id/confirm
func (h *PurchaseOrderHandler) Confirm(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.ConfirmPurchaseOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromPurchaseOrder(res.Order))
}

// Receive entrada de mercancía al costo de la orden.
// POST /api/purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.ReceiveGoodsFromPurchaseOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.GoodsReceiptResultResponse{
		Order:        dto.FromPurchaseOrder(res.Order),
		Receipt:      dto.FromGoodsReceipt(res.Receipt),
		Movements:    dto.FromMovements(res.Movements),
		JournalEntry: dto.FromJournalEntryPtr(res.JournalEntry),
	})
}

// Bill registra la factura del proveedor.
// POST /api/purchase-orders/:id/bill
func (h *PurchaseOrderHandler) Bill(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.CreateVendorInvoice(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoiceResult(res))
}

// Cancel POST /api/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.engine.CancelPurchaseOrder(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromPurchaseOrder(res.Order))
}
