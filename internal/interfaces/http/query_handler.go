package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-workflow-api/internal/application/dto"
	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// QueryHandler consultas de stock, cartera, facturas y asientos.
type QueryHandler struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

func NewQueryHandler(engine *workflow.Engine, log zerolog.Logger) *QueryHandler {
	return &QueryHandler{engine: engine, log: log}
}

// StockLevel GET /api/stock-levels/:productId/:warehouseId
func (h *QueryHandler) StockLevel(c *fiber.Ctx) error {
	warehouseID, err := uuidParam(c, "warehouseId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	level, err := h.engine.GetStockLevel(c.UserContext(), entity.StockKey{
		CompanyID:   GetCompanyID(c),
		ProductID:   c.Params("productId"),
		WarehouseID: warehouseID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromStockLevel(level))
}

// Ledger movimientos de cartera; :type es ar (clientes) o ap (proveedores).
// GET /api/ledger/:type/:counterpartyId
func (h *QueryHandler) Ledger(c *fiber.Ctx) error {
	counterpartyID, err := uuidParam(c, "counterpartyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rows, err := h.engine.ListLedger(c.UserContext(), entity.LedgerKey{
		CompanyID:      GetCompanyID(c),
		LedgerType:     entity.LedgerType(c.Params("type")),
		CounterpartyID: counterpartyID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromLedgerEntry(r))
	}
	return c.JSON(out)
}

// Invoice GET /api/invoices/:id
func (h *QueryHandler) Invoice(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	inv, err := h.engine.GetInvoice(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromInvoice(inv))
}

// JournalEntries asientos de la compañía del token.
// GET /api/journal-entries
func (h *QueryHandler) JournalEntries(c *fiber.Ctx) error {
	entries, err := h.engine.ListJournalEntries(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromJournalEntry(e))
	}
	return c.JSON(out)
}
