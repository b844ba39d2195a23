package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// MovementResponse movimiento de kardex.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	SourceNumber string          `json:"source_number"`
}

// FulfillmentLineResponse línea de entrega o recepción.
type FulfillmentLineResponse struct {
	OrderLineID string          `json:"order_line_id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	MovementID  string          `json:"movement_id"`
}

// FulfillmentResponse entrega (DN-) o recepción (GR-).
type FulfillmentResponse struct {
	ID             string                    `json:"id"`
	OrderID        string                    `json:"order_id"`
	WarehouseID    string                    `json:"warehouse_id"`
	Number         string                    `json:"number"`
	TotalCost      decimal.Decimal           `json:"total_cost"`
	JournalEntryID string                    `json:"journal_entry_id,omitempty"`
	Lines          []FulfillmentLineResponse `json:"lines"`
	CreatedAt      time.Time                 `json:"created_at"`
}

// DeliveryResultResponse respuesta de POST /sales-orders/:id/deliver.
type DeliveryResultResponse struct {
	Order        SalesOrderResponse    `json:"order"`
	Delivery     FulfillmentResponse   `json:"delivery"`
	Movements    []MovementResponse    `json:"movements"`
	JournalEntry *JournalEntryResponse `json:"journal_entry,omitempty"`
}

// GoodsReceiptResultResponse respuesta de POST /purchase-orders/:id/receive.
type GoodsReceiptResultResponse struct {
	Order        PurchaseOrderResponse `json:"order"`
	Receipt      FulfillmentResponse   `json:"receipt"`
	Movements    []MovementResponse    `json:"movements"`
	JournalEntry *JournalEntryResponse `json:"journal_entry,omitempty"`
}

// StockLevelResponse saldo de un producto en una bodega.
type StockLevelResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	QuantityOnOrder   decimal.Decimal `json:"quantity_on_order"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func FromMovements(ms []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, MovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			WarehouseID:  m.WarehouseID,
			Type:         m.Type,
			Quantity:     m.Quantity,
			UnitCost:     m.UnitCost,
			TotalCost:    m.TotalCost,
			SourceNumber: m.SourceNumber,
		})
	}
	return out
}

func FromDelivery(d *entity.Delivery) FulfillmentResponse {
	lines := make([]FulfillmentLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, FulfillmentLineResponse{
			OrderLineID: l.OrderLineID, ProductID: l.ProductID, Quantity: l.Quantity,
			UnitCost: l.UnitCost, TotalCost: l.TotalCost, MovementID: l.MovementID,
		})
	}
	return FulfillmentResponse{
		ID: d.ID, OrderID: d.SalesOrderID, WarehouseID: d.WarehouseID, Number: d.Number,
		TotalCost: d.TotalCost, JournalEntryID: d.JournalEntryID, Lines: lines, CreatedAt: d.CreatedAt,
	}
}

func FromGoodsReceipt(g *entity.GoodsReceipt) FulfillmentResponse {
	lines := make([]FulfillmentLineResponse, 0, len(g.Lines))
	for _, l := range g.Lines {
		lines = append(lines, FulfillmentLineResponse{
			OrderLineID: l.OrderLineID, ProductID: l.ProductID, Quantity: l.Quantity,
			UnitCost: l.UnitCost, TotalCost: l.TotalCost, MovementID: l.MovementID,
		})
	}
	return FulfillmentResponse{
		ID: g.ID, OrderID: g.PurchaseOrderID, WarehouseID: g.WarehouseID, Number: g.Number,
		TotalCost: g.TotalCost, JournalEntryID: g.JournalEntryID, Lines: lines, CreatedAt: g.CreatedAt,
	}
}

func FromStockLevel(s *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:         s.ProductID,
		WarehouseID:       s.WarehouseID,
		QuantityOnHand:    s.QuantityOnHand,
		QuantityReserved:  s.QuantityReserved,
		QuantityAvailable: s.QuantityAvailable,
		QuantityOnOrder:   s.QuantityOnOrder,
		AverageCost:       s.AverageCost,
		UpdatedAt:         s.UpdatedAt,
	}
}
