package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery (remisión) despacha una orden de venta confirmada.
type Delivery struct {
	ID             string
	CompanyID      string
	SalesOrderID   string
	WarehouseID    string
	Number         string
	TotalCost      decimal.Decimal
	JournalEntryID string // vacío si el costo total es cero
	Lines          []DeliveryLine
	CreatedBy      string
	CreatedAt      time.Time
}

// DeliveryLine línea despachada con el costo promedio aplicado.
type DeliveryLine struct {
	ID          string
	DeliveryID  string
	OrderLineID string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	MovementID  string
}

// GoodsReceipt (entrada de almacén) recibe una orden de compra.
type GoodsReceipt struct {
	ID              string
	CompanyID       string
	PurchaseOrderID string
	WarehouseID     string
	Number          string
	TotalCost       decimal.Decimal
	JournalEntryID  string
	Lines           []GoodsReceiptLine
	CreatedBy       string
	CreatedAt       time.Time
}

type GoodsReceiptLine struct {
	ID          string
	ReceiptID   string
	OrderLineID string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	MovementID  string
}
