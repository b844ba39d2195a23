package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeReceipt = "receipt" // entrada
	MovementTypeIssue   = "issue"   // salida
)

// StockMovement registro inmutable de un cambio de existencias.
// Quantity es positiva en entradas y negativa en salidas.
type StockMovement struct {
	ID           string
	CompanyID    string
	WarehouseID  string
	ProductID    string
	Type         string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	SourceType   DocumentType
	SourceID     string
	SourceNumber string
	CreatedBy    string
	CreatedAt    time.Time
}
