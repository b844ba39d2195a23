package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica un nivel de stock: compañía, producto y bodega.
type StockKey struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
}

// StockLevel es el saldo materializado de un producto en una bodega.
// Invariante: QuantityAvailable = QuantityOnHand - QuantityReserved.
type StockLevel struct {
	CompanyID         string
	ProductID         string
	WarehouseID       string
	QuantityOnHand    decimal.Decimal
	QuantityReserved  decimal.Decimal
	QuantityAvailable decimal.Decimal
	QuantityOnOrder   decimal.Decimal
	AverageCost       decimal.Decimal
	UpdatedAt         time.Time
}

func (s *StockLevel) Key() StockKey {
	return StockKey{CompanyID: s.CompanyID, ProductID: s.ProductID, WarehouseID: s.WarehouseID}
}

// NewStockLevel nivel vacío para una clave que aún no tiene fila.
func NewStockLevel(k StockKey, at time.Time) *StockLevel {
	return &StockLevel{
		CompanyID:         k.CompanyID,
		ProductID:         k.ProductID,
		WarehouseID:       k.WarehouseID,
		QuantityOnHand:    decimal.Zero,
		QuantityReserved:  decimal.Zero,
		QuantityAvailable: decimal.Zero,
		QuantityOnOrder:   decimal.Zero,
		AverageCost:       decimal.Zero,
		UpdatedAt:         at,
	}
}

// StockDelta cambio relativo que se aplica sobre la fila bloqueada.
// AverageCost nil = no cambia.
type StockDelta struct {
	OnHand      decimal.Decimal
	Reserved    decimal.Decimal
	OnOrder     decimal.Decimal
	AverageCost *decimal.Decimal
}

// Apply aplica el delta y recalcula el disponible.
func (s *StockLevel) Apply(d StockDelta, at time.Time) {
	s.QuantityOnHand = s.QuantityOnHand.Add(d.OnHand)
	s.QuantityReserved = s.QuantityReserved.Add(d.Reserved)
	s.QuantityOnOrder = s.QuantityOnOrder.Add(d.OnOrder)
	if d.AverageCost != nil {
		s.AverageCost = *d.AverageCost
	}
	s.QuantityAvailable = s.QuantityOnHand.Sub(s.QuantityReserved)
	s.UpdatedAt = at
}
