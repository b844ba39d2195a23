package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus estado de una reserva de stock.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationFulfilled ReservationStatus = "fulfilled"
	ReservationReleased  ReservationStatus = "released"
)

// StockReservation compromete cantidad de un nivel de stock para una línea de orden de venta.
// Seq fija el orden FIFO de consumo.
type StockReservation struct {
	ID                string
	Seq               int64
	CompanyID         string
	SalesOrderID      string
	OrderLineID       string
	ProductID         string
	WarehouseID       string
	QuantityReserved  decimal.Decimal
	QuantityFulfilled decimal.Decimal
	Status            ReservationStatus
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Remaining cantidad aún comprometida.
func (r *StockReservation) Remaining() decimal.Decimal {
	return r.QuantityReserved.Sub(r.QuantityFulfilled)
}

// Consume registra qty como cumplida; pasa a fulfilled al agotarse.
func (r *StockReservation) Consume(qty decimal.Decimal, at time.Time) {
	r.QuantityFulfilled = r.QuantityFulfilled.Add(qty)
	if r.QuantityFulfilled.GreaterThanOrEqual(r.QuantityReserved) {
		r.Status = ReservationFulfilled
	}
	r.UpdatedAt = at
}

// Release libera lo pendiente; devuelve la cantidad que vuelve a estar disponible.
func (r *StockReservation) Release(at time.Time) decimal.Decimal {
	remaining := r.Remaining()
	r.Status = ReservationReleased
	r.UpdatedAt = at
	return remaining
}
