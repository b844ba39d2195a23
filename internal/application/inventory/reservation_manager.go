package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/allocation"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// ReservationManager compromete stock al confirmar ventas y lo consume (FIFO) al despachar.
type ReservationManager struct {
	now func() time.Time
}

func NewReservationManager(now func() time.Time) *ReservationManager {
	if now == nil {
		now = time.Now
	}
	return &ReservationManager{now: now}
}

// Reserve pasa la cantidad de la línea de disponible a reservado. level debe venir bloqueado.
// Una reserva nunca supera el disponible.
func (m *ReservationManager) Reserve(ctx context.Context, r repository.Repos, level *entity.StockLevel, order *entity.SalesOrder, line entity.OrderLine, userID string) (*entity.StockReservation, *entity.StockLevel, error) {
	qty := line.Quantity
	if !qty.IsPositive() {
		return nil, nil, fmt.Errorf("%w: línea %d con cantidad %s", domain.ErrInvalidInput, line.LineNo, qty)
	}
	if level.QuantityAvailable.LessThan(qty) {
		return nil, nil, &domain.StockShortageError{
			ProductID:   level.ProductID,
			WarehouseID: level.WarehouseID,
			Available:   level.QuantityAvailable,
			Requested:   qty,
		}
	}

	updated, err := r.Stock.ApplyDelta(ctx, level.Key(), entity.StockDelta{Reserved: qty})
	if err != nil {
		return nil, nil, fmt.Errorf("reservar stock: %w", err)
	}

	now := m.now()
	res := &entity.StockReservation{
		ID:                uuid.New().String(),
		CompanyID:         order.CompanyID,
		SalesOrderID:      order.ID,
		OrderLineID:       line.ID,
		ProductID:         line.ProductID,
		WarehouseID:       level.WarehouseID,
		QuantityReserved:  qty,
		QuantityFulfilled: decimal.Zero,
		Status:            entity.ReservationActive,
		CreatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Reservations.Create(ctx, res); err != nil {
		return nil, nil, fmt.Errorf("guardar reserva: %w", err)
	}
	return res, updated, nil
}

// FulfillResult resultado de consumir reservas de una línea.
// Consumed es lo cubierto por reservas; OverDelivered lo despachado sin respaldo.
type FulfillResult struct {
	Consumed      decimal.Decimal
	OverDelivered decimal.Decimal
	Reservations  []*entity.StockReservation
}

// Fulfill consume qty de las reservas activas de la línea, la más antigua primero.
// No toca el nivel de stock: el llamador libera Consumed al registrar la salida.
func (m *ReservationManager) Fulfill(ctx context.Context, r repository.Repos, salesOrderID, orderLineID string, qty decimal.Decimal) (FulfillResult, error) {
	active, err := r.Reservations.ListActiveByLineForUpdate(ctx, salesOrderID, orderLineID)
	if err != nil {
		return FulfillResult{}, fmt.Errorf("bloquear reservas: %w", err)
	}

	buckets := make([]allocation.Bucket, 0, len(active))
	byID := make(map[string]*entity.StockReservation, len(active))
	for _, res := range active {
		buckets = append(buckets, allocation.Bucket{ID: res.ID, Capacity: res.Remaining()})
		byID[res.ID] = res
	}
	allocs, rest := allocation.Greedy(qty, buckets)

	now := m.now()
	out := FulfillResult{OverDelivered: rest}
	for _, a := range allocs {
		res := byID[a.ID]
		res.Consume(a.Amount, now)
		if err := r.Reservations.Update(ctx, res); err != nil {
			return FulfillResult{}, fmt.Errorf("actualizar reserva: %w", err)
		}
		out.Reservations = append(out.Reservations, res)
	}
	out.Consumed = allocation.Total(allocs)
	return out, nil
}

// ReleaseLine libera las reservas activas de una línea y devuelve su pendiente al disponible.
// level debe venir bloqueado.
func (m *ReservationManager) ReleaseLine(ctx context.Context, r repository.Repos, level *entity.StockLevel, salesOrderID, orderLineID string) ([]*entity.StockReservation, error) {
	active, err := r.Reservations.ListActiveByLineForUpdate(ctx, salesOrderID, orderLineID)
	if err != nil {
		return nil, fmt.Errorf("bloquear reservas: %w", err)
	}

	now := m.now()
	released := decimal.Zero
	for _, res := range active {
		released = released.Add(res.Release(now))
		if err := r.Reservations.Update(ctx, res); err != nil {
			return nil, fmt.Errorf("liberar reserva: %w", err)
		}
	}

	take := decimal.Min(released, decimal.Max(level.QuantityReserved, decimal.Zero))
	if take.IsPositive() {
		if _, err := r.Stock.ApplyDelta(ctx, level.Key(), entity.StockDelta{Reserved: take.Neg()}); err != nil {
			return nil, fmt.Errorf("devolver reservado: %w", err)
		}
	}
	return active, nil
}
