package repository

import (
	"context"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// StockLevelRepository puerto del saldo de stock por compañía+producto+bodega.
// Usado dentro de transacciones para garantizar consistencia.
type StockLevelRepository interface {
	// GetOrCreateForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
	GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error)
	// Get lectura sin bloqueo; (nil, nil) si no existe.
	Get(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error)
	// ApplyDelta suma el delta sobre la fila y recalcula el disponible en la misma sentencia.
	ApplyDelta(ctx context.Context, key entity.StockKey, delta entity.StockDelta) (*entity.StockLevel, error)
}

// ReservationRepository puerto de reservas de stock.
type ReservationRepository interface {
	// Create inserta la reserva y asigna Seq (orden de creación).
	Create(ctx context.Context, r *entity.StockReservation) error
	Update(ctx context.Context, r *entity.StockReservation) error
	// ListActiveByLineForUpdate reservas activas de una línea, bloqueadas, en orden FIFO (Seq).
	ListActiveByLineForUpdate(ctx context.Context, salesOrderID, orderLineID string) ([]*entity.StockReservation, error)
	ListByOrder(ctx context.Context, salesOrderID string) ([]*entity.StockReservation, error)
	ListActiveByStock(ctx context.Context, key entity.StockKey) ([]*entity.StockReservation, error)
}

// StockMovementRepository puerto del kárdex (movimientos inmutables).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	ListByStock(ctx context.Context, key entity.StockKey) ([]*entity.StockMovement, error)
}
