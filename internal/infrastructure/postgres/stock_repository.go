package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.StockLevelRepository    = (*StockRepo)(nil)
	_ repository.ReservationRepository   = (*ReservationRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// StockRepo implementación de StockLevelRepository (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `company_id, product_id, warehouse_id, quantity_on_hand, quantity_reserved,
	quantity_available, quantity_on_order, average_cost, updated_at`

func scanStock(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	err := row.Scan(&s.CompanyID, &s.ProductID, &s.WarehouseID, &s.QuantityOnHand, &s.QuantityReserved,
		&s.QuantityAvailable, &s.QuantityOnOrder, &s.AverageCost, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreateForUpdate inserta la fila en cero si falta y la bloquea.
func (r *StockRepo) GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (company_id, product_id, warehouse_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, product_id, warehouse_id) DO NOTHING`,
		key.CompanyID, key.ProductID, key.WarehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert stock level: %w", err)
	}
	s, err := scanStock(r.q.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM stock_levels
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		FOR UPDATE`,
		key.CompanyID, key.ProductID, key.WarehouseID,
	))
	if err != nil {
		return nil, fmt.Errorf("lock stock level: %w", err)
	}
	return s, nil
}

func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM stock_levels
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`,
		key.CompanyID, key.ProductID, key.WarehouseID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return s, nil
}

// ApplyDelta suma el delta y recalcula el disponible en una sola sentencia.
func (r *StockRepo) ApplyDelta(ctx context.Context, key entity.StockKey, d entity.StockDelta) (*entity.StockLevel, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `
		UPDATE stock_levels
		SET quantity_on_hand   = quantity_on_hand + $4,
		    quantity_reserved  = quantity_reserved + $5,
		    quantity_on_order  = quantity_on_order + $6,
		    average_cost       = COALESCE($7::numeric, average_cost),
		    quantity_available = (quantity_on_hand + $4) - (quantity_reserved + $5),
		    updated_at         = now()
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		RETURNING `+stockColumns,
		key.CompanyID, key.ProductID, key.WarehouseID, d.OnHand, d.Reserved, d.OnOrder, d.AverageCost,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: nivel de stock %s/%s", domain.ErrNotFound, key.ProductID, key.WarehouseID)
		}
		return nil, fmt.Errorf("update stock level: %w", err)
	}
	return s, nil
}

// ─── Reservas ───────────────────────────────────────────────────────────────

// ReservationRepo implementación de ReservationRepository.
type ReservationRepo struct {
	q Querier
}

func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

func (r *ReservationRepo) Create(ctx context.Context, res *entity.StockReservation) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_reservations (id, company_id, sales_order_id, order_line_id, product_id, warehouse_id,
			quantity_reserved, quantity_fulfilled, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`,
		res.ID, res.CompanyID, res.SalesOrderID, res.OrderLineID, res.ProductID, res.WarehouseID,
		res.QuantityReserved, res.QuantityFulfilled, string(res.Status), res.CreatedBy, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.Seq)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepo) Update(ctx context.Context, res *entity.StockReservation) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_reservations
		SET quantity_fulfilled = $2, status = $3, updated_at = $4
		WHERE id = $1`,
		res.ID, res.QuantityFulfilled, string(res.Status), res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reserva %s", domain.ErrNotFound, res.ID)
	}
	return nil
}

const reservationColumns = `id, seq, company_id, sales_order_id, order_line_id, product_id, warehouse_id,
	quantity_reserved, quantity_fulfilled, status, created_by, created_at, updated_at`

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockReservation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockReservation
	for rows.Next() {
		var (
			res    entity.StockReservation
			status string
		)
		if err := rows.Scan(&res.ID, &res.Seq, &res.CompanyID, &res.SalesOrderID, &res.OrderLineID, &res.ProductID,
			&res.WarehouseID, &res.QuantityReserved, &res.QuantityFulfilled, &status, &res.CreatedBy,
			&res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		res.Status = entity.ReservationStatus(status)
		out = append(out, &res)
	}
	return out, rows.Err()
}

// ListActiveByLineForUpdate bloquea en orden FIFO (seq).
func (r *ReservationRepo) ListActiveByLineForUpdate(ctx context.Context, salesOrderID, orderLineID string) ([]*entity.StockReservation, error) {
	return r.list(ctx, `
		SELECT `+reservationColumns+` FROM stock_reservations
		WHERE sales_order_id = $1 AND order_line_id = $2 AND status = 'active'
		ORDER BY seq
		FOR UPDATE`, salesOrderID, orderLineID)
}

func (r *ReservationRepo) ListByOrder(ctx context.Context, salesOrderID string) ([]*entity.StockReservation, error) {
	return r.list(ctx, `
		SELECT `+reservationColumns+` FROM stock_reservations
		WHERE sales_order_id = $1
		ORDER BY seq`, salesOrderID)
}

func (r *ReservationRepo) ListActiveByStock(ctx context.Context, key entity.StockKey) ([]*entity.StockReservation, error) {
	return r.list(ctx, `
		SELECT `+reservationColumns+` FROM stock_reservations
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND status = 'active'
		ORDER BY seq`, key.CompanyID, key.ProductID, key.WarehouseID)
}

// ─── Kárdex ─────────────────────────────────────────────────────────────────

// StockMovementRepo movimientos de inventario (solo inserción).
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, company_id, warehouse_id, product_id, type, quantity, unit_cost, total_cost,
			source_type, source_id, source_number, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.CompanyID, m.WarehouseID, m.ProductID, m.Type, m.Quantity, m.UnitCost, m.TotalCost,
		string(m.SourceType), m.SourceID, m.SourceNumber, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByStock(ctx context.Context, key entity.StockKey) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, warehouse_id, product_id, type, quantity, unit_cost, total_cost,
		       source_type, source_id, source_number, created_by, created_at
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		ORDER BY seq`, key.CompanyID, key.ProductID, key.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var (
			m          entity.StockMovement
			sourceType string
		)
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.WarehouseID, &m.ProductID, &m.Type, &m.Quantity, &m.UnitCost,
			&m.TotalCost, &sourceType, &m.SourceID, &m.SourceNumber, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.SourceType = entity.DocumentType(sourceType)
		out = append(out, &m)
	}
	return out, rows.Err()
}
