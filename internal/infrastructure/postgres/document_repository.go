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
	_ repository.DeliveryRepository     = (*DeliveryRepo)(nil)
	_ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)
)

// DeliveryRepo remisiones (cabecera + líneas).
type DeliveryRepo struct {
	q Querier
}

func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO deliveries (id, company_id, sales_order_id, warehouse_id, number, total_cost, journal_entry_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.CompanyID, d.SalesOrderID, d.WarehouseID, d.Number, d.TotalCost, nullIfEmpty(d.JournalEntryID), d.CreatedBy, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: remisión %s", domain.ErrDuplicate, d.Number)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	for _, l := range d.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO delivery_lines (id, delivery_id, order_line_id, product_id, quantity, unit_cost, total_cost, movement_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, d.ID, l.OrderLineID, l.ProductID, l.Quantity, l.UnitCost, l.TotalCost, l.MovementID,
		)
		if err != nil {
			return fmt.Errorf("insert delivery line: %w", err)
		}
	}
	return nil
}

func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	var (
		d  entity.Delivery
		je *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, sales_order_id, warehouse_id, number, total_cost, journal_entry_id, created_by, created_at
		FROM deliveries WHERE id = $1`, id,
	).Scan(&d.ID, &d.CompanyID, &d.SalesOrderID, &d.WarehouseID, &d.Number, &d.TotalCost, &je, &d.CreatedBy, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	d.JournalEntryID = fromNull(je)

	rows, err := r.q.Query(ctx, `
		SELECT id, delivery_id, order_line_id, product_id, quantity, unit_cost, total_cost, movement_id
		FROM delivery_lines WHERE delivery_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.DeliveryLine
		if err := rows.Scan(&l.ID, &l.DeliveryID, &l.OrderLineID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.TotalCost, &l.MovementID); err != nil {
			return nil, err
		}
		d.Lines = append(d.Lines, l)
	}
	return &d, rows.Err()
}

// GoodsReceiptRepo entradas de almacén.
type GoodsReceiptRepo struct {
	q Querier
}

func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

func (r *GoodsReceiptRepo) Create(ctx context.Context, g *entity.GoodsReceipt) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO goods_receipts (id, company_id, purchase_order_id, warehouse_id, number, total_cost, journal_entry_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		g.ID, g.CompanyID, g.PurchaseOrderID, g.WarehouseID, g.Number, g.TotalCost, nullIfEmpty(g.JournalEntryID), g.CreatedBy, g.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entrada %s", domain.ErrDuplicate, g.Number)
		}
		return fmt.Errorf("insert goods receipt: %w", err)
	}
	for _, l := range g.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO goods_receipt_lines (id, receipt_id, order_line_id, product_id, quantity, unit_cost, total_cost, movement_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, g.ID, l.OrderLineID, l.ProductID, l.Quantity, l.UnitCost, l.TotalCost, l.MovementID,
		)
		if err != nil {
			return fmt.Errorf("insert goods receipt line: %w", err)
		}
	}
	return nil
}

func (r *GoodsReceiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	var (
		g  entity.GoodsReceipt
		je *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, purchase_order_id, warehouse_id, number, total_cost, journal_entry_id, created_by, created_at
		FROM goods_receipts WHERE id = $1`, id,
	).Scan(&g.ID, &g.CompanyID, &g.PurchaseOrderID, &g.WarehouseID, &g.Number, &g.TotalCost, &je, &g.CreatedBy, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	g.JournalEntryID = fromNull(je)

	rows, err := r.q.Query(ctx, `
		SELECT id, receipt_id, order_line_id, product_id, quantity, unit_cost, total_cost, movement_id
		FROM goods_receipt_lines WHERE receipt_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get goods receipt lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.GoodsReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.OrderLineID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.TotalCost, &l.MovementID); err != nil {
			return nil, err
		}
		g.Lines = append(g.Lines, l)
	}
	return &g, rows.Err()
}
