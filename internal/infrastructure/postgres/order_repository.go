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
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
)

// ─── Líneas (compartidas por venta y compra) ────────────────────────────────

func insertOrderLines(ctx context.Context, q Querier, table, orderID string, lines []entity.OrderLine) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, order_id, line_no, product_id, quantity, unit_price, tax_amount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, table)
	for _, l := range lines {
		if _, err := q.Exec(ctx, query, l.ID, orderID, l.LineNo, l.ProductID, l.Quantity, l.UnitPrice, l.TaxAmount, l.LineTotal); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// selectOrderLines lee las líneas en orden de line_no; con lock las bloquea en ese mismo orden.
func selectOrderLines(ctx context.Context, q Querier, table, orderID string, lock bool) ([]entity.OrderLine, error) {
	query := fmt.Sprintf(`
		SELECT id, order_id, line_no, product_id, quantity, unit_price, tax_amount, line_total
		FROM %s WHERE order_id = $1 ORDER BY line_no`, table)
	if lock {
		query += " FOR UPDATE"
	}
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var lines []entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.LineNo, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.TaxAmount, &l.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ─── Órdenes de venta ───────────────────────────────────────────────────────

// SalesOrderRepo implementación de SalesOrderRepository (usable con pool o tx).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (id, company_id, customer_id, warehouse_id, number, status, subtotal, tax_total, total,
			fiscal_period, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, o.CustomerID, o.WarehouseID, nullIfEmpty(o.Number), string(o.Status),
		o.Subtotal, o.TaxTotal, o.Total, o.FiscalPeriod, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: orden de venta %s", domain.ErrDuplicate, o.ID)
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	return insertOrderLines(ctx, r.q, "sales_order_lines", o.ID, o.Lines)
}

const salesOrderColumns = `id, company_id, customer_id, warehouse_id, number, status, subtotal, tax_total, total,
	fiscal_period, created_by, confirmed_at, delivered_at, invoiced_at, cancelled_at, created_at, updated_at`

func (r *SalesOrderRepo) get(ctx context.Context, id string, lock bool) (*entity.SalesOrder, error) {
	query := `SELECT ` + salesOrderColumns + ` FROM sales_orders WHERE id = $1`
	if lock {
		query += " FOR UPDATE"
	}
	var (
		o      entity.SalesOrder
		number *string
		status string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CompanyID, &o.CustomerID, &o.WarehouseID, &number, &status, &o.Subtotal, &o.TaxTotal, &o.Total,
		&o.FiscalPeriod, &o.CreatedBy, &o.ConfirmedAt, &o.DeliveredAt, &o.InvoicedAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	o.Number = fromNull(number)
	o.Status = entity.SalesOrderStatus(status)

	o.Lines, err = selectOrderLines(ctx, r.q, "sales_order_lines", o.ID, lock)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera y después las líneas.
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, true)
}

func (r *SalesOrderRepo) Update(ctx context.Context, o *entity.SalesOrder) error {
	query := `
		UPDATE sales_orders
		SET number = $2, status = $3, subtotal = $4, tax_total = $5, total = $6,
		    confirmed_at = $7, delivered_at = $8, invoiced_at = $9, cancelled_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, nullIfEmpty(o.Number), string(o.Status), o.Subtotal, o.TaxTotal, o.Total,
		o.ConfirmedAt, o.DeliveredAt, o.InvoicedAt, o.CancelledAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: orden de venta %s", domain.ErrNotFound, o.ID)
	}
	return nil
}

// ─── Órdenes de compra ──────────────────────────────────────────────────────

// PurchaseOrderRepo implementación de PurchaseOrderRepository.
type PurchaseOrderRepo struct {
	q Querier
}

func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, company_id, vendor_id, warehouse_id, number, status, subtotal, tax_total, total,
			fiscal_period, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, o.VendorID, o.WarehouseID, nullIfEmpty(o.Number), string(o.Status),
		o.Subtotal, o.TaxTotal, o.Total, o.FiscalPeriod, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrDuplicate, o.ID)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return insertOrderLines(ctx, r.q, "purchase_order_lines", o.ID, o.Lines)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, lock bool) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, company_id, vendor_id, warehouse_id, number, status, subtotal, tax_total, total,
		       fiscal_period, created_by, ordered_at, received_at, billed_at, cancelled_at, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	if lock {
		query += " FOR UPDATE"
	}
	var (
		o      entity.PurchaseOrder
		number *string
		status string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CompanyID, &o.VendorID, &o.WarehouseID, &number, &status, &o.Subtotal, &o.TaxTotal, &o.Total,
		&o.FiscalPeriod, &o.CreatedBy, &o.OrderedAt, &o.ReceivedAt, &o.BilledAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	o.Number = fromNull(number)
	o.Status = entity.PurchaseOrderStatus(status)

	o.Lines, err = selectOrderLines(ctx, r.q, "purchase_order_lines", o.ID, lock)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET number = $2, status = $3, subtotal = $4, tax_total = $5, total = $6,
		    ordered_at = $7, received_at = $8, billed_at = $9, cancelled_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, nullIfEmpty(o.Number), string(o.Status), o.Subtotal, o.TaxTotal, o.Total,
		o.OrderedAt, o.ReceivedAt, o.BilledAt, o.CancelledAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, o.ID)
	}
	return nil
}
