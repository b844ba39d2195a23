package repository

import (
	"context"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// SalesOrderRepository puerto de persistencia de órdenes de venta (cabecera + líneas).
// Los Get devuelven (nil, nil) si la orden no existe.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	// GetForUpdate bloquea la cabecera y luego las líneas (en orden de LineNo).
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	// Update persiste número, estado y fechas de transición.
	Update(ctx context.Context, order *entity.SalesOrder) error
}

// PurchaseOrderRepository puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
}
