package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.SalesOrderRepository    = (*salesOrderRepo)(nil)
	_ repository.PurchaseOrderRepository = (*purchaseOrderRepo)(nil)
)

type salesOrderRepo struct{ s *Store }

func (r *salesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	if _, ok := r.s.data.salesOrders[o.ID]; ok {
		return fmt.Errorf("%w: orden de venta %s", domain.ErrDuplicate, o.ID)
	}
	r.s.data.salesOrders[o.ID] = o.Clone()
	return nil
}

func (r *salesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	o, ok := r.s.data.salesOrders[id]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

// GetForUpdate equivale a GetByID: el mutex del Store ya serializa la transacción.
func (r *salesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *salesOrderRepo) Update(ctx context.Context, o *entity.SalesOrder) error {
	if _, ok := r.s.data.salesOrders[o.ID]; !ok {
		return fmt.Errorf("%w: orden de venta %s", domain.ErrNotFound, o.ID)
	}
	r.s.data.salesOrders[o.ID] = o.Clone()
	return nil
}

type purchaseOrderRepo struct{ s *Store }

func (r *purchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	if _, ok := r.s.data.purchaseOrders[o.ID]; ok {
		return fmt.Errorf("%w: orden de compra %s", domain.ErrDuplicate, o.ID)
	}
	r.s.data.purchaseOrders[o.ID] = o.Clone()
	return nil
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	o, ok := r.s.data.purchaseOrders[id]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	if _, ok := r.s.data.purchaseOrders[o.ID]; !ok {
		return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, o.ID)
	}
	r.s.data.purchaseOrders[o.ID] = o.Clone()
	return nil
}
