package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/inventory"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// DraftLine línea de una orden nueva. TaxAmount llega calculado.
type DraftLine struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxAmount decimal.Decimal
}

// DraftOrderInput datos para registrar una orden en borrador.
// CounterpartyID es el cliente (venta) o el proveedor (compra).
type DraftOrderInput struct {
	CompanyID      string
	CounterpartyID string
	WarehouseID    string
	FiscalPeriod   string
	UserID         string
	Lines          []DraftLine
}

func (in DraftOrderInput) validate() error {
	if in.CompanyID == "" || in.CounterpartyID == "" || in.WarehouseID == "" {
		return fmt.Errorf("%w: compañía, tercero y bodega son obligatorios", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la orden debe tener al menos una línea", domain.ErrInvalidInput)
	}
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if l.UnitPrice.IsNegative() || l.TaxAmount.IsNegative() {
			return fmt.Errorf("%w: línea %d con valores negativos", domain.ErrInvalidInput, i+1)
		}
		if !inventory.FitsScale(l.Quantity, inventory.QuantityScale) || !inventory.FitsScale(l.UnitPrice, inventory.QuantityScale) {
			return fmt.Errorf("%w: línea %d: cantidad y precio admiten máximo %d decimales", domain.ErrInvalidInput, i+1, inventory.QuantityScale)
		}
		if !inventory.FitsScale(l.TaxAmount, inventory.MoneyScale) {
			return fmt.Errorf("%w: línea %d: el impuesto admite máximo %d decimales", domain.ErrInvalidInput, i+1, inventory.MoneyScale)
		}
	}
	return nil
}

func buildLines(orderID string, in []DraftLine) []entity.OrderLine {
	lines := make([]entity.OrderLine, len(in))
	for i, l := range in {
		lines[i] = entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			LineNo:    i + 1,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxAmount: l.TaxAmount,
			LineTotal: l.Quantity.Mul(l.UnitPrice).Round(inventory.MoneyScale),
		}
	}
	return lines
}

// CreateSalesOrder registra una orden de venta en draft. No reserva ni numera.
func (e *Engine) CreateSalesOrder(ctx context.Context, in DraftOrderInput) (*entity.SalesOrder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkScope(ctx, in.CompanyID); err != nil {
		return nil, err
	}
	var out *entity.SalesOrder
	err := e.run(ctx, "CreateSalesOrder", in.CounterpartyID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()
		annotate(ctx, in.CompanyID)
		customer, err := r.Customers.GetByID(ctx, in.CounterpartyID)
		if err != nil {
			return fmt.Errorf("buscar cliente: %w", err)
		}
		if customer == nil || customer.CompanyID != in.CompanyID {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CounterpartyID)
		}
		if _, err := e.warehouse(ctx, r, in.CompanyID, in.WarehouseID); err != nil {
			return err
		}

		order := &entity.SalesOrder{
			ID:           uuid.New().String(),
			CompanyID:    in.CompanyID,
			CustomerID:   in.CounterpartyID,
			WarehouseID:  in.WarehouseID,
			Status:       entity.SalesOrderDraft,
			FiscalPeriod: in.FiscalPeriod,
			CreatedBy:    in.UserID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		order.Lines = buildLines(order.ID, in.Lines)
		order.Subtotal, order.TaxTotal, order.Total = order.Totals()
		if err := r.SalesOrders.Create(ctx, order); err != nil {
			return fmt.Errorf("guardar orden de venta: %w", err)
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "CreateSalesOrder").Str("company_id", out.CompanyID).
		Str("document_id", out.ID).Str("total", out.Total.String()).Msg("orden de venta registrada")
	return out, nil
}

// CreatePurchaseOrder registra una orden de compra en draft.
func (e *Engine) CreatePurchaseOrder(ctx context.Context, in DraftOrderInput) (*entity.PurchaseOrder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkScope(ctx, in.CompanyID); err != nil {
		return nil, err
	}
	var out *entity.PurchaseOrder
	err := e.run(ctx, "CreatePurchaseOrder", in.CounterpartyID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()
		annotate(ctx, in.CompanyID)
		vendor, err := r.Vendors.GetByID(ctx, in.CounterpartyID)
		if err != nil {
			return fmt.Errorf("buscar proveedor: %w", err)
		}
		if vendor == nil || vendor.CompanyID != in.CompanyID {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.CounterpartyID)
		}
		if _, err := e.warehouse(ctx, r, in.CompanyID, in.WarehouseID); err != nil {
			return err
		}

		order := &entity.PurchaseOrder{
			ID:           uuid.New().String(),
			CompanyID:    in.CompanyID,
			VendorID:     in.CounterpartyID,
			WarehouseID:  in.WarehouseID,
			Status:       entity.PurchaseOrderDraft,
			FiscalPeriod: in.FiscalPeriod,
			CreatedBy:    in.UserID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		order.Lines = buildLines(order.ID, in.Lines)
		order.Subtotal, order.TaxTotal, order.Total = order.Totals()
		if err := r.PurchaseOrders.Create(ctx, order); err != nil {
			return fmt.Errorf("guardar orden de compra: %w", err)
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "CreatePurchaseOrder").Str("company_id", out.CompanyID).
		Str("document_id", out.ID).Str("total", out.Total.String()).Msg("orden de compra registrada")
	return out, nil
}
