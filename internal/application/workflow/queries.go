package workflow

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// GetStockLevel saldo actual de un producto en una bodega.
func (e *Engine) GetStockLevel(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	if err := checkScope(ctx, key.CompanyID); err != nil {
		return nil, err
	}
	var out *entity.StockLevel
	err := e.run(ctx, "GetStockLevel", key.ProductID, func(ctx context.Context, r repository.Repos) error {
		level, err := r.Stock.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("consultar stock: %w", err)
		}
		if level == nil {
			return fmt.Errorf("%w: sin stock para producto %s en bodega %s", domain.ErrNotFound, key.ProductID, key.WarehouseID)
		}
		out = level
		return nil
	})
	return out, err
}

// ListLedger movimientos de cartera de un tercero, en orden de registro.
func (e *Engine) ListLedger(ctx context.Context, key entity.LedgerKey) ([]*entity.ArApLedgerEntry, error) {
	if key.LedgerType != entity.LedgerAR && key.LedgerType != entity.LedgerAP {
		return nil, fmt.Errorf("%w: cartera %q", domain.ErrInvalidInput, key.LedgerType)
	}
	if err := checkScope(ctx, key.CompanyID); err != nil {
		return nil, err
	}
	var out []*entity.ArApLedgerEntry
	err := e.run(ctx, "ListLedger", key.CounterpartyID, func(ctx context.Context, r repository.Repos) error {
		rows, err := r.Ledger.List(ctx, key)
		if err != nil {
			return fmt.Errorf("consultar cartera: %w", err)
		}
		out = rows
		return nil
	})
	return out, err
}

// GetSalesOrder orden de venta con sus líneas.
func (e *Engine) GetSalesOrder(ctx context.Context, id string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := e.run(ctx, "GetSalesOrder", id, func(ctx context.Context, r repository.Repos) error {
		order, err := r.SalesOrders.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("consultar orden de venta: %w", err)
		}
		if order == nil {
			return fmt.Errorf("%w: orden de venta %s", domain.ErrNotFound, id)
		}
		if err := checkScope(ctx, order.CompanyID); err != nil {
			return err
		}
		out = order
		return nil
	})
	return out, err
}

// GetPurchaseOrder orden de compra con sus líneas.
func (e *Engine) GetPurchaseOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := e.run(ctx, "GetPurchaseOrder", id, func(ctx context.Context, r repository.Repos) error {
		order, err := r.PurchaseOrders.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("consultar orden de compra: %w", err)
		}
		if order == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
		}
		if err := checkScope(ctx, order.CompanyID); err != nil {
			return err
		}
		out = order
		return nil
	})
	return out, err
}

// GetInvoice factura con saldo y estado de pago.
func (e *Engine) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := e.run(ctx, "GetInvoice", id, func(ctx context.Context, r repository.Repos) error {
		inv, err := r.Invoices.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("consultar factura: %w", err)
		}
		if inv == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		if err := checkScope(ctx, inv.CompanyID); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// ListJournalEntries asientos de la compañía en orden de contabilización.
func (e *Engine) ListJournalEntries(ctx context.Context, companyID string) ([]*entity.JournalEntry, error) {
	if err := checkScope(ctx, companyID); err != nil {
		return nil, err
	}
	var out []*entity.JournalEntry
	err := e.run(ctx, "ListJournalEntries", companyID, func(ctx context.Context, r repository.Repos) error {
		rows, err := r.Journals.ListByCompany(ctx, companyID)
		if err != nil {
			return fmt.Errorf("consultar asientos: %w", err)
		}
		out = rows
		return nil
	})
	return out, err
}
