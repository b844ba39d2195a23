package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appaccounting "github.com/jhoicas/erp-workflow-api/internal/application/accounting"
	appinventory "github.com/jhoicas/erp-workflow-api/internal/application/inventory"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// ConfirmPurchaseOrder draft -> ordered. Suma lo pedido a QuantityOnOrder por línea.
func (e *Engine) ConfirmPurchaseOrder(ctx context.Context, purchaseOrderID, userID string) (*PurchaseOrderResult, error) {
	var out *PurchaseOrderResult
	err := e.run(ctx, "ConfirmPurchaseOrder", purchaseOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		order, err := e.lockPurchaseOrder(ctx, r, purchaseOrderID, entity.PurchaseOrderDraft)
		if err != nil {
			return err
		}
		if err := requireLines(order); err != nil {
			return err
		}
		if _, err := e.warehouse(ctx, r, order.CompanyID, order.WarehouseID); err != nil {
			return err
		}

		for _, line := range order.Lines {
			level, err := e.stock.GetOrCreateLocked(ctx, r, stockKey(order.CompanyID, line.ProductID, order.WarehouseID))
			if err != nil {
				return err
			}
			if _, err := e.stock.AddOnOrder(ctx, r, level, line.Quantity); err != nil {
				return err
			}
		}

		if order.Number == "" {
			number, err := e.seq.NextNumber(ctx, r, order.CompanyID, entity.DocPurchaseOrder)
			if err != nil {
				return err
			}
			order.Number = number
		}
		if err := order.TransitionTo(entity.PurchaseOrderOrdered, now); err != nil {
			return err
		}
		if err := r.PurchaseOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de compra: %w", err)
		}
		out = &PurchaseOrderResult{Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "ConfirmPurchaseOrder").Str("company_id", out.Order.CompanyID).
		Str("document_id", out.Order.ID).Str("number", out.Order.Number).Msg("orden de compra enviada")
	return out, nil
}

// ReceiveGoodsFromPurchaseOrder ordered -> received. Entrada al inventario con costo
// promedio móvil y asiento Inventario / Recibido no facturado.
func (e *Engine) ReceiveGoodsFromPurchaseOrder(ctx context.Context, purchaseOrderID, userID string) (*GoodsReceiptResult, error) {
	var out *GoodsReceiptResult
	err := e.run(ctx, "ReceiveGoodsFromPurchaseOrder", purchaseOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		// 1) Orden bloqueada en ordered
		order, err := e.lockPurchaseOrder(ctx, r, purchaseOrderID, entity.PurchaseOrderOrdered)
		if err != nil {
			return err
		}
		if _, err := e.warehouse(ctx, r, order.CompanyID, order.WarehouseID); err != nil {
			return err
		}

		receipt := &entity.GoodsReceipt{
			ID:              uuid.New().String(),
			CompanyID:       order.CompanyID,
			PurchaseOrderID: order.ID,
			WarehouseID:     order.WarehouseID,
			CreatedBy:       userID,
			CreatedAt:       now,
		}
		batch := appinventory.NewMovementBatch(entity.SourceRef{Type: entity.DocGoodsReceipt, ID: receipt.ID}, userID)

		// 2) Entrada por línea al precio de compra
		for _, line := range order.Lines {
			level, err := e.stock.GetOrCreateLocked(ctx, r, stockKey(order.CompanyID, line.ProductID, order.WarehouseID))
			if err != nil {
				return err
			}
			_, mov, err := e.stock.Receive(ctx, r, batch, level, line.Quantity, line.UnitPrice)
			if err != nil {
				return err
			}
			receipt.Lines = append(receipt.Lines, entity.GoodsReceiptLine{
				ID:          uuid.New().String(),
				ReceiptID:   receipt.ID,
				OrderLineID: line.ID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				UnitCost:    mov.UnitCost,
				TotalCost:   mov.TotalCost,
				MovementID:  mov.ID,
			})
		}
		receipt.TotalCost = batch.TotalCost()

		// 3) Numeración y asiento
		number, err := e.seq.NextNumber(ctx, r, order.CompanyID, entity.DocGoodsReceipt)
		if err != nil {
			return err
		}
		receipt.Number = number

		var je *entity.JournalEntry
		if receipt.TotalCost.IsPositive() {
			je, err = e.journal.Post(ctx, r, appaccounting.PostingRequest{
				CompanyID:   order.CompanyID,
				Lines:       e.accounts.GoodsReceiptLines(receipt.TotalCost),
				Source:      entity.SourceRef{Type: entity.DocGoodsReceipt, ID: receipt.ID, Number: number},
				Description: "Entrada de almacén " + number + " / " + order.Number,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
			receipt.JournalEntryID = je.ID
		}

		// 4) Persistir
		if err := batch.Flush(ctx, r, number); err != nil {
			return err
		}
		if err := r.Receipts.Create(ctx, receipt); err != nil {
			return fmt.Errorf("guardar entrada de almacén: %w", err)
		}
		if err := order.TransitionTo(entity.PurchaseOrderReceived, now); err != nil {
			return err
		}
		if err := r.PurchaseOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de compra: %w", err)
		}
		out = &GoodsReceiptResult{Order: order, Receipt: receipt, Movements: batch.Movements(), JournalEntry: je}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "ReceiveGoodsFromPurchaseOrder").Str("company_id", out.Order.CompanyID).
		Str("document_id", out.Receipt.ID).Str("number", out.Receipt.Number).
		Str("total_cost", out.Receipt.TotalCost.String()).Msg("mercancía recibida")
	return out, nil
}

// CreateVendorInvoice received -> billed. Factura de proveedor, asiento de cruce
// y abono a la cartera AP.
func (e *Engine) CreateVendorInvoice(ctx context.Context, purchaseOrderID, userID string) (*InvoiceResult, error) {
	var out *InvoiceResult
	err := e.run(ctx, "CreateVendorInvoice", purchaseOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		order, err := e.lockPurchaseOrder(ctx, r, purchaseOrderID, entity.PurchaseOrderReceived)
		if err != nil {
			return err
		}
		vendor, err := r.Vendors.GetByID(ctx, order.VendorID)
		if err != nil {
			return fmt.Errorf("buscar proveedor: %w", err)
		}
		if vendor == nil || vendor.CompanyID != order.CompanyID {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, order.VendorID)
		}

		res, err := e.postInvoice(ctx, r, invoiceSpec{
			order:       order,
			invoiceType: entity.InvoiceVendor,
			docType:     entity.DocVendorInvoice,
			ledger:      entity.LedgerAP,
			party:       order.VendorID,
			userID:      userID,
		})
		if err != nil {
			return err
		}

		if err := order.TransitionTo(entity.PurchaseOrderBilled, now); err != nil {
			return err
		}
		if err := r.PurchaseOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de compra: %w", err)
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "CreateVendorInvoice").Str("company_id", out.Invoice.CompanyID).
		Str("document_id", out.Invoice.ID).Str("number", out.Invoice.Number).
		Str("total", out.Invoice.Total.String()).Msg("factura de proveedor registrada")
	return out, nil
}

// CancelPurchaseOrder draft|ordered -> cancelled. Si ya estaba pedida descuenta QuantityOnOrder.
func (e *Engine) CancelPurchaseOrder(ctx context.Context, purchaseOrderID, userID string) (*PurchaseOrderResult, error) {
	var out *PurchaseOrderResult
	err := e.run(ctx, "CancelPurchaseOrder", purchaseOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		order, err := e.lockPurchaseOrder(ctx, r, purchaseOrderID, entity.PurchaseOrderDraft, entity.PurchaseOrderOrdered)
		if err != nil {
			return err
		}
		if order.Status == entity.PurchaseOrderOrdered {
			for _, line := range order.Lines {
				level, err := e.stock.GetOrCreateLocked(ctx, r, stockKey(order.CompanyID, line.ProductID, order.WarehouseID))
				if err != nil {
					return err
				}
				if _, err := e.stock.RemoveOnOrder(ctx, r, level, line.Quantity); err != nil {
					return err
				}
			}
		}
		if err := order.TransitionTo(entity.PurchaseOrderCancelled, now); err != nil {
			return err
		}
		if err := r.PurchaseOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de compra: %w", err)
		}
		out = &PurchaseOrderResult{Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "CancelPurchaseOrder").Str("company_id", out.Order.CompanyID).
		Str("document_id", out.Order.ID).Str("by", userID).Msg("orden de compra anulada")
	return out, nil
}
