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

// ConfirmSalesOrder draft -> confirmed. Reserva el stock de cada línea (en orden de línea)
// y asigna el número SO si la orden aún no lo tiene.
func (e *Engine) ConfirmSalesOrder(ctx context.Context, salesOrderID, userID string) (*SalesOrderResult, error) {
	var out *SalesOrderResult
	err := e.run(ctx, "ConfirmSalesOrder", salesOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		// 1) Orden bloqueada (cabecera y líneas) en draft
		order, err := e.lockSalesOrder(ctx, r, salesOrderID, entity.SalesOrderDraft)
		if err != nil {
			return err
		}
		if err := requireLines(order); err != nil {
			return err
		}
		if _, err := e.warehouse(ctx, r, order.CompanyID, order.WarehouseID); err != nil {
			return err
		}

		// 2) Reservar por línea: bloquea el nivel de stock y compromete la cantidad
		reservations := make([]*entity.StockReservation, 0, len(order.Lines))
		for _, line := range order.Lines {
			level, err := e.stock.GetOrCreateLocked(ctx, r, stockKey(order.CompanyID, line.ProductID, order.WarehouseID))
			if err != nil {
				return err
			}
			res, _, err := e.reservations.Reserve(ctx, r, level, order, line, userID)
			if err != nil {
				return err
			}
			reservations = append(reservations, res)
		}

		// 3) Numeración (último bloqueo) y transición
		if order.Number == "" {
			number, err := e.seq.NextNumber(ctx, r, order.CompanyID, entity.DocSalesOrder)
			if err != nil {
				return err
			}
			order.Number = number
		}
		if err := order.TransitionTo(entity.SalesOrderConfirmed, now); err != nil {
			return err
		}
		if err := r.SalesOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de venta: %w", err)
		}

		out = &SalesOrderResult{Order: order, Reservations: reservations}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "ConfirmSalesOrder").Str("company_id", out.Order.CompanyID).
		Str("document_id", out.Order.ID).Str("number", out.Order.Number).Msg("orden de venta confirmada")
	return out, nil
}

// CreateDeliveryFromSalesOrder confirmed -> delivered. Consume reservas (FIFO), descarga
// existencias al costo promedio y contabiliza el costo de ventas.
func (e *Engine) CreateDeliveryFromSalesOrder(ctx context.Context, salesOrderID, userID string) (*DeliveryResult, error) {
	var out *DeliveryResult
	err := e.run(ctx, "CreateDeliveryFromSalesOrder", salesOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		// 1) Orden bloqueada en confirmed
		order, err := e.lockSalesOrder(ctx, r, salesOrderID, entity.SalesOrderConfirmed)
		if err != nil {
			return err
		}
		wh, err := e.warehouse(ctx, r, order.CompanyID, order.WarehouseID)
		if err != nil {
			return err
		}

		delivery := &entity.Delivery{
			ID:           uuid.New().String(),
			CompanyID:    order.CompanyID,
			SalesOrderID: order.ID,
			WarehouseID:  order.WarehouseID,
			CreatedBy:    userID,
			CreatedAt:    now,
		}
		batch := appinventory.NewMovementBatch(entity.SourceRef{Type: entity.DocDelivery, ID: delivery.ID}, userID)

		// 2) Por línea: bloquear stock, consumir reservas y registrar la salida
		for _, line := range order.Lines {
			level, err := e.stock.GetOrCreateLocked(ctx, r, stockKey(order.CompanyID, line.ProductID, order.WarehouseID))
			if err != nil {
				return err
			}
			ful, err := e.reservations.Fulfill(ctx, r, order.ID, line.ID, line.Quantity)
			if err != nil {
				return err
			}
			if ful.OverDelivered.IsPositive() {
				e.log.Warn().Str("document_id", order.ID).Int("line_no", line.LineNo).
					Str("over_delivered", ful.OverDelivered.String()).Msg("despacho sin reserva suficiente")
			}
			_, mov, err := e.stock.Issue(ctx, r, batch, level, line.Quantity, ful.Consumed, wh.AllowNegativeStock)
			if err != nil {
				return err
			}
			delivery.Lines = append(delivery.Lines, entity.DeliveryLine{
				ID:          uuid.New().String(),
				DeliveryID:  delivery.ID,
				OrderLineID: line.ID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				UnitCost:    mov.UnitCost,
				TotalCost:   mov.TotalCost,
				MovementID:  mov.ID,
			})
		}
		delivery.TotalCost = batch.TotalCost()

		// 3) Numeración y asiento de costo (bloqueos de secuencia al final)
		number, err := e.seq.NextNumber(ctx, r, order.CompanyID, entity.DocDelivery)
		if err != nil {
			return err
		}
		delivery.Number = number

		var je *entity.JournalEntry
		if delivery.TotalCost.IsPositive() {
			je, err = e.journal.Post(ctx, r, appaccounting.PostingRequest{
				CompanyID:   order.CompanyID,
				Lines:       e.accounts.COGSLines(delivery.TotalCost),
				Source:      entity.SourceRef{Type: entity.DocDelivery, ID: delivery.ID, Number: number},
				Description: "Costo de ventas " + number + " / " + order.Number,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
			delivery.JournalEntryID = je.ID
		}

		// 4) Persistir movimientos, remisión y estado
		if err := batch.Flush(ctx, r, number); err != nil {
			return err
		}
		if err := r.Deliveries.Create(ctx, delivery); err != nil {
			return fmt.Errorf("guardar remisión: %w", err)
		}
		if err := order.TransitionTo(entity.SalesOrderDelivered, now); err != nil {
			return err
		}
		if err := r.SalesOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de venta: %w", err)
		}

		out = &DeliveryResult{Order: order, Delivery: delivery, Movements: batch.Movements(), JournalEntry: je}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "CreateDeliveryFromSalesOrder").Str("company_id", out.Order.CompanyID).
		Str("document_id", out.Delivery.ID).Str("number", out.Delivery.Number).
		Str("total_cost", out.Delivery.TotalCost.String()).Msg("remisión creada")
	return out, nil
}

// CreateInvoiceFromSalesOrder delivered -> invoiced. Crea la factura de cliente,
// contabiliza cartera/ingreso/impuesto y registra el cargo en la cartera AR.
func (e *Engine) CreateInvoiceFromSalesOrder(ctx context.Context, salesOrderID, userID string) (*InvoiceResult, error) {
	var out *InvoiceResult
	err := e.run(ctx, "CreateInvoiceFromSalesOrder", salesOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		order, err := e.lockSalesOrder(ctx, r, salesOrderID, entity.SalesOrderDelivered)
		if err != nil {
			return err
		}
		customer, err := r.Customers.GetByID(ctx, order.CustomerID)
		if err != nil {
			return fmt.Errorf("buscar cliente: %w", err)
		}
		if customer == nil || customer.CompanyID != order.CompanyID {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, order.CustomerID)
		}

		res, err := e.postInvoice(ctx, r, invoiceSpec{
			order:       order,
			invoiceType: entity.InvoiceCustomer,
			docType:     entity.DocCustomerInvoice,
			ledger:      entity.LedgerAR,
			party:       order.CustomerID,
			userID:      userID,
		})
		if err != nil {
			return err
		}

		if err := order.TransitionTo(entity.SalesOrderInvoiced, now); err != nil {
			return err
		}
		if err := r.SalesOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de venta: %w", err)
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "CreateInvoiceFromSalesOrder").Str("company_id", out.Invoice.CompanyID).
		Str("document_id", out.Invoice.ID).Str("number", out.Invoice.Number).
		Str("total", out.Invoice.Total.String()).Msg("factura de cliente creada")
	return out, nil
}

// CancelSalesOrder draft|confirmed -> cancelled. Si estaba confirmada libera sus reservas.
func (e *Engine) CancelSalesOrder(ctx context.Context, salesOrderID, userID string) (*SalesOrderResult, error) {
	var out *SalesOrderResult
	err := e.run(ctx, "CancelSalesOrder", salesOrderID, func(ctx context.Context, r repository.Repos) error {
		now := e.now()

		order, err := e.lockSalesOrder(ctx, r, salesOrderID, entity.SalesOrderDraft, entity.SalesOrderConfirmed)
		if err != nil {
			return err
		}

		var released []*entity.StockReservation
		if order.Status == entity.SalesOrderConfirmed {
			for _, line := range order.Lines {
				level, err := e.stock.GetOrCreateLocked(ctx, r, stockKey(order.CompanyID, line.ProductID, order.WarehouseID))
				if err != nil {
					return err
				}
				rs, err := e.reservations.ReleaseLine(ctx, r, level, order.ID, line.ID)
				if err != nil {
					return err
				}
				released = append(released, rs...)
			}
		}

		if err := order.TransitionTo(entity.SalesOrderCancelled, now); err != nil {
			return err
		}
		if err := r.SalesOrders.Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar orden de venta: %w", err)
		}
		out = &SalesOrderResult{Order: order, Reservations: released}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "CancelSalesOrder").Str("company_id", out.Order.CompanyID).
		Str("document_id", out.Order.ID).Int("released", len(out.Reservations)).Msg("orden de venta anulada")
	return out, nil
}
