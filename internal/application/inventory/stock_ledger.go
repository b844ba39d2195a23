package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/inventory"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// StockLedger aplica entradas y salidas sobre niveles de stock ya bloqueados y
// deja el movimiento en el lote del documento. No abre transacciones: trabaja
// sobre el Repos que recibe.
type StockLedger struct {
	now func() time.Time
}

// NewStockLedger construye el ledger; now nil = time.Now.
func NewStockLedger(now func() time.Time) *StockLedger {
	if now == nil {
		now = time.Now
	}
	return &StockLedger{now: now}
}

// GetOrCreateLocked bloquea (y crea en cero si falta) el nivel de stock.
func (l *StockLedger) GetOrCreateLocked(ctx context.Context, r repository.Repos, key entity.StockKey) (*entity.StockLevel, error) {
	level, err := r.Stock.GetOrCreateForUpdate(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("bloquear stock %s/%s: %w", key.ProductID, key.WarehouseID, err)
	}
	return level, nil
}

// Receive entrada: recalcula costo promedio, suma existencias y descuenta lo pedido en tránsito.
func (l *StockLedger) Receive(ctx context.Context, r repository.Repos, batch *MovementBatch, level *entity.StockLevel, qty, unitCost decimal.Decimal) (*entity.StockLevel, *entity.StockMovement, error) {
	if !qty.IsPositive() || unitCost.IsNegative() {
		return nil, nil, fmt.Errorf("%w: entrada con cantidad %s y costo %s", domain.ErrInvalidInput, qty, unitCost)
	}

	avg := inventory.MovingAverageCost(level.QuantityOnHand, level.AverageCost, qty, unitCost)
	onOrder := decimal.Min(qty, decimal.Max(level.QuantityOnOrder, decimal.Zero))
	updated, err := r.Stock.ApplyDelta(ctx, level.Key(), entity.StockDelta{
		OnHand:      qty,
		OnOrder:     onOrder.Neg(),
		AverageCost: &avg,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("aplicar entrada: %w", err)
	}

	mov := batch.add(level.Key(), entity.MovementTypeReceipt, qty, unitCost, inventory.ExtendedCost(qty, unitCost), l.now())
	return updated, mov, nil
}

// Issue salida al costo promedio vigente. release es la cantidad respaldada por reservas;
// nunca se libera más de lo reservado en el nivel.
func (l *StockLedger) Issue(ctx context.Context, r repository.Repos, batch *MovementBatch, level *entity.StockLevel, qty, release decimal.Decimal, allowNegative bool) (*entity.StockLevel, *entity.StockMovement, error) {
	if !qty.IsPositive() {
		return nil, nil, fmt.Errorf("%w: salida con cantidad %s", domain.ErrInvalidInput, qty)
	}
	if !inventory.CanIssue(level.QuantityOnHand, qty, allowNegative) {
		return nil, nil, &domain.StockShortageError{
			ProductID:   level.ProductID,
			WarehouseID: level.WarehouseID,
			Available:   level.QuantityOnHand,
			Requested:   qty,
		}
	}

	unitCost := level.AverageCost
	rel := inventory.ReservedRelease(release, level.QuantityReserved)
	updated, err := r.Stock.ApplyDelta(ctx, level.Key(), entity.StockDelta{
		OnHand:   qty.Neg(),
		Reserved: rel.Neg(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("aplicar salida: %w", err)
	}

	mov := batch.add(level.Key(), entity.MovementTypeIssue, qty.Neg(), unitCost, inventory.ExtendedCost(qty, unitCost), l.now())
	return updated, mov, nil
}

// AddOnOrder suma cantidad pedida al proveedor.
func (l *StockLedger) AddOnOrder(ctx context.Context, r repository.Repos, level *entity.StockLevel, qty decimal.Decimal) (*entity.StockLevel, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad pedida %s", domain.ErrInvalidInput, qty)
	}
	return r.Stock.ApplyDelta(ctx, level.Key(), entity.StockDelta{OnOrder: qty})
}

// RemoveOnOrder descuenta lo pedido sin dejarlo negativo (cancelación de compra).
func (l *StockLedger) RemoveOnOrder(ctx context.Context, r repository.Repos, level *entity.StockLevel, qty decimal.Decimal) (*entity.StockLevel, error) {
	take := decimal.Min(qty, decimal.Max(level.QuantityOnOrder, decimal.Zero))
	if !take.IsPositive() {
		return level, nil
	}
	return r.Stock.ApplyDelta(ctx, level.Key(), entity.StockDelta{OnOrder: take.Neg()})
}

// MovementBatch acumula los movimientos de un documento. Se persisten con Flush
// cuando el documento ya tiene número (la numeración se toma al final de la transacción).
type MovementBatch struct {
	source    entity.SourceRef
	userID    string
	movements []*entity.StockMovement
}

// NewMovementBatch lote para el documento source.
func NewMovementBatch(source entity.SourceRef, userID string) *MovementBatch {
	return &MovementBatch{source: source, userID: userID}
}

func (b *MovementBatch) add(key entity.StockKey, typ string, qty, unitCost, total decimal.Decimal, at time.Time) *entity.StockMovement {
	m := &entity.StockMovement{
		ID:          uuid.New().String(),
		CompanyID:   key.CompanyID,
		WarehouseID: key.WarehouseID,
		ProductID:   key.ProductID,
		Type:        typ,
		Quantity:    qty,
		UnitCost:    unitCost,
		TotalCost:   total,
		SourceType:  b.source.Type,
		SourceID:    b.source.ID,
		CreatedBy:   b.userID,
		CreatedAt:   at,
	}
	b.movements = append(b.movements, m)
	return m
}

// Movements movimientos acumulados.
func (b *MovementBatch) Movements() []*entity.StockMovement { return b.movements }

// TotalCost suma del valor de los movimientos.
func (b *MovementBatch) TotalCost() decimal.Decimal {
	sum := decimal.Zero
	for _, m := range b.movements {
		sum = sum.Add(m.TotalCost)
	}
	return sum
}

// Flush asigna el número del documento y guarda los movimientos.
func (b *MovementBatch) Flush(ctx context.Context, r repository.Repos, sourceNumber string) error {
	for _, m := range b.movements {
		m.SourceNumber = sourceNumber
		if err := r.Movements.Create(ctx, m); err != nil {
			return fmt.Errorf("guardar movimiento: %w", err)
		}
	}
	return nil
}
