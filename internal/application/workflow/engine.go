package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	appaccounting "github.com/jhoicas/erp-workflow-api/internal/application/accounting"
	appinventory "github.com/jhoicas/erp-workflow-api/internal/application/inventory"
	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

const tracerName = "erp/workflow"

// Options configuración del motor.
type Options struct {
	// Accounts códigos contables; los vacíos toman el plan por defecto.
	Accounts accounting.AccountMap
	// StrictInvariants hace panic ante un asiento descuadrado (además del error).
	StrictInvariants bool
	// Now reloj inyectable; nil = time.Now.
	Now func() time.Time
	// Tracer nil = otel.Tracer("erp/workflow") del proveedor global.
	Tracer trace.Tracer
}

// Engine orquesta los flujos de venta (order-to-cash) y compra (procure-to-pay).
// Cada operación pública corre en exactamente una transacción: o se aplican todos
// sus efectos (estado, stock, reservas, asientos, cartera, numeración) o ninguno.
type Engine struct {
	tx           TxRunner
	seq          *appaccounting.SequenceGenerator
	journal      *appaccounting.JournalPoster
	ledger       *appaccounting.SubLedger
	stock        *appinventory.StockLedger
	reservations *appinventory.ReservationManager
	accounts     accounting.AccountMap
	now          func() time.Time
	tracer       trace.Tracer
	log          zerolog.Logger
}

// NewEngine construye el orquestador sobre tx.
func NewEngine(tx TxRunner, opts Options, log zerolog.Logger) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	seq := appaccounting.NewSequenceGenerator()
	return &Engine{
		tx:           tx,
		seq:          seq,
		journal:      appaccounting.NewJournalPoster(seq, now, opts.StrictInvariants),
		ledger:       appaccounting.NewSubLedger(now),
		stock:        appinventory.NewStockLedger(now),
		reservations: appinventory.NewReservationManager(now),
		accounts:     opts.Accounts.WithDefaults(),
		now:          now,
		tracer:       tracer,
		log:          log.With().Str("component", "workflow").Logger(),
	}
}

// run abre el span de la operación y ejecuta fn en una transacción.
// Los errores de negocio se registran como Warn y los de infraestructura como Error.
func (e *Engine) run(ctx context.Context, op, documentID string, fn func(ctx context.Context, r repository.Repos) error) error {
	ctx, span := e.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("erp.document_id", documentID)))
	defer span.End()

	err := e.tx.Run(ctx, fn)
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var ev *zerolog.Event
	switch {
	case domain.IsBusiness(err):
		ev = e.log.Warn()
	case domain.IsRetryable(err):
		ev = e.log.Warn().Bool("retryable", true)
	default:
		ev = e.log.Error()
	}
	ev.Err(err).Str("op", op).Str("document_id", documentID).Msg("operación rechazada")
	return err
}

func annotate(ctx context.Context, companyID string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("erp.company_id", companyID))
}

type scopeKey struct{}

// WithCompanyScope limita las operaciones de ctx a documentos de companyID.
// Sin scope (uso interno, tests) no se valida la compañía.
func WithCompanyScope(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, scopeKey{}, companyID)
}

func checkScope(ctx context.Context, companyID string) error {
	scope, ok := ctx.Value(scopeKey{}).(string)
	if ok && scope != "" && scope != companyID {
		return fmt.Errorf("%w: el documento pertenece a otra compañía", domain.ErrForbidden)
	}
	return nil
}

var documentNames = map[entity.DocumentType]string{
	entity.DocSalesOrder:    "orden de venta",
	entity.DocPurchaseOrder: "orden de compra",
}

// requireStatus precondición de estado sobre cualquier documento transaccional.
func requireStatus(doc entity.TransactionalDocument, allowed ...string) error {
	current := doc.CurrentStatus()
	for _, s := range allowed {
		if s == current {
			return nil
		}
	}
	return &domain.TransitionError{
		Document: documentNames[doc.DocumentType()],
		ID:       doc.DocumentID(),
		Current:  current,
		Required: allowed,
	}
}

// requireLines una orden sin líneas no puede avanzar.
func requireLines(doc entity.TransactionalDocument) error {
	if len(doc.OrderLines()) == 0 {
		return fmt.Errorf("%w: %s %s sin líneas", domain.ErrInvalidInput, documentNames[doc.DocumentType()], doc.DocumentID())
	}
	return nil
}

func (e *Engine) lockSalesOrder(ctx context.Context, r repository.Repos, id string, allowed ...entity.SalesOrderStatus) (*entity.SalesOrder, error) {
	order, err := r.SalesOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bloquear orden de venta: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden de venta %s", domain.ErrNotFound, id)
	}
	annotate(ctx, order.CompanyID)
	if err := checkScope(ctx, order.CompanyID); err != nil {
		return nil, err
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	if err := requireStatus(order, names...); err != nil {
		return nil, err
	}
	return order, nil
}

func (e *Engine) lockPurchaseOrder(ctx context.Context, r repository.Repos, id string, allowed ...entity.PurchaseOrderStatus) (*entity.PurchaseOrder, error) {
	order, err := r.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bloquear orden de compra: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	annotate(ctx, order.CompanyID)
	if err := checkScope(ctx, order.CompanyID); err != nil {
		return nil, err
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	if err := requireStatus(order, names...); err != nil {
		return nil, err
	}
	return order, nil
}

func (e *Engine) warehouse(ctx context.Context, r repository.Repos, companyID, id string) (*entity.Warehouse, error) {
	wh, err := r.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar bodega: %w", err)
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return wh, nil
}

func stockKey(companyID, productID, warehouseID string) entity.StockKey {
	return entity.StockKey{CompanyID: companyID, ProductID: productID, WarehouseID: warehouseID}
}
