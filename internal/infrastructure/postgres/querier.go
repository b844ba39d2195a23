package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

// Querier lo implementan *pgxpool.Pool y pgx.Tx; los repositorios no distinguen.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos construye todos los repositorios sobre el mismo Querier (normalmente una tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		SalesOrders:    NewSalesOrderRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Stock:          NewStockRepository(q),
		Reservations:   NewReservationRepository(q),
		Movements:      NewStockMovementRepository(q),
		Deliveries:     NewDeliveryRepository(q),
		Receipts:       NewGoodsReceiptRepository(q),
		Invoices:       NewInvoiceRepository(q),
		Payments:       NewPaymentRepository(q),
		Journals:       NewJournalRepository(q),
		Accounts:       NewAccountRepository(q),
		Ledger:         NewLedgerRepository(q),
		Sequences:      NewSequenceRepository(q),
		Customers:      NewCustomerRepository(q),
		Vendors:        NewVendorRepository(q),
		Warehouses:     NewWarehouseRepository(q),
	}
}
