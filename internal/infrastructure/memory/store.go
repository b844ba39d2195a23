// Package memory implementa los repositorios y el TxRunner sobre mapas en memoria.
// Un mutex global serializa las transacciones y un snapshot permite el rollback,
// así que cada Run es serializable. Se usa en tests y con APP_ENV=memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

type seqKey struct {
	companyID string
	docType   entity.DocumentType
}

type accountKey struct {
	companyID string
	code      string
}

// state guarda copias propias de cada entidad. Las escrituras reemplazan la entrada
// con una copia nueva y nunca mutan la almacenada, por eso el snapshot puede ser superficial.
type state struct {
	salesOrders    map[string]*entity.SalesOrder
	purchaseOrders map[string]*entity.PurchaseOrder
	stock          map[entity.StockKey]*entity.StockLevel
	reservations   map[string]*entity.StockReservation
	movements      []*entity.StockMovement
	deliveries     map[string]*entity.Delivery
	receipts       map[string]*entity.GoodsReceipt
	invoices       map[string]*entity.Invoice
	payments       map[string]*entity.Payment
	applications   []*entity.PaymentApplication
	journals       map[string]*entity.JournalEntry
	journalOrder   []string
	accounts       map[string]*entity.Account
	accountByCode  map[accountKey]string
	balances       map[entity.LedgerKey]decimal.Decimal
	ledger         []*entity.ArApLedgerEntry
	sequences      map[seqKey]*entity.DocumentSequence
	customers      map[string]*entity.Customer
	vendors        map[string]*entity.Vendor
	warehouses     map[string]*entity.Warehouse
	reservationSeq int64
	ledgerSeq      int64
}

func newState() *state {
	return &state{
		salesOrders:    map[string]*entity.SalesOrder{},
		purchaseOrders: map[string]*entity.PurchaseOrder{},
		stock:          map[entity.StockKey]*entity.StockLevel{},
		reservations:   map[string]*entity.StockReservation{},
		deliveries:     map[string]*entity.Delivery{},
		receipts:       map[string]*entity.GoodsReceipt{},
		invoices:       map[string]*entity.Invoice{},
		payments:       map[string]*entity.Payment{},
		journals:       map[string]*entity.JournalEntry{},
		accounts:       map[string]*entity.Account{},
		accountByCode:  map[accountKey]string{},
		balances:       map[entity.LedgerKey]decimal.Decimal{},
		sequences:      map[seqKey]*entity.DocumentSequence{},
		customers:      map[string]*entity.Customer{},
		vendors:        map[string]*entity.Vendor{},
		warehouses:     map[string]*entity.Warehouse{},
	}
}

func (s *state) snapshot() *state {
	return &state{
		salesOrders:    maps.Clone(s.salesOrders),
		purchaseOrders: maps.Clone(s.purchaseOrders),
		stock:          maps.Clone(s.stock),
		reservations:   maps.Clone(s.reservations),
		movements:      slices.Clone(s.movements),
		deliveries:     maps.Clone(s.deliveries),
		receipts:       maps.Clone(s.receipts),
		invoices:       maps.Clone(s.invoices),
		payments:       maps.Clone(s.payments),
		applications:   slices.Clone(s.applications),
		journals:       maps.Clone(s.journals),
		journalOrder:   slices.Clone(s.journalOrder),
		accounts:       maps.Clone(s.accounts),
		accountByCode:  maps.Clone(s.accountByCode),
		balances:       maps.Clone(s.balances),
		ledger:         slices.Clone(s.ledger),
		sequences:      maps.Clone(s.sequences),
		customers:      maps.Clone(s.customers),
		vendors:        maps.Clone(s.vendors),
		warehouses:     maps.Clone(s.warehouses),
		reservationSeq: s.reservationSeq,
		ledgerSeq:      s.ledgerSeq,
	}
}

// Store almacén en memoria; implementa workflow.TxRunner.
type Store struct {
	mu    sync.Mutex
	data  *state
	repos repository.Repos
}

// NewStore almacén vacío.
func NewStore() *Store {
	s := &Store{data: newState()}
	s.repos = repository.Repos{
		SalesOrders:    &salesOrderRepo{s: s},
		PurchaseOrders: &purchaseOrderRepo{s: s},
		Stock:          &stockRepo{s: s},
		Reservations:   &reservationRepo{s: s},
		Movements:      &movementRepo{s: s},
		Deliveries:     &deliveryRepo{s: s},
		Receipts:       &receiptRepo{s: s},
		Invoices:       &invoiceRepo{s: s},
		Payments:       &paymentRepo{s: s},
		Journals:       &journalRepo{s: s},
		Accounts:       &accountRepo{s: s},
		Ledger:         &ledgerRepo{s: s},
		Sequences:      &sequenceRepo{s: s},
		Customers:      &customerRepo{s: s},
		Vendors:        &vendorRepo{s: s},
		Warehouses:     &warehouseRepo{s: s},
	}
	return s
}

// Run ejecuta fn con el almacén bloqueado. Si fn falla (o hace panic) se restaura
// el estado previo.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.data.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.data = snap
		}
	}()

	if err := fn(ctx, s.repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}
