package repository

// Repos agrupa los repositorios ligados a una misma transacción (unidad de trabajo).
// Lo construye el TxRunner de infraestructura; todo lo que reciba un Repos
// escribe dentro de esa transacción.
type Repos struct {
	SalesOrders    SalesOrderRepository
	PurchaseOrders PurchaseOrderRepository
	Stock          StockLevelRepository
	Reservations   ReservationRepository
	Movements      StockMovementRepository
	Deliveries     DeliveryRepository
	Receipts       GoodsReceiptRepository
	Invoices       InvoiceRepository
	Payments       PaymentRepository
	Journals       JournalRepository
	Accounts       AccountRepository
	Ledger         LedgerRepository
	Sequences      SequenceRepository
	Customers      CustomerRepository
	Vendors        VendorRepository
	Warehouses     WarehouseRepository
}
