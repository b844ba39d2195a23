package repository

import (
	"context"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// DeliveryRepository remisiones (cabecera + líneas).
type DeliveryRepository interface {
	Create(ctx context.Context, d *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
}

// GoodsReceiptRepository entradas de almacén.
type GoodsReceiptRepository interface {
	Create(ctx context.Context, r *entity.GoodsReceipt) error
	GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error)
}

// InvoiceRepository facturas de cliente y de proveedor.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// UpdatePayment persiste AmountPaid, AmountDue y Status.
	UpdatePayment(ctx context.Context, inv *entity.Invoice) error
}

// PaymentRepository pagos y sus aplicaciones a facturas.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	CreateApplication(ctx context.Context, a *entity.PaymentApplication) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListApplications(ctx context.Context, paymentID string) ([]*entity.PaymentApplication, error)
}
