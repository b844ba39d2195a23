package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.DeliveryRepository     = (*deliveryRepo)(nil)
	_ repository.GoodsReceiptRepository = (*receiptRepo)(nil)
	_ repository.InvoiceRepository      = (*invoiceRepo)(nil)
	_ repository.PaymentRepository      = (*paymentRepo)(nil)
)

type deliveryRepo struct{ s *Store }

func cloneDelivery(d *entity.Delivery) *entity.Delivery {
	c := *d
	c.Lines = slices.Clone(d.Lines)
	return &c
}

func (r *deliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	if _, ok := r.s.data.deliveries[d.ID]; ok {
		return fmt.Errorf("%w: remisión %s", domain.ErrDuplicate, d.ID)
	}
	r.s.data.deliveries[d.ID] = cloneDelivery(d)
	return nil
}

func (r *deliveryRepo) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	d, ok := r.s.data.deliveries[id]
	if !ok {
		return nil, nil
	}
	return cloneDelivery(d), nil
}

type receiptRepo struct{ s *Store }

func cloneReceipt(g *entity.GoodsReceipt) *entity.GoodsReceipt {
	c := *g
	c.Lines = slices.Clone(g.Lines)
	return &c
}

func (r *receiptRepo) Create(ctx context.Context, g *entity.GoodsReceipt) error {
	if _, ok := r.s.data.receipts[g.ID]; ok {
		return fmt.Errorf("%w: entrada %s", domain.ErrDuplicate, g.ID)
	}
	r.s.data.receipts[g.ID] = cloneReceipt(g)
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	g, ok := r.s.data.receipts[id]
	if !ok {
		return nil, nil
	}
	return cloneReceipt(g), nil
}

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if _, ok := r.s.data.invoices[inv.ID]; ok {
		return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.ID)
	}
	r.s.data.invoices[inv.ID] = inv.Clone()
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return nil, nil
	}
	return inv.Clone(), nil
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) UpdatePayment(ctx context.Context, inv *entity.Invoice) error {
	cur, ok := r.s.data.invoices[inv.ID]
	if !ok {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, inv.ID)
	}
	next := cur.Clone()
	next.AmountPaid = inv.AmountPaid
	next.AmountDue = inv.AmountDue
	next.Status = inv.Status
	next.UpdatedAt = inv.UpdatedAt
	r.s.data.invoices[inv.ID] = next
	return nil
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if _, ok := r.s.data.payments[p.ID]; ok {
		return fmt.Errorf("%w: pago %s", domain.ErrDuplicate, p.ID)
	}
	c := *p
	r.s.data.payments[p.ID] = &c
	return nil
}

func (r *paymentRepo) CreateApplication(ctx context.Context, a *entity.PaymentApplication) error {
	if _, ok := r.s.data.payments[a.PaymentID]; !ok {
		return fmt.Errorf("%w: pago %s", domain.ErrNotFound, a.PaymentID)
	}
	c := *a
	r.s.data.applications = append(r.s.data.applications, &c)
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *paymentRepo) ListApplications(ctx context.Context, paymentID string) ([]*entity.PaymentApplication, error) {
	var out []*entity.PaymentApplication
	for _, a := range r.s.data.applications {
		if a.PaymentID == paymentID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}
