package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
)

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderBilled    PurchaseOrderStatus = "billed"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderDraft:    {PurchaseOrderOrdered, PurchaseOrderCancelled},
	PurchaseOrderOrdered:  {PurchaseOrderReceived, PurchaseOrderCancelled},
	PurchaseOrderReceived: {PurchaseOrderBilled},
}

func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	for _, next := range purchaseOrderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s PurchaseOrderStatus) IsTerminal() bool {
	return len(purchaseOrderTransitions[s]) == 0
}

// PurchaseOrder cabecera y líneas de una orden de compra. UnitPrice de cada línea es el costo unitario.
type PurchaseOrder struct {
	ID           string
	CompanyID    string
	VendorID     string
	WarehouseID  string
	Number       string
	Status       PurchaseOrderStatus
	Subtotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	Total        decimal.Decimal
	FiscalPeriod string
	Lines        []OrderLine
	CreatedBy    string
	OrderedAt    *time.Time
	ReceivedAt   *time.Time
	BilledAt     *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (o *PurchaseOrder) DocumentType() DocumentType { return DocPurchaseOrder }
func (o *PurchaseOrder) DocumentID() string         { return o.ID }
func (o *PurchaseOrder) DocumentCompanyID() string  { return o.CompanyID }
func (o *PurchaseOrder) CurrentStatus() string      { return string(o.Status) }
func (o *PurchaseOrder) OrderLines() []OrderLine    { return o.Lines }
func (o *PurchaseOrder) Totals() (subtotal, tax, total decimal.Decimal) {
	return lineTotals(o.Lines)
}

func (o *PurchaseOrder) TransitionTo(target PurchaseOrderStatus, at time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		var required []string
		for from, nexts := range purchaseOrderTransitions {
			for _, n := range nexts {
				if n == target {
					required = append(required, string(from))
				}
			}
		}
		sort.Strings(required)
		return &domain.TransitionError{Document: "orden de compra", ID: o.ID, Current: string(o.Status), Required: required}
	}
	o.Status = target
	o.UpdatedAt = at
	switch target {
	case PurchaseOrderOrdered:
		o.OrderedAt = &at
	case PurchaseOrderReceived:
		o.ReceivedAt = &at
	case PurchaseOrderBilled:
		o.BilledAt = &at
	case PurchaseOrderCancelled:
		o.CancelledAt = &at
	}
	return nil
}

func (o *PurchaseOrder) Clone() *PurchaseOrder {
	c := *o
	c.Lines = copyLines(o.Lines)
	return &c
}
