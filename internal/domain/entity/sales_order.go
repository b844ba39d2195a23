package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
)

// SalesOrderStatus estado de una orden de venta.
type SalesOrderStatus string

const (
	SalesOrderDraft     SalesOrderStatus = "draft"
	SalesOrderConfirmed SalesOrderStatus = "confirmed"
	SalesOrderDelivered SalesOrderStatus = "delivered"
	SalesOrderInvoiced  SalesOrderStatus = "invoiced"
	SalesOrderCancelled SalesOrderStatus = "cancelled"
)

var salesOrderTransitions = map[SalesOrderStatus][]SalesOrderStatus{
	SalesOrderDraft:     {SalesOrderConfirmed, SalesOrderCancelled},
	SalesOrderConfirmed: {SalesOrderDelivered, SalesOrderCancelled},
	SalesOrderDelivered: {SalesOrderInvoiced},
}

// CanTransitionTo indica si el paso s -> target está permitido. invoiced y cancelled son terminales.
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	for _, next := range salesOrderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s SalesOrderStatus) IsTerminal() bool {
	return len(salesOrderTransitions[s]) == 0
}

// SalesOrder cabecera y líneas de una orden de venta.
type SalesOrder struct {
	ID           string
	CompanyID    string
	CustomerID   string
	WarehouseID  string
	Number       string // se asigna al confirmar
	Status       SalesOrderStatus
	Subtotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	Total        decimal.Decimal
	FiscalPeriod string
	Lines        []OrderLine
	CreatedBy    string
	ConfirmedAt  *time.Time
	DeliveredAt  *time.Time
	InvoicedAt   *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (o *SalesOrder) DocumentType() DocumentType  { return DocSalesOrder }
func (o *SalesOrder) DocumentID() string          { return o.ID }
func (o *SalesOrder) DocumentCompanyID() string   { return o.CompanyID }
func (o *SalesOrder) CurrentStatus() string       { return string(o.Status) }
func (o *SalesOrder) OrderLines() []OrderLine     { return o.Lines }
func (o *SalesOrder) Totals() (subtotal, tax, total decimal.Decimal) {
	return lineTotals(o.Lines)
}

// TransitionTo aplica el cambio de estado y sella la fecha correspondiente.
func (o *SalesOrder) TransitionTo(target SalesOrderStatus, at time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		var required []string
		for from, nexts := range salesOrderTransitions {
			for _, n := range nexts {
				if n == target {
					required = append(required, string(from))
				}
			}
		}
		sort.Strings(required)
		return &domain.TransitionError{Document: "orden de venta", ID: o.ID, Current: string(o.Status), Required: required}
	}
	o.Status = target
	o.UpdatedAt = at
	switch target {
	case SalesOrderConfirmed:
		o.ConfirmedAt = &at
	case SalesOrderDelivered:
		o.DeliveredAt = &at
	case SalesOrderInvoiced:
		o.InvoicedAt = &at
	case SalesOrderCancelled:
		o.CancelledAt = &at
	}
	return nil
}

// Clone copia profunda (líneas incluidas).
func (o *SalesOrder) Clone() *SalesOrder {
	c := *o
	c.Lines = copyLines(o.Lines)
	return &c
}
