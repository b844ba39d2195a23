package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// OrderLineRequest línea de una orden nueva. tax_amount llega calculado por el cliente.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,max=64"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	CustomerID   string             `json:"customer_id" validate:"required,uuid"`
	WarehouseID  string             `json:"warehouse_id" validate:"required,uuid"`
	FiscalPeriod string             `json:"fiscal_period,omitempty" validate:"omitempty,max=16"`
	Lines        []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	VendorID     string             `json:"vendor_id" validate:"required,uuid"`
	WarehouseID  string             `json:"warehouse_id" validate:"required,uuid"`
	FiscalPeriod string             `json:"fiscal_period,omitempty" validate:"omitempty,max=16"`
	Lines        []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderLineResponse línea de orden en respuestas.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	LineNo    int             `json:"line_no"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SalesOrderResponse orden de venta.
type SalesOrderResponse struct {
	ID           string              `json:"id"`
	CompanyID    string              `json:"company_id"`
	CustomerID   string              `json:"customer_id"`
	WarehouseID  string              `json:"warehouse_id"`
	Number       string              `json:"number,omitempty"`
	Status       string              `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	TaxTotal     decimal.Decimal     `json:"tax_total"`
	Total        decimal.Decimal     `json:"total"`
	FiscalPeriod string              `json:"fiscal_period,omitempty"`
	Lines        []OrderLineResponse `json:"lines"`
	ConfirmedAt  *time.Time          `json:"confirmed_at,omitempty"`
	DeliveredAt  *time.Time          `json:"delivered_at,omitempty"`
	InvoicedAt   *time.Time          `json:"invoiced_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// PurchaseOrderResponse orden de compra.
type PurchaseOrderResponse struct {
	ID           string              `json:"id"`
	CompanyID    string              `json:"company_id"`
	VendorID     string              `json:"vendor_id"`
	WarehouseID  string              `json:"warehouse_id"`
	Number       string              `json:"number,omitempty"`
	Status       string              `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	TaxTotal     decimal.Decimal     `json:"tax_total"`
	Total        decimal.Decimal     `json:"total"`
	FiscalPeriod string              `json:"fiscal_period,omitempty"`
	Lines        []OrderLineResponse `json:"lines"`
	OrderedAt    *time.Time          `json:"ordered_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	BilledAt     *time.Time          `json:"billed_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ReservationResponse reserva de stock de una línea.
type ReservationResponse struct {
	ID                string          `json:"id"`
	OrderLineID       string          `json:"order_line_id"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	QuantityFulfilled decimal.Decimal `json:"quantity_fulfilled"`
	Status            string          `json:"status"`
}

// ConfirmSalesOrderResponse respuesta de confirmar o cancelar una venta.
type ConfirmSalesOrderResponse struct {
	Order        SalesOrderResponse    `json:"order"`
	Reservations []ReservationResponse `json:"reservations"`
}

func orderLines(lines []entity.OrderLine) []OrderLineResponse {
	out := make([]OrderLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLineResponse{
			ID:        l.ID,
			LineNo:    l.LineNo,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxAmount: l.TaxAmount,
			LineTotal: l.LineTotal,
		})
	}
	return out
}

func FromSalesOrder(o *entity.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:           o.ID,
		CompanyID:    o.CompanyID,
		CustomerID:   o.CustomerID,
		WarehouseID:  o.WarehouseID,
		Number:       o.Number,
		Status:       string(o.Status),
		Subtotal:     o.Subtotal,
		TaxTotal:     o.TaxTotal,
		Total:        o.Total,
		FiscalPeriod: o.FiscalPeriod,
		Lines:        orderLines(o.Lines),
		ConfirmedAt:  o.ConfirmedAt,
		DeliveredAt:  o.DeliveredAt,
		InvoicedAt:   o.InvoicedAt,
		CancelledAt:  o.CancelledAt,
		CreatedAt:    o.CreatedAt,
	}
}

func FromPurchaseOrder(o *entity.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:           o.ID,
		CompanyID:    o.CompanyID,
		VendorID:     o.VendorID,
		WarehouseID:  o.WarehouseID,
		Number:       o.Number,
		Status:       string(o.Status),
		Subtotal:     o.Subtotal,
		TaxTotal:     o.TaxTotal,
		Total:        o.Total,
		FiscalPeriod: o.FiscalPeriod,
		Lines:        orderLines(o.Lines),
		OrderedAt:    o.OrderedAt,
		ReceivedAt:   o.ReceivedAt,
		BilledAt:     o.BilledAt,
		CancelledAt:  o.CancelledAt,
		CreatedAt:    o.CreatedAt,
	}
}

func FromReservations(rs []*entity.StockReservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ReservationResponse{
			ID:                r.ID,
			OrderLineID:       r.OrderLineID,
			ProductID:         r.ProductID,
			WarehouseID:       r.WarehouseID,
			QuantityReserved:  r.QuantityReserved,
			QuantityFulfilled: r.QuantityFulfilled,
			Status:            string(r.Status),
		})
	}
	return out
}
