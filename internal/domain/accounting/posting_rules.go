package accounting

import "github.com/shopspring/decimal"

// AccountMap códigos del plan de cuentas que usa el motor al contabilizar.
type AccountMap struct {
	Cash          string
	Receivable    string
	Inventory     string
	TaxReceivable string
	Payable       string
	GRNI          string // mercancía recibida no facturada
	TaxPayable    string
	Revenue       string
	COGS          string
}

// DefaultAccountMap plan de cuentas por defecto.
func DefaultAccountMap() AccountMap {
	return AccountMap{
		Cash:          "1100",
		Receivable:    "1200",
		Inventory:     "1300",
		TaxReceivable: "1400",
		Payable:       "2100",
		GRNI:          "2150",
		TaxPayable:    "2200",
		Revenue:       "4000",
		COGS:          "5000",
	}
}

// WithDefaults completa los códigos vacíos con los del plan por defecto.
func (m AccountMap) WithDefaults() AccountMap {
	def := DefaultAccountMap()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&m.Cash, def.Cash)
	fill(&m.Receivable, def.Receivable)
	fill(&m.Inventory, def.Inventory)
	fill(&m.TaxReceivable, def.TaxReceivable)
	fill(&m.Payable, def.Payable)
	fill(&m.GRNI, def.GRNI)
	fill(&m.TaxPayable, def.TaxPayable)
	fill(&m.Revenue, def.Revenue)
	fill(&m.COGS, def.COGS)
	return m
}

// CustomerInvoiceLines Dr Cartera total / Cr Ingresos subtotal / Cr IVA por pagar.
func (m AccountMap) CustomerInvoiceLines(subtotal, tax decimal.Decimal) []LineInput {
	lines := []LineInput{
		Dr(m.Receivable, subtotal.Add(tax), "Cuenta por cobrar"),
		Cr(m.Revenue, subtotal, "Ingreso por ventas"),
	}
	if tax.IsPositive() {
		lines = append(lines, Cr(m.TaxPayable, tax, "Impuesto generado"))
	}
	return lines
}

// VendorInvoiceLines Dr Recibido no facturado / Dr IVA descontable / Cr Proveedores.
func (m AccountMap) VendorInvoiceLines(subtotal, tax decimal.Decimal) []LineInput {
	lines := []LineInput{Dr(m.GRNI, subtotal, "Cruce de mercancía recibida")}
	if tax.IsPositive() {
		lines = append(lines, Dr(m.TaxReceivable, tax, "Impuesto descontable"))
	}
	return append(lines, Cr(m.Payable, subtotal.Add(tax), "Cuenta por pagar"))
}

// GoodsReceiptLines Dr Inventario / Cr Recibido no facturado.
func (m AccountMap) GoodsReceiptLines(value decimal.Decimal) []LineInput {
	return []LineInput{
		Dr(m.Inventory, value, "Entrada de inventario"),
		Cr(m.GRNI, value, "Mercancía recibida no facturada"),
	}
}

// COGSLines Dr Costo de ventas / Cr Inventario.
func (m AccountMap) COGSLines(cost decimal.Decimal) []LineInput {
	return []LineInput{
		Dr(m.COGS, cost, "Costo de ventas"),
		Cr(m.Inventory, cost, "Salida de inventario"),
	}
}

// PaymentReceivedLines Dr Caja/Banco / Cr Cartera. bankAccountID reemplaza la cuenta de caja.
func (m AccountMap) PaymentReceivedLines(amount decimal.Decimal, bankAccountID string) []LineInput {
	cash := Dr(m.Cash, amount, "Recaudo")
	cash.AccountID = bankAccountID
	return []LineInput{cash, Cr(m.Receivable, amount, "Abono a cartera")}
}

// PaymentMadeLines Dr Proveedores / Cr Caja/Banco.
func (m AccountMap) PaymentMadeLines(amount decimal.Decimal, bankAccountID string) []LineInput {
	cash := Cr(m.Cash, amount, "Pago")
	cash.AccountID = bankAccountID
	return []LineInput{Dr(m.Payable, amount, "Abono a proveedor"), cash}
}
