package inventory

import "github.com/shopspring/decimal"

// Escalas de redondeo: costo unitario con 6 decimales, cantidades y precios con 4,
// valores monetarios con 2. Coinciden con las columnas NUMERIC del esquema.
const (
	CostScale     int32 = 6
	QuantityScale int32 = 4
	MoneyScale    int32 = 2
)

// FitsScale indica si v no tiene más decimales significativos que scale.
// "10.500" cabe en 2; "10.005" no.
func FitsScale(v decimal.Decimal, scale int32) bool {
	return v.Equal(v.Truncate(scale))
}

// MovingAverageCost costo promedio ponderado tras una entrada.
// NuevoCosto = ((Existencias * CostoActual) + (CantEntrada * CostoEntrada)) / (Existencias + CantEntrada)
// Si el total resultante no es positivo se toma el costo de la entrada.
func MovingAverageCost(onHand, currentCost, receivedQty, receivedCost decimal.Decimal) decimal.Decimal {
	total := onHand.Add(receivedQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return receivedCost.Round(CostScale)
	}
	num := onHand.Mul(currentCost).Add(receivedQty.Mul(receivedCost))
	return num.Div(total).Round(CostScale)
}

// ExtendedCost valor de qty unidades al costo unitario, redondeado a moneda.
func ExtendedCost(qty, unitCost decimal.Decimal) decimal.Decimal {
	return qty.Abs().Mul(unitCost).Round(MoneyScale)
}

// ReservedRelease cuánto reservado se libera en una salida: nunca más de lo reservado.
func ReservedRelease(requested, reserved decimal.Decimal) decimal.Decimal {
	if requested.LessThanOrEqual(decimal.Zero) || reserved.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return decimal.Min(requested, reserved)
}

// CanIssue indica si onHand alcanza para qty, salvo que la bodega admita negativos.
func CanIssue(onHand, qty decimal.Decimal, allowNegative bool) bool {
	return allowNegative || onHand.GreaterThanOrEqual(qty)
}
