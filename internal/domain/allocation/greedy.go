// Package allocation reparte una cantidad sobre cubetas en orden (FIFO).
// Lo usan el consumo de reservas al despachar y la aplicación de pagos a facturas.
package allocation

import "github.com/shopspring/decimal"

// Bucket capacidad disponible de un destino (reserva pendiente, saldo de factura).
type Bucket struct {
	ID       string
	Capacity decimal.Decimal
}

// Allocation cantidad asignada a un destino.
type Allocation struct {
	ID     string
	Amount decimal.Decimal
}

// Greedy recorre buckets en el orden dado y asigna min(restante, capacidad) a cada uno.
// Omite cubetas sin capacidad y devuelve lo que no se pudo asignar.
func Greedy(amount decimal.Decimal, buckets []Bucket) ([]Allocation, decimal.Decimal) {
	remaining := amount
	var out []Allocation
	for _, b := range buckets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if b.Capacity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, b.Capacity)
		out = append(out, Allocation{ID: b.ID, Amount: take})
		remaining = remaining.Sub(take)
	}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return out, remaining
}

// Total suma de lo asignado.
func Total(allocs []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.Amount)
	}
	return sum
}
