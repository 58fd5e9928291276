package inventory

import "github.com/shopspring/decimal"

// DefaultMarkup margen aplicado al costo para obtener el precio de venta (30%).
var DefaultMarkup = decimal.NewFromFloat(1.30)

// MarkupPrice precio de venta derivado del costo: costo × markup redondeado a 2 decimales.
// Con markup cero usa DefaultMarkup.
func MarkupPrice(cost, markup decimal.Decimal) decimal.Decimal {
	if markup.IsZero() {
		markup = DefaultMarkup
	}
	return cost.Mul(markup).Round(2)
}

// QuickPrice precio para el alta rápida de productos: costo × markup redondeado a entero.
func QuickPrice(cost, markup decimal.Decimal) decimal.Decimal {
	if markup.IsZero() {
		markup = DefaultMarkup
	}
	return cost.Mul(markup).Round(0)
}

// ApplyMovement stock resultante de aplicar un movimiento firmado. ok=false si quedaría negativo.
func ApplyMovement(stock, signedQty int) (int, bool) {
	next := stock + signedQty
	if next < 0 {
		return stock, false
	}
	return next, true
}
