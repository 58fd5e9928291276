// Package billing contiene el cálculo puro de totales de facturas de venta.
package billing

import "github.com/shopspring/decimal"

// DefaultTaxRate tasa de IVA por defecto (10%). La configuración la usa cuando BILLING_TAX_RATE no está definido.
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// Totals totales de cabecera de una factura.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Base     decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineSubtotal cantidad × precio unitario, redondeado a 2 decimales (half-up).
func LineSubtotal(qty int, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(qty)).Mul(unitPrice).Round(2)
}

// InvoiceTotals calcula base, impuesto y total a partir de la suma de subtotales de línea.
//
//	base  = round(subtotal - descuento, 2)
//	tax   = 0 si exento, si no round(base × tasa, 2)
//	total = base + tax
func InvoiceTotals(subtotal, discount decimal.Decimal, exempt bool, taxRate decimal.Decimal) Totals {
	base := subtotal.Sub(discount).Round(2)
	tax := decimal.Zero
	if !exempt {
		tax = base.Mul(taxRate).Round(2)
	}
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Base:     base,
		Tax:      tax,
		Total:    base.Add(tax),
	}
}
