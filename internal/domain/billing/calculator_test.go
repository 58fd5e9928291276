package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/internal/domain/billing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─────────────────────────────────────────────────────────────────────────────
// Subtotal de línea
// ─────────────────────────────────────────────────────────────────────────────

func TestLineSubtotal(t *testing.T) {
	assert.True(t, d("30.00").Equal(billing.LineSubtotal(2, d("15.00"))))
	assert.True(t, d("3.70").Equal(billing.LineSubtotal(3, d("1.2345"))), "3.7035 redondea a 3.70")
	assert.True(t, d("0.01").Equal(billing.LineSubtotal(1, d("0.005"))), "half-up")
}

// ─────────────────────────────────────────────────────────────────────────────
// Totales de cabecera
// ─────────────────────────────────────────────────────────────────────────────

func TestInvoiceTotals_Taxed(t *testing.T) {
	// 2 × 15.00 + 1 × 40.00 = 70.00
	got := billing.InvoiceTotals(d("70.00"), decimal.Zero, false, billing.DefaultTaxRate)
	assert.True(t, d("70.00").Equal(got.Base))
	assert.True(t, d("7.00").Equal(got.Tax))
	assert.True(t, d("77.00").Equal(got.Total))
}

func TestInvoiceTotals_ExemptWithDiscount(t *testing.T) {
	got := billing.InvoiceTotals(d("100.00"), d("5.00"), true, billing.DefaultTaxRate)
	assert.True(t, d("95.00").Equal(got.Base))
	assert.True(t, got.Tax.IsZero(), "factura exenta no lleva impuesto")
	assert.True(t, d("95.00").Equal(got.Total))
}

func TestInvoiceTotals_TaxRounding(t *testing.T) {
	got := billing.InvoiceTotals(d("10.05"), decimal.Zero, false, d("0.10"))
	assert.True(t, d("1.01").Equal(got.Tax), "1.005 redondea a 1.01")
	assert.True(t, d("11.06").Equal(got.Total))
}

func TestInvoiceTotals_Invariant(t *testing.T) {
	cases := []struct {
		sub, disc string
		exempt    bool
	}{
		{"0.00", "0.00", false},
		{"123.45", "3.33", false},
		{"999.99", "0.01", true},
		{"1.11", "1.11", false},
	}
	for _, c := range cases {
		got := billing.InvoiceTotals(d(c.sub), d(c.disc), c.exempt, billing.DefaultTaxRate)
		assert.True(t, got.Total.Equal(got.Subtotal.Sub(got.Discount).Add(got.Tax)), "total = subtotal - descuento + impuesto (%s)", c.sub)
		if c.exempt {
			assert.True(t, got.Tax.IsZero())
		}
	}
}

func TestInvoiceTotals_TasaCero(t *testing.T) {
	got := billing.InvoiceTotals(d("70.00"), decimal.Zero, false, decimal.Zero)
	assert.True(t, got.Tax.IsZero(), "tasa cero no debe convertirse en la tasa por defecto")
	assert.True(t, d("70.00").Equal(got.Total))
}
