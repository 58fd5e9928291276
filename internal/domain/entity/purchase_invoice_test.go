package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestPurchaseInvoice_Recompute(t *testing.T) {
	inv := &entity.PurchaseInvoice{
		Subtotal: dec("1000"),
		Discount: dec("50"),
		Tax:      dec("95"),
		Lines: []entity.PurchaseInvoiceLine{
			{Quantity: dec("2.5"), UnitPrice: dec("10")},
		},
	}
	inv.Recompute()
	assert.True(t, dec("1045").Equal(inv.Total))
	assert.True(t, dec("25").Equal(inv.Lines[0].Subtotal))

	inv.Recompute()
	assert.True(t, dec("1045").Equal(inv.Total), "recalcular dos veces no cambia el total")
}

func TestPurchaseInvoice_LinesSubtotal(t *testing.T) {
	inv := &entity.PurchaseInvoice{Lines: []entity.PurchaseInvoiceLine{
		{Quantity: dec("2"), UnitPrice: dec("10.50")},
		{Quantity: dec("0.5"), UnitPrice: dec("4")},
	}}
	assert.True(t, dec("23").Equal(inv.LinesSubtotal()))
}

func TestPurchaseInvoice_Overdue(t *testing.T) {
	due := day(2024, 3, 1)
	inv := &entity.PurchaseInvoice{Status: entity.PurchaseInvoiceStatusPending, DueDate: &due}

	assert.True(t, inv.IsOverdue(day(2024, 3, 5)))
	require.NotNil(t, inv.DaysToDue(day(2024, 3, 5)))
	assert.Equal(t, -4, *inv.DaysToDue(day(2024, 3, 5)))
	assert.Equal(t, entity.PurchaseInvoiceStatusOverdue, inv.EffectiveStatus(day(2024, 3, 5)))

	assert.False(t, inv.IsOverdue(day(2024, 3, 1)), "el día del vencimiento todavía no está vencida")
	assert.Equal(t, 0, *inv.DaysToDue(day(2024, 3, 1)))
	assert.True(t, inv.IsDueSoon(day(2024, 2, 25)))
	assert.False(t, inv.IsDueSoon(day(2024, 2, 1)))

	inv.Status = entity.PurchaseInvoiceStatusPaid
	assert.False(t, inv.IsOverdue(day(2024, 3, 5)))
	assert.Nil(t, inv.DaysToDue(day(2024, 3, 5)))

	noDue := &entity.PurchaseInvoice{Status: entity.PurchaseInvoiceStatusPending}
	assert.False(t, noDue.IsOverdue(day(2024, 3, 5)))
	assert.Nil(t, noDue.DaysToDue(day(2024, 3, 5)))
}

func TestPurchaseInvoice_StateMachine(t *testing.T) {
	inv := &entity.PurchaseInvoice{Status: entity.PurchaseInvoiceStatusPending}
	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, entity.PurchaseInvoiceStatusPaid, inv.Status)

	err := inv.MarkPaid()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStateTransition))
	assert.Equal(t, entity.PurchaseInvoiceStatusPaid, inv.Status)

	err = inv.Cancel()
	assert.True(t, errors.Is(err, domain.ErrInvalidStateTransition), "no se cancela una factura pagada")

	other := &entity.PurchaseInvoice{Status: entity.PurchaseInvoiceStatusPending}
	require.NoError(t, other.Cancel())
	assert.Error(t, other.MarkPaid())
	assert.Error(t, other.Cancel())
}
