package inventory_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/export"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
)

func seedWithMinimum(store *testutil.Store, name string, stock, minStock int) string {
	id := uuid.NewString()
	store.SeedProduct(entity.Product{
		ID:       id,
		Name:     name,
		Cost:     decimal.NewFromInt(30000),
		Price:    decimal.NewFromInt(39000),
		Stock:    stock,
		MinStock: minStock,
		Active:   true,
	})
	return id
}

func TestReplenishment_SugerenciasConProveedorPrincipal(t *testing.T) {
	store := testutil.NewStore()
	critical := seedWithMinimum(store, "DISCO DE CORTE 4.5", 2, 10)
	justBelow := seedWithMinimum(store, "BROCA 6MM", 4, 5)
	seedWithMinimum(store, "ESPATULA", 20, 5)

	supplierID := seedSupplier(store)
	backup := seedSupplier(store)
	require.NoError(t, store.Suppliers().CreateProductSupplier(context.Background(), &entity.ProductSupplier{
		ID: uuid.NewString(), ProductID: critical, SupplierID: backup,
		PurchasePrice: decimal.NewFromInt(9000), Active: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, store.Suppliers().CreateProductSupplier(context.Background(), &entity.ProductSupplier{
		ID: uuid.NewString(), ProductID: critical, SupplierID: supplierID,
		PurchasePrice: decimal.NewFromInt(8000), IsPrimary: true, Active: true, CreatedAt: time.Now(),
	}))

	uc := inventory.NewReplenishmentUseCase(inventory.NewLedger(), store.Products(), store.Suppliers(), export.NewExcelExporter())
	items, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, critical, first.ProductID)
	assert.Equal(t, 13, first.SuggestedQty)
	require.NotNil(t, first.SupplierID)
	assert.Equal(t, supplierID, *first.SupplierID)
	assert.True(t, first.EstimatedCost.Equal(decimal.NewFromInt(104000)), "costo: %s", first.EstimatedCost)

	second := items[1]
	assert.Equal(t, justBelow, second.ProductID)
	assert.Equal(t, 4, second.SuggestedQty)
	assert.Nil(t, second.SupplierID)
	assert.True(t, second.PurchasePrice.Equal(decimal.NewFromInt(30000)))
}

func TestReplenishment_ReporteStockBajo(t *testing.T) {
	store := testutil.NewStore()
	seedWithMinimum(store, "CLAVO 2", 1, 3)
	seedWithMinimum(store, "CLAVO 3", 50, 3)
	uc := inventory.NewReplenishmentUseCase(inventory.NewLedger(), store.Products(), store.Suppliers(), export.NewExcelExporter())

	items, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "CLAVO 2", items[0].Name)
	assert.Equal(t, 2, items[0].Missing)

	raw, err := uc.ExportLowStock(context.Background())
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Stock bajo")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CLAVO 2", rows[1][1])
}
