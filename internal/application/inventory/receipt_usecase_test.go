package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func newReceiptUseCase(store *testutil.Store) *inventory.ReceiptUseCase {
	return inventory.NewReceiptUseCase(store, inventory.NewLedger(), store.GoodsReceipts(), nil, logger.Nop(), decimal.Zero)
}

func seedSupplier(store *testutil.Store) string {
	id := uuid.NewString()
	store.SeedSupplier(entity.Supplier{ID: id, Name: "FERRETERA CENTRAL", Active: true})
	return id
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestReceipt_ActualizaCostoPrecioYStock(t *testing.T) {
	store := testutil.NewStore()
	productID := seedProduct(store, 5) // costo 30000, precio 39000
	supplierID := seedSupplier(store)

	out, err := newReceiptUseCase(store).Create(context.Background(), "user-1", dto.CreateGoodsReceiptRequest{
		SupplierID: supplierID,
		Lines:      []dto.GoodsReceiptLineRequest{{ProductID: productID, Quantity: 10, UnitCost: decPtr(40000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "REC-000001", out.Number)

	p := store.Product(productID)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(40000)), "costo: %s", p.Cost)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(52000)), "precio: %s", p.Price)
	assert.Equal(t, 15, p.Stock)

	movs := store.MovementsOf(productID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, 10, movs[0].Quantity)
	assert.Equal(t, "Recepción #REC-000001", movs[0].Description)
	assert.Equal(t, entity.ReferenceGoodsReceipt, movs[0].ReferenceType)
}

func TestReceipt_SinCostoConservaPrecios(t *testing.T) {
	store := testutil.NewStore()
	productID := seedProduct(store, 0)

	_, err := newReceiptUseCase(store).Create(context.Background(), "", dto.CreateGoodsReceiptRequest{
		SupplierID: seedSupplier(store),
		Lines:      []dto.GoodsReceiptLineRequest{{ProductID: productID, Quantity: 3}},
	})
	require.NoError(t, err)

	p := store.Product(productID)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(30000)))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(39000)))
	assert.Equal(t, 3, p.Stock)
}

func TestReceipt_ConOrdenAcumulaRecibidoYActualizaEstado(t *testing.T) {
	store := testutil.NewStore()
	productA := seedProduct(store, 0)
	productB := seedProduct(store, 0)
	supplierID := seedSupplier(store)
	orderID := uuid.NewString()
	store.SeedPurchaseOrder(entity.PurchaseOrder{
		ID:         orderID,
		Number:     "OC-000001",
		SupplierID: supplierID,
		OrderDate:  time.Now(),
		Status:     entity.POStatusPending,
		Lines: []entity.PurchaseOrderLine{
			{ID: uuid.NewString(), OrderID: orderID, ProductID: productA, OrderedQty: 10},
			{ID: uuid.NewString(), OrderID: orderID, ProductID: productB, OrderedQty: 4},
		},
	})
	uc := newReceiptUseCase(store)

	_, err := uc.Create(context.Background(), "", dto.CreateGoodsReceiptRequest{
		SupplierID:      supplierID,
		PurchaseOrderID: &orderID,
		Lines:           []dto.GoodsReceiptLineRequest{{ProductID: productA, Quantity: 6}},
	})
	require.NoError(t, err)
	po := store.PurchaseOrder(orderID)
	assert.Equal(t, entity.POStatusPartial, po.Status)

	// Un producto que no está en la orden suma stock pero no toca las líneas.
	extra := seedProduct(store, 0)
	_, err = uc.Create(context.Background(), "", dto.CreateGoodsReceiptRequest{
		SupplierID:      supplierID,
		PurchaseOrderID: &orderID,
		Lines: []dto.GoodsReceiptLineRequest{
			{ProductID: productA, Quantity: 4},
			{ProductID: productB, Quantity: 4},
			{ProductID: extra, Quantity: 2},
		},
	})
	require.NoError(t, err)

	po = store.PurchaseOrder(orderID)
	assert.Equal(t, entity.POStatusComplete, po.Status)
	for _, l := range po.Lines {
		assert.True(t, l.IsComplete(), l.ProductID)
	}
	assert.Equal(t, 2, store.Product(extra).Stock)
}

func TestReceipt_ProductoInexistenteRevierteTodo(t *testing.T) {
	store := testutil.NewStore()
	productID := seedProduct(store, 5)

	_, err := newReceiptUseCase(store).Create(context.Background(), "", dto.CreateGoodsReceiptRequest{
		SupplierID: seedSupplier(store),
		Lines: []dto.GoodsReceiptLineRequest{
			{ProductID: productID, Quantity: 10, UnitCost: decPtr(40000)},
			{ProductID: uuid.NewString(), Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	p := store.Product(productID)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(30000)))
	assert.Empty(t, store.MovementsOf(productID))
}

func TestReceipt_NumeroDuplicado(t *testing.T) {
	store := testutil.NewStore()
	productID := seedProduct(store, 0)
	supplierID := seedSupplier(store)
	uc := newReceiptUseCase(store)
	req := dto.CreateGoodsReceiptRequest{
		Number:     "REM-778",
		SupplierID: supplierID,
		Lines:      []dto.GoodsReceiptLineRequest{{ProductID: productID, Quantity: 1}},
	}

	_, err := uc.Create(context.Background(), "", req)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "", req)
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 1, store.Product(productID).Stock)
}

func TestReceipt_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	uc := newReceiptUseCase(store)
	productID := seedProduct(store, 0)

	_, err := uc.Create(context.Background(), "", dto.CreateGoodsReceiptRequest{
		Lines: []dto.GoodsReceiptLineRequest{{ProductID: productID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "", dto.CreateGoodsReceiptRequest{
		SupplierID: seedSupplier(store),
		Lines:      []dto.GoodsReceiptLineRequest{{ProductID: productID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "", dto.CreateGoodsReceiptRequest{
		SupplierID: uuid.NewString(),
		Lines:      []dto.GoodsReceiptLineRequest{{ProductID: productID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
