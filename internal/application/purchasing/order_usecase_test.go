package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/purchasing"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

var hoy = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

func seedSupplier(store *testutil.Store) string {
	id := uuid.NewString()
	store.SeedSupplier(entity.Supplier{ID: id, Name: "DISTRIBUIDORA NORTE", Active: true})
	return id
}

func seedProduct(store *testutil.Store) string {
	id := uuid.NewString()
	store.SeedProduct(entity.Product{
		ID:     id,
		Name:   "CAÑO PVC 100MM",
		Cost:   decimal.NewFromInt(45000),
		Price:  decimal.NewFromInt(58500),
		Active: true,
	})
	return id
}

func newOrderUseCase(store *testutil.Store) *purchasing.OrderUseCase {
	return purchasing.NewOrderUseCase(store, store.PurchaseOrders(), logger.Nop()).
		WithClock(func() time.Time { return hoy })
}

func TestOrder_CreaConCorrelativoYTotalEstimado(t *testing.T) {
	store := testutil.NewStore()
	supplierID := seedSupplier(store)
	a, b := seedProduct(store), seedProduct(store)
	uc := newOrderUseCase(store)

	out, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines: []dto.PurchaseOrderLineRequest{
			{ProductID: a, Quantity: 10, UnitPrice: decimal.NewFromInt(45000)},
			{ProductID: b, Quantity: 3, UnitPrice: decimal.RequireFromString("1250.50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "OC-000001", out.Number)
	assert.Equal(t, entity.POStatusPending, out.Status)
	assert.True(t, out.EstimatedTotal.Equal(decimal.RequireFromString("453751.50")), "total: %s", out.EstimatedTotal)
	assert.True(t, out.OrderDate.Equal(out.ExpectedDate.Time))
	require.Len(t, out.Lines, 2)
	assert.Equal(t, 10, out.Lines[0].PendingQty)
	assert.False(t, out.Lines[0].IsComplete)

	second, err := uc.Create(context.Background(), "", dto.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines:      []dto.PurchaseOrderLineRequest{{ProductID: a, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "OC-000002", second.Number)
}

func TestOrder_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	supplierID := seedSupplier(store)
	productID := seedProduct(store)
	uc := newOrderUseCase(store)
	ayer := dto.Date{Time: hoy.AddDate(0, 0, -1)}

	tests := []struct {
		name  string
		req   dto.CreatePurchaseOrderRequest
		field string
	}{
		{"sin proveedor", dto.CreatePurchaseOrderRequest{Lines: []dto.PurchaseOrderLineRequest{{ProductID: productID, Quantity: 1}}}, "supplier_id"},
		{"sin líneas", dto.CreatePurchaseOrderRequest{SupplierID: supplierID}, "lines"},
		{"cantidad cero", dto.CreatePurchaseOrderRequest{SupplierID: supplierID, Lines: []dto.PurchaseOrderLineRequest{{ProductID: productID}}}, "lines[0].quantity"},
		{"fecha esperada anterior", dto.CreatePurchaseOrderRequest{
			SupplierID:   supplierID,
			ExpectedDate: &ayer,
			Lines:        []dto.PurchaseOrderLineRequest{{ProductID: productID, Quantity: 1}},
		}, "expected_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "", tt.req)
			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}

	_, err := uc.Create(context.Background(), "", dto.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines:      []dto.PurchaseOrderLineRequest{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrder_TransicionesDeEstado(t *testing.T) {
	store := testutil.NewStore()
	uc := newOrderUseCase(store)
	created, err := uc.Create(context.Background(), "", dto.CreatePurchaseOrderRequest{
		SupplierID: seedSupplier(store),
		Lines:      []dto.PurchaseOrderLineRequest{{ProductID: seedProduct(store), Quantity: 5}},
	})
	require.NoError(t, err)

	out, err := uc.UpdateStatus(context.Background(), created.ID, dto.UpdatePurchaseOrderStatusRequest{Status: entity.POStatusPartial})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartial, out.Status)

	_, err = uc.UpdateStatus(context.Background(), created.ID, dto.UpdatePurchaseOrderStatusRequest{Status: entity.POStatusPending})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	out, err = uc.UpdateStatus(context.Background(), created.ID, dto.UpdatePurchaseOrderStatusRequest{Status: entity.POStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, out.Status)

	_, err = uc.UpdateStatus(context.Background(), created.ID, dto.UpdatePurchaseOrderStatusRequest{Status: entity.POStatusComplete})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, entity.POStatusCancelled, store.PurchaseOrder(created.ID).Status)

	_, err = uc.UpdateStatus(context.Background(), created.ID, dto.UpdatePurchaseOrderStatusRequest{Status: "aprobada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateStatus(context.Background(), uuid.NewString(), dto.UpdatePurchaseOrderStatusRequest{Status: entity.POStatusComplete})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrder_ListaPorEstado(t *testing.T) {
	store := testutil.NewStore()
	uc := newOrderUseCase(store)
	supplierID := seedSupplier(store)
	productID := seedProduct(store)
	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), "", dto.CreatePurchaseOrderRequest{
			SupplierID: supplierID,
			Lines:      []dto.PurchaseOrderLineRequest{{ProductID: productID, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	list, err := uc.List(context.Background(), dto.PurchaseOrderListQuery{Status: entity.POStatusPending})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = uc.List(context.Background(), dto.PurchaseOrderListQuery{Status: entity.POStatusComplete})
	require.NoError(t, err)
	assert.Empty(t, list)
}
