package analytics_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	dombilling "github.com/jhoicas/ferreteria-api/internal/domain/billing"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// memCache guarda los valores serializados, igual que el caché en Redis.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets chan string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, sets: make(chan string, 16)}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	select {
	case c.sets <- key:
	default:
	}
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Ping(context.Context) error { return nil }

func newDashboard(store *testutil.Store, cache ports.Cache) *appanalytics.DashboardUseCase {
	return appanalytics.NewDashboardUseCase(
		store.Analytics(), store.Invoices(), store.Products(), store.PurchaseInvoices(),
		cache, nil, logger.Nop(), time.Minute,
	)
}

func seedProduct(store *testutil.Store, name string, stock, minStock int) string {
	id := uuid.NewString()
	store.SeedProduct(entity.Product{
		ID:       id,
		Name:     name,
		Cost:     decimal.NewFromInt(7000),
		Price:    decimal.NewFromInt(10000),
		Stock:    stock,
		MinStock: minStock,
		Active:   true,
	})
	return id
}

func sell(t *testing.T, store *testutil.Store, productID string, qty int) {
	t.Helper()
	_, err := billing.NewCreateInvoiceUseCase(store, inventory.NewLedger(), nil, logger.Nop(), dombilling.DefaultTaxRate).
		CreateInvoice(context.Background(), "", dto.CreateInvoiceRequest{
			Lines: []dto.InvoiceLineRequest{{ProductID: productID, Quantity: qty}},
		})
	require.NoError(t, err)
}

func TestDashboard_ResumenDelDia(t *testing.T) {
	store := testutil.NewStore()
	sold := seedProduct(store, "TORNILLO 8X1", 20, 5)
	seedProduct(store, "ARANDELA 8", 2, 5)
	sell(t, store, sold, 3)

	supplierID := uuid.NewString()
	store.SeedSupplier(entity.Supplier{ID: supplierID, Name: "DISTRIBUIDORA NORTE", Active: true})
	due := time.Now().AddDate(0, 0, -5)
	store.SeedPurchaseInvoice(entity.PurchaseInvoice{
		ID:         uuid.NewString(),
		Number:     "001-001-0000099",
		SupplierID: supplierID,
		IssueDate:  time.Now().AddDate(0, 0, -35),
		DueDate:    &due,
		Type:       entity.PurchaseInvoiceTypeCredit,
		Status:     entity.PurchaseInvoiceStatusPending,
		Subtotal:   decimal.NewFromInt(500000),
		Total:      decimal.NewFromInt(500000),
	})

	summary, err := newDashboard(store, nil).GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.TodaySales.Equal(decimal.NewFromInt(30000)), "ventas: %s", summary.TodaySales)
	assert.True(t, summary.TodayMargin.Equal(decimal.NewFromInt(9000)), "margen: %s", summary.TodayMargin)
	assert.Equal(t, 1, summary.TodayInvoices)
	assert.True(t, summary.MonthlySales.Equal(decimal.NewFromInt(30000)))

	require.Len(t, summary.TopProducts, 1)
	top := summary.TopProducts[0]
	assert.Equal(t, sold, top.ProductID)
	assert.Equal(t, 3, top.QuantitySold)
	assert.True(t, top.MarginPercentage.Equal(decimal.NewFromInt(30)), "margen %%: %s", top.MarginPercentage)

	assert.Equal(t, 1, summary.LowStockCount)
	require.Len(t, summary.LowStockItems, 1)
	assert.Equal(t, "ARANDELA 8", summary.LowStockItems[0].Name)
	assert.Equal(t, 3, summary.LowStockItems[0].Missing)

	assert.Equal(t, 1, summary.Payables.OverdueCount)
	assert.True(t, summary.Payables.OverdueAmount.Equal(decimal.NewFromInt(500000)))
	assert.NotEmpty(t, summary.DateLabel)
}

func TestDashboard_SinVentas(t *testing.T) {
	summary, err := newDashboard(testutil.NewStore(), nil).GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TodaySales.IsZero())
	assert.Empty(t, summary.TopProducts)
	assert.Zero(t, summary.LowStockCount)
	assert.Zero(t, summary.Payables.OverdueCount)
}

func TestDashboard_LeeDeCacheHastaRefrescar(t *testing.T) {
	store := testutil.NewStore()
	productID := seedProduct(store, "CANDADO", 10, 0)
	cache := newMemCache()
	uc := newDashboard(store, cache)

	first, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, first.TodaySales.IsZero())

	sell(t, store, productID, 1)

	cached, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, cached.TodaySales.IsZero(), "debería servirse desde caché")

	fresh, err := uc.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, fresh.TodaySales.Equal(decimal.NewFromInt(10000)))

	again, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, again.TodaySales.Equal(decimal.NewFromInt(10000)))
}

func TestDashboard_RefrescadorPeriodico(t *testing.T) {
	cache := newMemCache()
	uc := newDashboard(testutil.NewStore(), cache)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.RunRefresher(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case key := <-cache.sets:
		assert.Equal(t, ports.CacheKeyDashboardSummary, key)
	case <-time.After(2 * time.Second):
		t.Fatal("el refrescador no guardó el resumen")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("el refrescador no terminó al cancelar el contexto")
	}
}
