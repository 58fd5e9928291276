package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/purchasing"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	dombilling "github.com/jhoicas/ferreteria-api/internal/domain/billing"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/export"
	apphttp "github.com/jhoicas/ferreteria-api/internal/interfaces/http"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
	"github.com/jhoicas/ferreteria-api/pkg/phone"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// newServer arma el servidor completo sobre el almacén en memoria.
func newServer(t *testing.T, store *testutil.Store, db apphttp.Pinger) *fiber.App {
	t.Helper()
	ledger := inventory.NewLedger()
	exporter := export.NewExcelExporter()
	log := logger.Nop()

	return apphttp.NewServer(apphttp.RouterDeps{
		ProductUC:        usecase.NewProductUseCase(store, store.Products(), ledger, nil, log, decimal.Zero, 0),
		CategoryUC:       usecase.NewCategoryUseCase(store.Categories()),
		SupplierUC:       usecase.NewSupplierUseCase(store, store.Suppliers()),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, ledger, store.Movements()),
		Receipts:         inventory.NewReceiptUseCase(store, ledger, store.GoodsReceipts(), nil, log, decimal.Zero),
		Replenishment:    inventory.NewReplenishmentUseCase(ledger, store.Products(), store.Suppliers(), exporter),
		CustomerUC:       billing.NewCustomerUseCase(store.Customers(), phone.NewNormalizer("PY")),
		CreateInvoice:    billing.NewCreateInvoiceUseCase(store, ledger, nil, log, dombilling.DefaultTaxRate),
		InvoiceQuery:     billing.NewInvoiceQueryUseCase(store.Invoices(), store.Products(), store.Categories(), nil),
		PurchaseOrders:   purchasing.NewOrderUseCase(store, store.PurchaseOrders(), log),
		PurchaseInvoices: purchasing.NewInvoiceUseCase(store, store.PurchaseInvoices(), nil, exporter, nil, log),
		DashboardUC: appanalytics.NewDashboardUseCase(
			store.Analytics(), store.Invoices(), store.Products(), store.PurchaseInvoices(),
			nil, nil, log, time.Minute,
		),
		JWTSecret: testJWTSecret,
		AppName:   "ferreteria-api-test",
		Log:       log,
		DB:        db,
	})
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seedTornillo(store *testutil.Store, stock int) string {
	id := uuid.NewString()
	store.SeedProduct(entity.Product{
		ID:     id,
		Name:   "TORNILLO 8X1",
		Cost:   decimal.NewFromInt(7000),
		Price:  decimal.NewFromInt(10000),
		Stock:  stock,
		Active: true,
	})
	return id
}

func TestServer_CrearProductoRegistraStockInicial(t *testing.T) {
	store := testutil.NewStore()
	app := newServer(t, store, nil)

	resp := call(t, app, http.MethodPost, "/api/products", apphttp.RoleAdmin, map[string]any{
		"name":          "Martillo carpintero",
		"category_name": "herramientas",
		"cost":          "50000",
		"initial_stock": 5,
		"min_stock":     2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 5, created.Stock)

	resp = call(t, app, http.MethodGet, "/api/products/"+created.ID, apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Martillo carpintero", got.Name)
	assert.Equal(t, 5, got.Stock)

	movs := store.MovementsOf(created.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
}

func TestServer_ValidacionDevuelveCampos(t *testing.T) {
	app := newServer(t, testutil.NewStore(), nil)

	resp := call(t, app, http.MethodPost, "/api/products", apphttp.RoleAdmin, map[string]any{"cost": "100"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "name")
}

func TestServer_ProductoInexistente404(t *testing.T) {
	app := newServer(t, testutil.NewStore(), nil)

	resp := call(t, app, http.MethodGet, "/api/products/"+uuid.NewString(), apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestServer_FacturaDescuentaStock(t *testing.T) {
	store := testutil.NewStore()
	productID := seedTornillo(store, 10)
	app := newServer(t, store, nil)

	resp := call(t, app, http.MethodPost, "/api/invoices", apphttp.RoleVendedor, map[string]any{
		"document_type": "none",
		"customer_name": "Consumidor final",
		"lines":         []map[string]any{{"product_id": productID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)

	assert.Equal(t, "FAC-000001", inv.Number)
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(20000)))
	assert.True(t, inv.TaxTotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(22000)))
	assert.Equal(t, 8, store.Product(productID).Stock)
}

func TestServer_FacturaSinStock409(t *testing.T) {
	store := testutil.NewStore()
	productID := seedTornillo(store, 1)
	app := newServer(t, store, nil)

	resp := call(t, app, http.MethodPost, "/api/invoices", apphttp.RoleVendedor, map[string]any{
		"lines": []map[string]any{{"product_id": productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, productID, body.Fields["product_id"])

	assert.Zero(t, store.InvoiceCount())
	assert.Equal(t, 1, store.Product(productID).Stock)
}

func TestServer_FacturaCompraPagarDosVeces409(t *testing.T) {
	store := testutil.NewStore()
	supplierID := uuid.NewString()
	store.SeedSupplier(entity.Supplier{ID: supplierID, Name: "DISTRIBUIDORA NORTE", Active: true})
	invoiceID := uuid.NewString()
	store.SeedPurchaseInvoice(entity.PurchaseInvoice{
		ID:         invoiceID,
		Number:     "001-001-0000123",
		SupplierID: supplierID,
		IssueDate:  time.Now(),
		Type:       entity.PurchaseInvoiceTypeCash,
		Status:     entity.PurchaseInvoiceStatusPending,
		Subtotal:   decimal.NewFromInt(100000),
		Total:      decimal.NewFromInt(100000),
	})
	app := newServer(t, store, nil)

	resp := call(t, app, http.MethodPost, "/api/purchase-invoices/"+invoiceID+"/mark-paid", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	paid := decode[dto.PurchaseInvoiceResponse](t, resp)
	assert.Equal(t, entity.PurchaseInvoiceStatusPaid, paid.Status)

	resp = call(t, app, http.MethodPost, "/api/purchase-invoices/"+invoiceID+"/mark-paid", apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_STATE_TRANSITION", body.Code)
}

func TestServer_RolesPorGrupo(t *testing.T) {
	app := newServer(t, testutil.NewStore(), nil)

	resp := call(t, app, http.MethodGet, "/api/purchase-invoices", apphttp.RoleVendedor, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/purchase-orders", apphttp.RoleDeposito, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/products", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	resp := call(t, newServer(t, testutil.NewStore(), fakePinger{}), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", body["status"])

	resp = call(t, newServer(t, testutil.NewStore(), fakePinger{err: errors.New("connection refused")}), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body = decode[map[string]any](t, resp)
	assert.Equal(t, "unhealthy", body["status"])
}
