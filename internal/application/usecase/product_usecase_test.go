package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func newProductUseCase(store *testutil.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(store, store.Products(), inventory.NewLedger(), nil, logger.Nop(), decimal.Zero, 0)
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProduct_AltaConStockInicialYPrecioPorMarkup(t *testing.T) {
	store := testutil.NewStore()
	uc := newProductUseCase(store)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		Code:         strPtr(" MAR-01 "),
		Name:         "Martillo carpintero",
		CategoryName: "herramientas  manuales",
		Cost:         decimal.RequireFromString("33333"),
		InitialStock: 7,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Code)
	assert.Equal(t, "MAR-01", *out.Code)
	assert.Equal(t, 7, out.Stock)
	assert.True(t, out.Price.Equal(decimal.RequireFromString("43332.9")), "precio: %s", out.Price)

	movs := store.MovementsOf(out.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, 7, movs[0].Quantity)
	assert.Equal(t, entity.ReferenceInitialStock, movs[0].ReferenceType)

	cats, err := store.Categories().List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "HERRAMIENTAS MANUALES", cats[0].Name)
	assert.Equal(t, cats[0].ID, out.CategoryID)
}

func TestProduct_AltaSinStockNoRegistraMovimiento(t *testing.T) {
	store := testutil.NewStore()
	out, err := newProductUseCase(store).Create(context.Background(), "", dto.CreateProductRequest{
		Name:  "Pinza universal",
		Cost:  decimal.NewFromInt(20000),
		Price: decPtr("31000"),
	})
	require.NoError(t, err)
	assert.Zero(t, out.Stock)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(31000)))
	assert.Empty(t, store.MovementsOf(out.ID))

	cat, err := store.Categories().GetByID(context.Background(), out.CategoryID)
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, entity.DefaultCategoryName, cat.Name)
}

// brokenCache falla al invalidar, como un Redis caído.
type brokenCache struct{ ports.NoopCache }

func (brokenCache) Delete(context.Context, ...string) error {
	return errors.New("redis: connection refused")
}

func TestProduct_FalloDeCacheSeRegistraSinCortarElAlta(t *testing.T) {
	store := testutil.NewStore()
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})
	uc := usecase.NewProductUseCase(store, store.Products(), inventory.NewLedger(), brokenCache{}, log, decimal.Zero, 0)

	out, err := uc.Create(context.Background(), "", dto.CreateProductRequest{
		Name:  "Nivel de burbuja",
		Cost:  decimal.NewFromInt(15000),
		Price: decPtr("22000"),
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Contains(t, buf.String(), "no se pudo invalidar")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestProduct_AltaRapidaRedondeaYReusaCategoria(t *testing.T) {
	store := testutil.NewStore()
	existing := uuid.NewString()
	store.SeedCategory(entity.Category{ID: existing, Name: "ELECTRICOS"})

	out, err := newProductUseCase(store).QuickCreate(context.Background(), "", dto.QuickProductRequest{
		Name:         "Cinta aisladora",
		CategoryName: "eléctricos",
		Cost:         decimal.RequireFromString("33333"),
		InitialStock: 2,
	})
	require.NoError(t, err)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(43333)), "precio: %s", out.Price)
	assert.Equal(t, existing, out.CategoryID)
	assert.Equal(t, 2, out.Stock)

	cats, err := store.Categories().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestProduct_CodigoDuplicado(t *testing.T) {
	store := testutil.NewStore()
	uc := newProductUseCase(store)
	req := dto.CreateProductRequest{Code: strPtr("TOR-8"), Name: "Tornillo 8", Cost: decimal.NewFromInt(100)}

	first, err := uc.Create(context.Background(), "", req)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "", req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	other, err := uc.Create(context.Background(), "", dto.CreateProductRequest{Name: "Tornillo 10", Cost: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = uc.Update(context.Background(), other.ID, dto.UpdateProductRequest{Code: strPtr("TOR-8")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Conservar el propio código no es un duplicado.
	_, err = uc.Update(context.Background(), first.ID, dto.UpdateProductRequest{Code: strPtr("TOR-8")})
	assert.NoError(t, err)
}

func TestProduct_ModificarNoTocaStock(t *testing.T) {
	store := testutil.NewStore()
	uc := newProductUseCase(store)
	created, err := uc.Create(context.Background(), "", dto.CreateProductRequest{
		Name:         "Llave inglesa",
		Cost:         decimal.NewFromInt(30000),
		InitialStock: 4,
	})
	require.NoError(t, err)

	out, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Name: strPtr("Llave inglesa 12"),
		Cost: decPtr("40000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Llave inglesa 12", out.Name)
	assert.Equal(t, 4, out.Stock)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(52000)), "precio: %s", out.Price)
	assert.Len(t, store.MovementsOf(created.ID), 1)

	out, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Cost: decPtr("50000"), Price: decPtr("60000")})
	require.NoError(t, err)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(60000)))

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Name: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(context.Background(), uuid.NewString(), dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_EliminarConHistorialEsConflicto(t *testing.T) {
	store := testutil.NewStore()
	uc := newProductUseCase(store)

	withStock, err := uc.Create(context.Background(), "", dto.CreateProductRequest{Name: "Serrucho", Cost: decimal.NewFromInt(1), InitialStock: 1})
	require.NoError(t, err)
	err = uc.Delete(context.Background(), withStock.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotNil(t, store.Product(withStock.ID))

	clean, err := uc.Create(context.Background(), "", dto.CreateProductRequest{Name: "Lija", Cost: decimal.NewFromInt(1)})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(context.Background(), clean.ID))
	_, err = uc.Get(context.Background(), clean.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_Validaciones(t *testing.T) {
	uc := newProductUseCase(testutil.NewStore())

	tests := []struct {
		name  string
		req   dto.CreateProductRequest
		field string
	}{
		{"sin nombre", dto.CreateProductRequest{Name: " "}, "name"},
		{"costo negativo", dto.CreateProductRequest{Name: "X", Cost: decimal.NewFromInt(-1)}, "cost"},
		{"precio negativo", dto.CreateProductRequest{Name: "X", Price: decPtr("-5")}, "price"},
		{"stock inicial negativo", dto.CreateProductRequest{Name: "X", InitialStock: -1}, "initial_stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "", tt.req)
			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}
