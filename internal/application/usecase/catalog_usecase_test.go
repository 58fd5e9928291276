package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
)

func TestCategory_NombreEnMayusculasYUnico(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewCategoryUseCase(store.Categories())

	out, err := uc.Create(context.Background(), dto.CategoryRequest{Name: "  pinturas   y barnices "})
	require.NoError(t, err)
	assert.Equal(t, "PINTURAS Y BARNICES", out.Name)

	_, err = uc.Create(context.Background(), dto.CategoryRequest{Name: "Pinturas y barnices"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(context.Background(), dto.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategory_SubcategoriasYBorradoConProductos(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewCategoryUseCase(store.Categories())
	cat, err := uc.Create(context.Background(), dto.CategoryRequest{Name: "Plomería"})
	require.NoError(t, err)

	sub, err := uc.CreateSubcategory(context.Background(), dto.SubcategoryRequest{Name: "caños", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, "CAÑOS", sub.Name)

	_, err = uc.CreateSubcategory(context.Background(), dto.SubcategoryRequest{Name: "Caños", CategoryID: cat.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	subs, err := uc.ListSubcategories(context.Background(), cat.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	products := newProductUseCase(store)
	_, err = products.Create(context.Background(), "", dto.CreateProductRequest{
		Name:          "Codo 90",
		CategoryID:    cat.ID,
		SubcategoryID: &sub.ID,
		Cost:          decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), cat.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProduct_SubcategoriaDeOtraCategoria(t *testing.T) {
	store := testutil.NewStore()
	categories := usecase.NewCategoryUseCase(store.Categories())
	a, err := categories.Create(context.Background(), dto.CategoryRequest{Name: "A"})
	require.NoError(t, err)
	b, err := categories.Create(context.Background(), dto.CategoryRequest{Name: "B"})
	require.NoError(t, err)
	sub, err := categories.CreateSubcategory(context.Background(), dto.SubcategoryRequest{Name: "sub", CategoryID: a.ID})
	require.NoError(t, err)

	_, err = newProductUseCase(store).Create(context.Background(), "", dto.CreateProductRequest{
		Name:          "X",
		CategoryID:    b.ID,
		SubcategoryID: &sub.ID,
	})
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "subcategory_id", valErr.Field)
}

func TestSupplier_UnSoloProveedorPrincipal(t *testing.T) {
	store := testutil.NewStore()
	suppliers := usecase.NewSupplierUseCase(store, store.Suppliers())
	product, err := newProductUseCase(store).Create(context.Background(), "", dto.CreateProductRequest{Name: "Taladro", Cost: decimal.NewFromInt(300000)})
	require.NoError(t, err)

	s1, err := suppliers.Create(context.Background(), dto.SupplierRequest{Name: "Importadora Sur", TaxID: "80011111-1"})
	require.NoError(t, err)
	s2, err := suppliers.Create(context.Background(), dto.SupplierRequest{Name: "Mayorista Central"})
	require.NoError(t, err)

	first, err := suppliers.CreateProductSupplier(context.Background(), dto.ProductSupplierRequest{
		ProductID: product.ID, SupplierID: s1.ID, PurchasePrice: decimal.NewFromInt(290000), IsPrimary: true,
	})
	require.NoError(t, err)
	require.NotNil(t, store.Product(product.ID).PrimarySupplierID)
	assert.Equal(t, s1.ID, *store.Product(product.ID).PrimarySupplierID)

	_, err = suppliers.CreateProductSupplier(context.Background(), dto.ProductSupplierRequest{
		ProductID: product.ID, SupplierID: s2.ID, PurchasePrice: decimal.NewFromInt(280000), IsPrimary: true,
	})
	require.NoError(t, err)

	links, err := suppliers.ListProductSuppliers(context.Background(), product.ID, "")
	require.NoError(t, err)
	require.Len(t, links, 2)
	primaries := 0
	for _, l := range links {
		if l.IsPrimary {
			primaries++
			assert.Equal(t, s2.ID, l.SupplierID)
		}
		if l.ID == first.ID {
			assert.False(t, l.IsPrimary)
		}
	}
	assert.Equal(t, 1, primaries)
	assert.Equal(t, s2.ID, *store.Product(product.ID).PrimarySupplierID)

	_, err = suppliers.CreateProductSupplier(context.Background(), dto.ProductSupplierRequest{
		ProductID: product.ID, SupplierID: s1.ID, PurchasePrice: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupplier_DropdownSoloActivos(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewSupplierUseCase(store, store.Suppliers())
	inactive := false
	_, err := uc.Create(context.Background(), dto.SupplierRequest{Name: "Activo", TaxID: "123-4"})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), dto.SupplierRequest{Name: "Dado de baja", Active: &inactive})
	require.NoError(t, err)

	items, err := uc.Dropdown(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Activo", items[0].Name)
	assert.Equal(t, "123-4", items[0].TaxID)

	_, err = uc.Update(context.Background(), "no-existe", dto.SupplierRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
