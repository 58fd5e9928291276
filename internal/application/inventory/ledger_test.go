package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
)

func seedProduct(store *testutil.Store, stock int) string {
	id := uuid.NewString()
	store.SeedProduct(entity.Product{
		ID:     id,
		Name:   "LLAVE FRANCESA 10",
		Cost:   decimal.NewFromInt(30000),
		Price:  decimal.NewFromInt(39000),
		Stock:  stock,
		Active: true,
	})
	return id
}

func record(t *testing.T, store *testutil.Store, ledger *inventory.Ledger, in inventory.MovementInput) (int, error) {
	t.Helper()
	var stock int
	err := store.Run(context.Background(), func(tx repository.Tx) error {
		var err error
		_, stock, err = ledger.RecordMovement(context.Background(), tx, in)
		return err
	})
	return stock, err
}

func TestLedger_EntradaYSalida(t *testing.T) {
	store := testutil.NewStore()
	ledger := inventory.NewLedger()
	id := seedProduct(store, 5)

	stock, err := record(t, store, ledger, inventory.MovementInput{ProductID: id, Type: entity.MovementTypeIn, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, stock)

	stock, err = record(t, store, ledger, inventory.MovementInput{ProductID: id, Type: entity.MovementTypeOut, Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	assert.Equal(t, 0, store.Product(id).Stock)
	movs := store.MovementsOf(id)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.ReferenceManual, m.ReferenceType)
	}
}

func TestLedger_SalidaSinStockNoModificaNada(t *testing.T) {
	store := testutil.NewStore()
	ledger := inventory.NewLedger()
	id := seedProduct(store, 2)

	_, err := record(t, store, ledger, inventory.MovementInput{ProductID: id, Type: entity.MovementTypeOut, Quantity: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, id, stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	assert.Equal(t, 2, store.Product(id).Stock)
	assert.Empty(t, store.MovementsOf(id))
}

func TestLedger_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	ledger := inventory.NewLedger()
	id := seedProduct(store, 1)

	tests := []struct {
		name  string
		in    inventory.MovementInput
		field string
	}{
		{"cantidad cero", inventory.MovementInput{ProductID: id, Type: entity.MovementTypeIn, Quantity: 0}, "quantity"},
		{"cantidad negativa", inventory.MovementInput{ProductID: id, Type: entity.MovementTypeOut, Quantity: -1}, "quantity"},
		{"tipo desconocido", inventory.MovementInput{ProductID: id, Type: "ajuste", Quantity: 1}, "type"},
		{"sin producto", inventory.MovementInput{Type: entity.MovementTypeIn, Quantity: 1}, "product_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := record(t, store, ledger, tt.in)
			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
	assert.Equal(t, 1, store.Product(id).Stock)
}

func TestLedger_ProductoInexistente(t *testing.T) {
	store := testutil.NewStore()
	ledger := inventory.NewLedger()

	for _, typ := range []string{entity.MovementTypeIn, entity.MovementTypeOut} {
		_, err := record(t, store, ledger, inventory.MovementInput{ProductID: uuid.NewString(), Type: typ, Quantity: 1})
		assert.True(t, errors.Is(err, domain.ErrNotFound), typ)
	}
}

// El stock final es siempre el inicial más entradas menos salidas aceptadas.
func TestLedger_StockIgualASumaDeMovimientos(t *testing.T) {
	store := testutil.NewStore()
	ledger := inventory.NewLedger()
	const initial = 20
	id := seedProduct(store, initial)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		typ := entity.MovementTypeIn
		if rng.Intn(2) == 0 {
			typ = entity.MovementTypeOut
		}
		_, err := record(t, store, ledger, inventory.MovementInput{ProductID: id, Type: typ, Quantity: 1 + rng.Intn(9)})
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
		require.GreaterOrEqual(t, store.Product(id).Stock, 0)
	}

	expected := initial
	for _, m := range store.MovementsOf(id) {
		if m.Type == entity.MovementTypeIn {
			expected += m.Quantity
		} else {
			expected -= m.Quantity
		}
	}
	assert.Equal(t, expected, store.Product(id).Stock)
}

func TestRegisterMovement_DevuelveStockResultante(t *testing.T) {
	store := testutil.NewStore()
	id := seedProduct(store, 4)
	uc := inventory.NewRegisterMovementUseCase(store, inventory.NewLedger(), store.Movements())

	out, err := uc.RegisterMovement(context.Background(), "user-1", dto.CreateMovementRequest{ProductID: id, Type: entity.MovementTypeOut, Quantity: 3})
	require.NoError(t, err)
	require.NotNil(t, out.StockAfter)
	assert.Equal(t, 1, *out.StockAfter)

	_, err = uc.RegisterMovement(context.Background(), "user-1", dto.CreateMovementRequest{ProductID: id, Type: entity.MovementTypeOut, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, store.Product(id).Stock)
}
