package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
	"github.com/jhoicas/ferreteria-api/pkg/phone"
)

func newCustomerUseCase(store *testutil.Store) *billing.CustomerUseCase {
	return billing.NewCustomerUseCase(store.Customers(), phone.NewNormalizer("PY"))
}

func TestCustomer_CreaYNormalizaTelefono(t *testing.T) {
	uc := newCustomerUseCase(testutil.NewStore())

	out, err := uc.Create(context.Background(), dto.CustomerRequest{
		DocumentType:   "RUC",
		DocumentNumber: " 80012345-6 ",
		Name:           "Constructora del Este",
		Phone:          "0981 123456",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentTypeRUC, out.DocumentType)
	require.NotNil(t, out.DocumentNumber)
	assert.Equal(t, "80012345-6", *out.DocumentNumber)
	assert.Equal(t, "+595981123456", out.Phone)
	assert.True(t, out.Active)
	assert.Zero(t, out.TotalPurchases)
}

func TestCustomer_TelefonoNoInterpretableSeConserva(t *testing.T) {
	uc := newCustomerUseCase(testutil.NewStore())

	out, err := uc.Create(context.Background(), dto.CustomerRequest{Name: "Juan", Phone: "interno 12"})
	require.NoError(t, err)
	assert.Equal(t, "interno 12", out.Phone)
	assert.Equal(t, entity.DocumentTypeNone, out.DocumentType)
	assert.Nil(t, out.DocumentNumber)
}

func TestCustomer_DocumentoDuplicado(t *testing.T) {
	uc := newCustomerUseCase(testutil.NewStore())
	req := dto.CustomerRequest{DocumentType: "cedula", DocumentNumber: "4567890", Name: "María Benítez"}

	_, err := uc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrDuplicate)
	var dupErr *domain.DuplicateKeyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "document_number", dupErr.Field)
}

func TestCustomer_ActualizarConSuPropioDocumento(t *testing.T) {
	uc := newCustomerUseCase(testutil.NewStore())
	created, err := uc.Create(context.Background(), dto.CustomerRequest{DocumentType: "cedula", DocumentNumber: "111222", Name: "Pedro"})
	require.NoError(t, err)

	inactive := false
	updated, err := uc.Update(context.Background(), created.ID, dto.CustomerRequest{
		DocumentType:   "cedula",
		DocumentNumber: "111222",
		Name:           "Pedro Gómez",
		Active:         &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pedro Gómez", updated.Name)
	assert.False(t, updated.Active)

	_, err = uc.Update(context.Background(), "no-existe", dto.CustomerRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomer_DesdeFacturaExigeDocumento(t *testing.T) {
	uc := newCustomerUseCase(testutil.NewStore())

	_, err := uc.CreateFromInvoice(context.Background(), dto.CustomerRequest{Name: "Sin documento"})
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "document_number", valErr.Field)

	out, err := uc.CreateFromInvoice(context.Background(), dto.CustomerRequest{
		DocumentType:   "ruc",
		DocumentNumber: "80099887-1",
		Name:           "Taller Ñandutí",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
}

func TestCustomer_BuscarPorDocumento(t *testing.T) {
	uc := newCustomerUseCase(testutil.NewStore())
	_, err := uc.Create(context.Background(), dto.CustomerRequest{DocumentType: "cedula", DocumentNumber: "998877", Name: "Ana"})
	require.NoError(t, err)

	found, err := uc.ByDocument(context.Background(), "998877")
	require.NoError(t, err)
	assert.True(t, found.Found)
	require.NotNil(t, found.Customer)
	assert.Equal(t, "Ana", found.Customer.Name)

	missing, err := uc.ByDocument(context.Background(), "000000")
	require.NoError(t, err)
	assert.False(t, missing.Found)
	assert.Nil(t, missing.Customer)

	_, err = uc.ByDocument(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomer_DropdownIncluyeDocumento(t *testing.T) {
	uc := newCustomerUseCase(testutil.NewStore())
	_, err := uc.Create(context.Background(), dto.CustomerRequest{DocumentType: "cedula", DocumentNumber: "123", Name: "Luis"})
	require.NoError(t, err)
	inactive := false
	_, err = uc.Create(context.Background(), dto.CustomerRequest{Name: "Inactivo", Active: &inactive})
	require.NoError(t, err)

	items, err := uc.Dropdown(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Luis (123)", items[0].Name)
}
