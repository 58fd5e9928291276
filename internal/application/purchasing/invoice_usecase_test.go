package purchasing_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/application/purchasing"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/export"
	"github.com/jhoicas/ferreteria-api/internal/testutil"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

type memStorage struct {
	keys []string
	data map[string][]byte
	err  error
}

func (m *memStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.keys = append(m.keys, key)
	m.data[key] = raw
	return "https://archivos.local/" + key, nil
}

func newInvoiceUseCase(store *testutil.Store, storage ports.FileStorage) *purchasing.InvoiceUseCase {
	return purchasing.NewInvoiceUseCase(store, store.PurchaseInvoices(), storage, export.NewExcelExporter(), nil, logger.Nop()).
		WithClock(func() time.Time { return hoy })
}

func date(days int) *dto.Date {
	d := dto.Date{Time: hoy.AddDate(0, 0, days)}
	return &d
}

func invoiceRequest(supplierID, number string) dto.PurchaseInvoiceRequest {
	return dto.PurchaseInvoiceRequest{
		Number:     number,
		SupplierID: supplierID,
		IssueDate:  *date(0),
		Type:       entity.PurchaseInvoiceTypeCash,
		Lines: []dto.PurchaseInvoiceLineRequest{
			{Description: "Cemento 50kg", Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(50000)},
		},
	}
}

func TestPurchaseInvoice_TotalConDescuentoEImpuestos(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	req := invoiceRequest(seedSupplier(store), "001-001-0004567")
	req.Discount = decimal.NewFromInt(50000)
	req.Tax = decimal.NewFromInt(95000)

	out, err := uc.Create(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseInvoiceStatusPending, out.Status)
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(1000000)), "subtotal: %s", out.Subtotal)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(1045000)), "total: %s", out.Total)
	require.Len(t, out.Lines, 1)
	assert.True(t, out.Lines[0].Subtotal.Equal(decimal.NewFromInt(1000000)))

	// Guardar de nuevo sin cambios no altera el total.
	again, err := uc.Update(context.Background(), out.ID, req)
	require.NoError(t, err)
	assert.True(t, again.Total.Equal(out.Total), "total: %s", again.Total)
}

func TestPurchaseInvoice_SubtotalExplicito(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	req := invoiceRequest(seedSupplier(store), "A-1")
	sub := decimal.NewFromInt(800000)
	req.Subtotal = &sub

	out, err := uc.Create(context.Background(), "", req)
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(sub))

	// Editar sin líneas conserva el subtotal y recalcula el total.
	req.Lines = nil
	req.Subtotal = nil
	req.Tax = decimal.NewFromInt(80000)
	out, err = uc.Update(context.Background(), out.ID, req)
	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(sub))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(880000)), "total: %s", out.Total)
}

func TestPurchaseInvoice_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	supplierID := seedSupplier(store)

	credit := invoiceRequest(supplierID, "C-1")
	credit.Type = entity.PurchaseInvoiceTypeCredit

	dueBefore := invoiceRequest(supplierID, "C-2")
	dueBefore.DueDate = date(-1)

	bigDiscount := invoiceRequest(supplierID, "C-3")
	bigDiscount.Discount = decimal.NewFromInt(2000000)

	noLines := invoiceRequest(supplierID, "C-4")
	noLines.Lines = nil

	badType := invoiceRequest(supplierID, "C-5")
	badType.Type = "contado"

	tests := []struct {
		name  string
		req   dto.PurchaseInvoiceRequest
		field string
	}{
		{"crédito sin vencimiento", credit, "due_date"},
		{"vencimiento anterior a emisión", dueBefore, "due_date"},
		{"descuento mayor al subtotal", bigDiscount, "discount"},
		{"sin líneas", noLines, "lines"},
		{"tipo inválido", badType, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "", tt.req)
			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}

	_, err := uc.Create(context.Background(), "", invoiceRequest(uuid.NewString(), "C-6"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseInvoice_NumeroDuplicado(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	req := invoiceRequest(seedSupplier(store), "001-001-0000001")

	_, err := uc.Create(context.Background(), "", req)
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "", req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// headerOnlyTx simula un adaptador que guarda la cabecera y falla al insertar las líneas.
type headerOnlyTx struct{ *testutil.Store }

func (h headerOnlyTx) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	return h.Store.Run(ctx, func(tx repository.Tx) error { return fn(failingLinesTx{tx}) })
}

type failingLinesTx struct{ repository.Tx }

func (t failingLinesTx) PurchaseInvoices() repository.PurchaseInvoiceRepository {
	return failingLinesRepo{t.Tx.PurchaseInvoices()}
}

type failingLinesRepo struct{ repository.PurchaseInvoiceRepository }

func (r failingLinesRepo) Create(ctx context.Context, inv *entity.PurchaseInvoice) error {
	header := *inv
	header.Lines = nil
	if err := r.PurchaseInvoiceRepository.Create(ctx, &header); err != nil {
		return err
	}
	return fmt.Errorf("insert purchase invoice line: %w", domain.ErrConflict)
}

func (r failingLinesRepo) Update(ctx context.Context, inv *entity.PurchaseInvoice, replaceLines bool) error {
	header := *inv
	header.Lines = nil
	if err := r.PurchaseInvoiceRepository.Update(ctx, &header, replaceLines); err != nil {
		return err
	}
	return fmt.Errorf("insert purchase invoice line: %w", domain.ErrConflict)
}

func TestPurchaseInvoice_FalloEnLineasRevierteCabecera(t *testing.T) {
	store := testutil.NewStore()
	supplierID := seedSupplier(store)
	failing := purchasing.NewInvoiceUseCase(headerOnlyTx{store}, store.PurchaseInvoices(), nil, nil, nil, logger.Nop()).
		WithClock(func() time.Time { return hoy })
	req := invoiceRequest(supplierID, "X-1")

	_, err := failing.Create(context.Background(), "", req)
	assert.ErrorIs(t, err, domain.ErrConflict)
	list, err := store.PurchaseInvoices().List(context.Background(), repository.PurchaseInvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// El reintento no choca con una cabecera huérfana.
	uc := newInvoiceUseCase(store, nil)
	created, err := uc.Create(context.Background(), "", req)
	require.NoError(t, err)

	changed := invoiceRequest(supplierID, "X-1")
	changed.Lines[0].Quantity = decimal.NewFromInt(5)
	_, err = failing.Update(context.Background(), created.ID, changed)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].Quantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, got.Total.Equal(created.Total), "total: %s", got.Total)
}

func TestPurchaseInvoice_ProductoDeLineaInexistente(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	supplierID := seedSupplier(store)

	req := invoiceRequest(supplierID, "L-1")
	req.Lines[0].ProductID = uuid.NewString()
	_, err := uc.Create(context.Background(), "", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(context.Background(), dto.PurchaseInvoiceListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)

	req.Lines[0].ProductID = seedProduct(store)
	out, err := uc.Create(context.Background(), "", req)
	require.NoError(t, err)
	assert.Equal(t, req.Lines[0].ProductID, out.Lines[0].ProductID)
}

func TestPurchaseInvoice_PagoYCancelacionSimultaneos(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	created, err := uc.Create(context.Background(), "", invoiceRequest(seedSupplier(store), "S-1"))
	require.NoError(t, err)

	actions := []func(context.Context, string) (*dto.PurchaseInvoiceResponse, error){uc.MarkPaid, uc.MarkPaid, uc.Cancel, uc.MarkPaid}
	errs := make([]error, len(actions))
	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action func(context.Context, string) (*dto.PurchaseInvoiceResponse, error)) {
			defer wg.Done()
			_, errs[i] = action(context.Background(), created.ID)
		}(i, action)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	}
	assert.Equal(t, 1, ok)
}

func TestPurchaseInvoice_PagarCancelarEliminar(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	supplierID := seedSupplier(store)

	paid, err := uc.Create(context.Background(), "", invoiceRequest(supplierID, "P-1"))
	require.NoError(t, err)
	_, err = uc.MarkPaid(context.Background(), paid.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), paid.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	err = uc.Delete(context.Background(), paid.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = uc.Update(context.Background(), paid.ID, invoiceRequest(supplierID, "P-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	cancelled, err := uc.Create(context.Background(), "", invoiceRequest(supplierID, "P-2"))
	require.NoError(t, err)
	out, err := uc.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseInvoiceStatusCancelled, out.Status)

	_, err = uc.MarkPaid(context.Background(), cancelled.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	require.NoError(t, uc.Delete(context.Background(), cancelled.ID))
	_, err = uc.Get(context.Background(), cancelled.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseInvoice_VencimientoYEstadisticas(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	supplierID := seedSupplier(store)

	overdue := invoiceRequest(supplierID, "V-1")
	overdue.Type = entity.PurchaseInvoiceTypeCredit
	overdue.IssueDate = *date(-40)
	overdue.DueDate = date(-10)

	dueSoon := invoiceRequest(supplierID, "V-2")
	dueSoon.Type = entity.PurchaseInvoiceTypeCredit
	dueSoon.DueDate = date(3)

	far := invoiceRequest(supplierID, "V-3")
	far.Type = entity.PurchaseInvoiceTypeCredit
	far.DueDate = date(30)

	ids := map[string]string{}
	for _, req := range []dto.PurchaseInvoiceRequest{overdue, dueSoon, far, invoiceRequest(supplierID, "V-4")} {
		out, err := uc.Create(context.Background(), "", req)
		require.NoError(t, err)
		ids[req.Number] = out.ID
	}
	_, err := uc.MarkPaid(context.Background(), ids["V-4"])
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), ids["V-1"])
	require.NoError(t, err)
	assert.True(t, got.IsOverdue)
	require.NotNil(t, got.DaysToDue)
	assert.Equal(t, -10, *got.DaysToDue)

	got, err = uc.Get(context.Background(), ids["V-3"])
	require.NoError(t, err)
	assert.False(t, got.IsOverdue)
	assert.Equal(t, 30, *got.DaysToDue)

	stats, err := uc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 1, stats.Paid)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.DueSoon)
	assert.True(t, stats.PendingAmount.Equal(decimal.NewFromInt(3000000)), "pendiente: %s", stats.PendingAmount)
	assert.True(t, stats.PaidAmount.Equal(decimal.NewFromInt(1000000)))

	list, err := uc.List(context.Background(), dto.PurchaseInvoiceListQuery{Overdue: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "V-1", list[0].Number)
}

func TestPurchaseInvoice_Adjunto(t *testing.T) {
	store := testutil.NewStore()
	supplierID := seedSupplier(store)

	noStorage := newInvoiceUseCase(store, nil)
	created, err := noStorage.Create(context.Background(), "", invoiceRequest(supplierID, "ADJ-1"))
	require.NoError(t, err)
	_, err = noStorage.UploadAttachment(context.Background(), created.ID, "factura.pdf", strings.NewReader("x"), 1, "application/pdf")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	storage := &memStorage{}
	uc := newInvoiceUseCase(store, storage)
	out, err := uc.UploadAttachment(context.Background(), created.ID, `C:\escaneos\factura.pdf`, bytes.NewReader([]byte("%PDF")), 4, "application/pdf")
	require.NoError(t, err)
	key := "purchase-invoices/" + created.ID + "/factura.pdf"
	assert.Equal(t, []string{key}, storage.keys)
	assert.Equal(t, "https://archivos.local/"+key, out.AttachmentURL)

	got, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, out.AttachmentURL, got.AttachmentURL)

	storage.err = errors.New("bucket inexistente")
	_, err = uc.UploadAttachment(context.Background(), created.ID, "otra.pdf", strings.NewReader("x"), 1, "application/pdf")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestPurchaseInvoice_ExportarPlanilla(t *testing.T) {
	store := testutil.NewStore()
	uc := newInvoiceUseCase(store, nil)
	_, err := uc.Create(context.Background(), "", invoiceRequest(seedSupplier(store), "EXP-1"))
	require.NoError(t, err)

	raw, err := uc.Export(context.Background(), dto.PurchaseInvoiceListQuery{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Facturas de compra")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Número", rows[0][0])
	assert.Equal(t, "EXP-1", rows[1][0])
}
