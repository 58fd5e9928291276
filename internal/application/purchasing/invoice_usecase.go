package purchasing

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// InvoiceUseCase facturas de proveedores: alta, edición, pagos, cancelación, adjuntos y estadísticas.
type InvoiceUseCase struct {
	txRunner repository.TxRunner
	invoices repository.PurchaseInvoiceRepository
	storage  ports.FileStorage
	exporter ports.SpreadsheetExporter
	cache    ports.Cache
	log      *logger.Logger
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. storage y exporter pueden ser nil.
func NewInvoiceUseCase(
	txRunner repository.TxRunner,
	invoices repository.PurchaseInvoiceRepository,
	storage ports.FileStorage,
	exporter ports.SpreadsheetExporter,
	cache ports.Cache,
	log *logger.Logger,
) *InvoiceUseCase {
	if cache == nil {
		cache = ports.NoopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		txRunner: txRunner,
		invoices: invoices,
		storage:  storage,
		exporter: exporter,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// Create registra la factura en estado pending con el total recalculado.
// Cabecera y líneas se escriben en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.PurchaseInvoiceRequest) (*dto.PurchaseInvoiceResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "La factura debe tener al menos una línea")
	}
	now := uc.now()
	inv := &entity.PurchaseInvoice{
		ID:         uuid.New().String(),
		Status:     entity.PurchaseInvoiceStatusPending,
		ReceivedAt: now,
		UpdatedAt:  now,
	}
	if userID != "" {
		inv.UserID = &userID
	}
	if err := applyRequest(inv, in, true, true); err != nil {
		return nil, err
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := checkReferences(ctx, tx, inv); err != nil {
			return err
		}
		return tx.PurchaseInvoices().Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_invoice", inv.Number).Str("total", inv.Total.StringFixed(2)).Msg("factura de compra registrada")
	uc.invalidate(ctx)
	return uc.response(inv), nil
}

// Update reemplaza los datos de la factura. Lines nil conserva las líneas existentes.
// Una factura pagada o cancelada no se edita.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.PurchaseInvoiceRequest) (*dto.PurchaseInvoiceResponse, error) {
	replaceLines := in.Lines != nil
	if replaceLines && len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "La factura debe tener al menos una línea")
	}
	var inv *entity.PurchaseInvoice
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		if inv, err = lockInvoice(ctx, tx, id); err != nil {
			return err
		}
		if inv.Status != entity.PurchaseInvoiceStatusPending {
			return &domain.InvalidStateTransitionError{
				Resource: "factura de compra",
				From:     inv.Status,
				To:       inv.Status,
				Reason:   "Solo se pueden editar facturas pendientes",
			}
		}
		if err := applyRequest(inv, in, false, replaceLines); err != nil {
			return err
		}
		inv.UpdatedAt = uc.now()
		if err := checkReferences(ctx, tx, inv); err != nil {
			return err
		}
		return tx.PurchaseInvoices().Update(ctx, inv, replaceLines)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return uc.response(inv), nil
}

// Get factura con líneas, vencimiento y días restantes.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.PurchaseInvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.response(inv), nil
}

// List facturas filtradas.
func (uc *InvoiceUseCase) List(ctx context.Context, q dto.PurchaseInvoiceListQuery) ([]dto.PurchaseInvoiceResponse, error) {
	list, err := uc.list(ctx, q)
	if err != nil {
		return nil, err
	}
	today := uc.now()
	out := make([]dto.PurchaseInvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.PurchaseInvoiceFromEntity(inv, today))
	}
	return out, nil
}

// MarkPaid pasa la factura a pagada.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id string) (*dto.PurchaseInvoiceResponse, error) {
	return uc.transition(ctx, id, (*entity.PurchaseInvoice).MarkPaid)
}

// Cancel anula la factura.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseInvoiceResponse, error) {
	return uc.transition(ctx, id, (*entity.PurchaseInvoice).Cancel)
}

// Delete elimina una factura que no esté pagada.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		inv, err := lockInvoice(ctx, tx, id)
		if err != nil {
			return err
		}
		if inv.Status == entity.PurchaseInvoiceStatusPaid {
			return &domain.InvalidStateTransitionError{
				Resource: "factura de compra",
				From:     inv.Status,
				To:       "deleted",
				Reason:   "No se puede eliminar una factura pagada",
			}
		}
		return tx.PurchaseInvoices().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// Statistics conteos y montos por estado al día de hoy.
func (uc *InvoiceUseCase) Statistics(ctx context.Context) (*dto.PurchaseInvoiceStatsResponse, error) {
	s, err := uc.invoices.Stats(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.PurchaseInvoiceStatsResponse{
		Total:         s.Total,
		Pending:       s.Pending,
		Paid:          s.Paid,
		Cancelled:     s.Cancelled,
		Overdue:       s.Overdue,
		DueSoon:       s.DueSoon,
		PendingAmount: s.PendingAmount,
		PaidAmount:    s.PaidAmount,
	}, nil
}

// UploadAttachment sube el archivo escaneado de la factura y guarda su URL.
func (uc *InvoiceUseCase) UploadAttachment(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string) (*dto.PurchaseInvoiceResponse, error) {
	if uc.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, domain.NewValidationError("file", "Nombre de archivo inválido")
	}
	key := fmt.Sprintf("purchase-invoices/%s/%s", inv.ID, name)
	url, err := uc.storage.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := uc.invoices.SetAttachment(ctx, inv.ID, url); err != nil {
		return nil, err
	}
	inv.AttachmentURL = url
	uc.log.Info().Str("purchase_invoice", inv.Number).Str("key", key).Msg("adjunto guardado")
	return uc.response(inv), nil
}

// Export planilla XLSX con las facturas que cumplen el filtro.
func (uc *InvoiceUseCase) Export(ctx context.Context, q dto.PurchaseInvoiceListQuery) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportación no configurada")
	}
	list, err := uc.list(ctx, q)
	if err != nil {
		return nil, err
	}
	today := uc.now()
	headers := []string{"Número", "Proveedor", "Emisión", "Vencimiento", "Tipo", "Estado", "Subtotal", "Descuento", "Impuestos", "Total", "Días al vencimiento"}
	rows := make([][]any, 0, len(list))
	for _, inv := range list {
		due := ""
		if inv.DueDate != nil {
			due = inv.DueDate.Format(dto.DateLayout)
		}
		var days any = ""
		if d := inv.DaysToDue(today); d != nil {
			days = *d
		}
		rows = append(rows, []any{
			inv.Number,
			inv.SupplierID,
			inv.IssueDate.Format(dto.DateLayout),
			due,
			inv.Type,
			inv.EffectiveStatus(today),
			inv.Subtotal.InexactFloat64(),
			inv.Discount.InexactFloat64(),
			inv.Tax.InexactFloat64(),
			inv.Total.InexactFloat64(),
			days,
		})
	}
	return uc.exporter.Export("Facturas de compra", headers, rows)
}

// transition aplica el cambio de estado con la fila bloqueada: dos pagos simultáneos no pasan ambos la validación.
func (uc *InvoiceUseCase) transition(ctx context.Context, id string, apply func(*entity.PurchaseInvoice) error) (*dto.PurchaseInvoiceResponse, error) {
	var (
		inv  *entity.PurchaseInvoice
		from string
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		if inv, err = lockInvoice(ctx, tx, id); err != nil {
			return err
		}
		from = inv.Status
		if err := apply(inv); err != nil {
			return err
		}
		return tx.PurchaseInvoices().UpdateStatus(ctx, inv.ID, inv.Status)
	})
	if err != nil {
		return nil, err
	}
	inv.UpdatedAt = uc.now()
	uc.log.Info().Str("purchase_invoice", inv.Number).Str("from", from).Str("to", inv.Status).Msg("factura de compra: cambio de estado")
	uc.invalidate(ctx)
	return uc.response(inv), nil
}

func (uc *InvoiceUseCase) list(ctx context.Context, q dto.PurchaseInvoiceListQuery) ([]*entity.PurchaseInvoice, error) {
	f := repository.PurchaseInvoiceFilter{
		SupplierID: q.SupplierID,
		Status:     q.Status,
		Type:       q.Type,
		Overdue:    q.Overdue,
		DueSoon:    q.DueSoon,
		Search:     strings.TrimSpace(q.Search),
		Today:      uc.now(),
		ListParams: repository.ListParams{Limit: q.Limit, Offset: q.Offset},
	}
	dates := []struct {
		field string
		raw   string
		dst   **time.Time
	}{
		{"issue_from", q.IssueFrom, &f.IssueFrom},
		{"issue_to", q.IssueTo, &f.IssueTo},
		{"due_from", q.DueFrom, &f.DueFrom},
		{"due_to", q.DueTo, &f.DueTo},
	}
	for _, d := range dates {
		if d.raw == "" {
			continue
		}
		parsed, err := dto.ParseDate(d.raw)
		if err != nil {
			return nil, domain.NewValidationError(d.field, err.Error())
		}
		t := parsed.Time
		*d.dst = &t
	}
	return uc.invoices.List(ctx, f)
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.PurchaseInvoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NewNotFound("factura de compra", id)
	}
	return inv, nil
}

func lockInvoice(ctx context.Context, tx repository.Tx, id string) (*entity.PurchaseInvoice, error) {
	inv, err := tx.PurchaseInvoices().GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NewNotFound("factura de compra", id)
	}
	return inv, nil
}

// checkReferences verifica proveedor y productos de las líneas antes de escribir.
func checkReferences(ctx context.Context, tx repository.Tx, inv *entity.PurchaseInvoice) error {
	if inv.SupplierID == "" {
		return domain.NewValidationError("supplier_id", "El proveedor es obligatorio")
	}
	s, err := tx.Suppliers().GetByID(ctx, inv.SupplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFound("proveedor", inv.SupplierID)
	}
	for _, l := range inv.Lines {
		if l.ProductID == "" {
			continue
		}
		p, err := tx.Products().GetByID(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewNotFound("producto", l.ProductID)
		}
	}
	return nil
}

func (uc *InvoiceUseCase) response(inv *entity.PurchaseInvoice) *dto.PurchaseInvoiceResponse {
	out := dto.PurchaseInvoiceFromEntity(inv, uc.now())
	return &out
}

func (uc *InvoiceUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Delete(ctx, ports.CacheKeyDashboardSummary); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar el resumen del tablero")
	}
}

// applyRequest copia el request sobre la factura y recalcula totales.
// En el alta un subtotal ausente o cero se toma de la suma de líneas; en la edición, reemplazar
// las líneas siempre recalcula el subtotal y sin líneas se conserva salvo que venga uno nuevo.
func applyRequest(inv *entity.PurchaseInvoice, in dto.PurchaseInvoiceRequest, creating, replaceLines bool) error {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return domain.NewValidationError("number", "El número de factura es obligatorio")
	}
	if in.Type != entity.PurchaseInvoiceTypeCash && in.Type != entity.PurchaseInvoiceTypeCredit {
		return domain.NewValidationError("type", "Tipo inválido (cash o credit)")
	}
	if in.IssueDate.IsZero() {
		return domain.NewValidationError("issue_date", "La fecha de emisión es obligatoria")
	}
	if in.Type == entity.PurchaseInvoiceTypeCredit && in.DueDate == nil {
		return domain.NewValidationError("due_date", "Las facturas a crédito requieren fecha de vencimiento")
	}
	if in.DueDate != nil && in.DueDate.Before(in.IssueDate.Time) {
		return domain.NewValidationError("due_date", "El vencimiento no puede ser anterior a la emisión")
	}
	if in.Discount.IsNegative() {
		return domain.NewValidationError("discount", "El descuento no puede ser negativo")
	}
	if in.Tax.IsNegative() {
		return domain.NewValidationError("tax", "Los impuestos no pueden ser negativos")
	}

	inv.Number = number
	inv.SupplierID = in.SupplierID
	inv.PurchaseOrderID = in.PurchaseOrderID
	inv.IssueDate = in.IssueDate.Time
	inv.DueDate = in.DueDate.Ptr()
	inv.Type = in.Type
	inv.Discount = in.Discount
	inv.Tax = in.Tax
	inv.Stamp = in.Stamp
	inv.PaymentTerms = in.PaymentTerms
	inv.Notes = in.Notes

	if replaceLines {
		lines := make([]entity.PurchaseInvoiceLine, 0, len(in.Lines))
		for i, l := range in.Lines {
			if !l.Quantity.IsPositive() {
				return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "La cantidad debe ser mayor a cero")
			}
			if l.UnitPrice.IsNegative() {
				return domain.NewValidationError(fmt.Sprintf("lines[%d].unit_price", i), "El precio no puede ser negativo")
			}
			if l.ProductID == "" && strings.TrimSpace(l.Description) == "" {
				return domain.NewValidationError(fmt.Sprintf("lines[%d].description", i), "Indique el producto o una descripción")
			}
			lines = append(lines, entity.PurchaseInvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				ProductID:   l.ProductID,
				Description: strings.TrimSpace(l.Description),
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Lot:         l.Lot,
				LotExpiry:   l.LotExpiry.Ptr(),
			})
		}
		inv.Lines = lines
	}

	if in.Subtotal != nil && in.Subtotal.IsNegative() {
		return domain.NewValidationError("subtotal", "El subtotal no puede ser negativo")
	}
	switch {
	case replaceLines && !creating:
		inv.Subtotal = inv.LinesSubtotal()
	case in.Subtotal != nil && !in.Subtotal.IsZero():
		inv.Subtotal = *in.Subtotal
	case creating:
		inv.Subtotal = inv.LinesSubtotal()
	}
	inv.Recompute()
	if inv.Total.IsNegative() {
		return domain.NewValidationError("discount", "El descuento supera el subtotal")
	}
	return nil
}
