package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	dombilling "github.com/jhoicas/ferreteria-api/internal/domain/billing"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// CreateInvoiceUseCase crea una factura de venta y descuenta el inventario en una sola transacción.
type CreateInvoiceUseCase struct {
	txRunner repository.TxRunner
	ledger   *inventory.Ledger
	cache    ports.Cache
	log      *logger.Logger
	taxRate  decimal.Decimal
	now      func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso. taxRate se aplica tal cual (cero: sin IVA).
func NewCreateInvoiceUseCase(
	txRunner repository.TxRunner,
	ledger *inventory.Ledger,
	cache ports.Cache,
	log *logger.Logger,
	taxRate decimal.Decimal,
) *CreateInvoiceUseCase {
	if cache == nil {
		cache = ports.NoopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CreateInvoiceUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		cache:    cache,
		log:      log,
		taxRate:  taxRate,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *CreateInvoiceUseCase) WithClock(now func() time.Time) *CreateInvoiceUseCase {
	uc.now = now
	return uc
}

// NextInvoiceNumber reserva el siguiente número FAC-NNNNNN. Debe llamarse dentro de la transacción
// que inserta la factura: el contador queda bloqueado hasta el commit.
func NextInvoiceNumber(ctx context.Context, counters repository.CounterRepository) (string, error) {
	n, err := counters.Next(ctx, entity.SeriesInvoice)
	if err != nil {
		return "", fmt.Errorf("numeración de factura: %w", err)
	}
	return entity.FormatCorrelative(entity.SeriesInvoice, n), nil
}

// pricedLine línea validada con el precio ya resuelto.
type pricedLine struct {
	productID string
	quantity  int
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// CreateInvoice valida stock y precios de todas las líneas antes de escribir, numera la factura,
// guarda cabecera y líneas y registra una salida de stock por línea.
// Cualquier error deshace la transacción completa.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateInvoiceRequest(&in); err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		Date:            uc.now(),
		DocumentType:    in.DocumentType,
		DocumentNumber:  strings.TrimSpace(in.DocumentNumber),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		DiscountTotal:   in.Discount,
		TaxExempt:       in.TaxExempt,
		Notes:           in.Notes,
	}
	if userID != "" {
		inv.UserID = &userID
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		lines, err := uc.prevalidate(ctx, tx, in.Lines)
		if err != nil {
			return err
		}

		number, err := NextInvoiceNumber(ctx, tx.Counters())
		if err != nil {
			return err
		}
		inv.Number = number

		subtotal := decimal.Zero
		for _, l := range lines {
			subtotal = subtotal.Add(l.subtotal)
		}
		totals := dombilling.InvoiceTotals(subtotal, inv.DiscountTotal, inv.TaxExempt, uc.taxRate)
		inv.Subtotal = totals.Subtotal
		inv.TaxTotal = totals.Tax
		inv.Total = totals.Total

		if err := tx.Invoices().Create(ctx, inv); err != nil {
			return err
		}

		for i, l := range lines {
			line := entity.InvoiceLine{
				ID:        uuid.New().String(),
				InvoiceID: inv.ID,
				ProductID: l.productID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				Subtotal:  l.subtotal,
			}
			if err := tx.Invoices().CreateLine(ctx, &line); err != nil {
				return fmt.Errorf("línea %d: %w", i, err)
			}
			if _, _, err := uc.ledger.RecordMovement(ctx, tx, inventory.MovementInput{
				ProductID:     l.productID,
				Type:          entity.MovementTypeOut,
				Quantity:      l.quantity,
				Description:   "Venta - Factura #" + inv.Number,
				UserID:        inv.UserID,
				ReferenceType: entity.ReferenceInvoice,
				ReferenceID:   inv.ID,
			}); err != nil {
				return err
			}
			inv.Lines = append(inv.Lines, line)
		}

		return uc.creditCustomer(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice", inv.Number).
		Str("total", inv.Total.StringFixed(2)).
		Int("lines", len(inv.Lines)).
		Msg("factura creada")
	if err := uc.cache.Delete(ctx, ports.CacheKeyProductDropdown, ports.CacheKeyDashboardSummary); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de productos y tablero")
	}

	out := dto.InvoiceFromEntity(inv)
	return &out, nil
}

// prevalidate bloquea los productos en orden ascendente de id, suma cantidades de productos repetidos
// y verifica stock y precio de cada línea. No escribe nada.
func (uc *CreateInvoiceUseCase) prevalidate(ctx context.Context, tx repository.Tx, reqLines []dto.InvoiceLineRequest) ([]pricedLine, error) {
	requested := make(map[string]int, len(reqLines))
	ids := make([]string, 0, len(reqLines))
	for _, l := range reqLines {
		if _, seen := requested[l.ProductID]; !seen {
			ids = append(ids, l.ProductID)
		}
		requested[l.ProductID] += l.Quantity
	}
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := tx.Products().GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NewNotFound("producto", id)
		}
		if p.Stock < requested[id] {
			return nil, &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   requested[id],
			}
		}
		products[id] = p
	}

	out := make([]pricedLine, 0, len(reqLines))
	for _, l := range reqLines {
		p := products[l.ProductID]
		price := p.Price
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		if !price.IsPositive() {
			return nil, &domain.InvalidPriceError{ProductID: p.ID, ProductName: p.Name, Price: price}
		}
		out = append(out, pricedLine{
			productID: l.ProductID,
			quantity:  l.Quantity,
			unitPrice: price,
			subtotal:  dombilling.LineSubtotal(l.Quantity, price),
		})
	}
	return out, nil
}

// creditCustomer acumula la compra en el cliente registrado con el mismo documento, si existe y está activo.
func (uc *CreateInvoiceUseCase) creditCustomer(ctx context.Context, tx repository.Tx, inv *entity.Invoice) error {
	if inv.DocumentType == entity.DocumentTypeNone || inv.DocumentNumber == "" {
		return nil
	}
	c, err := tx.Customers().GetByDocument(ctx, inv.DocumentNumber)
	if err != nil {
		return err
	}
	if c == nil || !c.Active {
		return nil
	}
	return tx.Customers().AddPurchase(ctx, c.ID, inv.Total)
}

func validateInvoiceRequest(in *dto.CreateInvoiceRequest) error {
	in.DocumentType = strings.ToLower(strings.TrimSpace(in.DocumentType))
	if in.DocumentType == "" {
		in.DocumentType = entity.DocumentTypeNone
	}
	if !entity.IsValidDocumentType(in.DocumentType) {
		return domain.NewValidationError("document_type", "Tipo de documento inválido")
	}
	doc := strings.TrimSpace(in.DocumentNumber)
	switch in.DocumentType {
	case entity.DocumentTypeRUC:
		if doc == "" || !strings.Contains(doc, "-") {
			return domain.NewValidationError("document_number", "El RUC debe contener guión (ej: 80012345-6)")
		}
	case entity.DocumentTypeCedula:
		if doc == "" {
			return domain.NewValidationError("document_number", "La cédula es obligatoria")
		}
	}
	if in.Discount.IsNegative() {
		return domain.NewValidationError("discount_total", "El descuento no puede ser negativo")
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "La factura debe tener al menos una línea")
	}
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "El producto es obligatorio")
		}
		if l.Quantity < 1 {
			return domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "La cantidad debe ser al menos 1")
		}
	}
	return nil
}
