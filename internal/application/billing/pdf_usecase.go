package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// sellerFallback vendedor mostrado cuando la factura no tiene usuario asociado.
const sellerFallback = "Sistema"

// InvoiceQueryUseCase consultas de facturas de venta: detalle, listado, datos de impresión y PDF.
type InvoiceQueryUseCase struct {
	invoices   repository.InvoiceRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	generator  InvoicePDFGenerator
}

// NewInvoiceQueryUseCase construye el caso de uso. generator puede ser nil si no se sirven PDFs.
func NewInvoiceQueryUseCase(
	invoices repository.InvoiceRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	generator InvoicePDFGenerator,
) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{
		invoices:   invoices,
		products:   products,
		categories: categories,
		generator:  generator,
	}
}

// Get factura con sus líneas.
func (uc *InvoiceQueryUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(inv)
	return &out, nil
}

// List facturas por rango de fechas (to inclusivo) y búsqueda por número o cliente, más recientes primero.
func (uc *InvoiceQueryUseCase) List(ctx context.Context, q dto.InvoiceListQuery) ([]dto.InvoiceResponse, error) {
	from, err := parseOptionalDate("from", q.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to", q.To)
	if err != nil {
		return nil, err
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	list, err := uc.invoices.List(ctx, repository.InvoiceFilter{
		From:       from,
		To:         to,
		Search:     q.Search,
		ListParams: repository.ListParams{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.InvoiceFromEntity(inv))
	}
	return out, nil
}

// PrintData datos de la factura enriquecidos con código, nombre, categoría y marca de cada producto.
func (uc *InvoiceQueryUseCase) PrintData(ctx context.Context, id string) (*dto.InvoicePrintData, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	data := &dto.InvoicePrintData{
		Number:          inv.Number,
		Date:            inv.Date.Format("02/01/2006"),
		Time:            inv.Date.Format("15:04:05"),
		DocumentType:    inv.DocumentType,
		DocumentNumber:  inv.DocumentNumber,
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		CustomerPhone:   inv.CustomerPhone,
		CustomerAddress: inv.CustomerAddress,
		Subtotal:        inv.Subtotal,
		DiscountTotal:   inv.DiscountTotal,
		TaxExempt:       inv.TaxExempt,
		TaxTotal:        inv.TaxTotal,
		Total:           inv.Total,
		Seller:          sellerFallback,
		Notes:           inv.Notes,
		Lines:           make([]dto.InvoicePrintLineData, 0, len(inv.Lines)),
	}
	if inv.UserID != nil && *inv.UserID != "" {
		data.Seller = *inv.UserID
	}

	categoryNames := map[string]string{}
	for _, l := range inv.Lines {
		pl := dto.InvoicePrintLineData{
			ProductName: "Producto " + l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		}
		p, err := uc.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pl.ProductCode = p.CodeOrEmpty()
			pl.ProductName = p.Name
			pl.Brand = p.Brand
			pl.CategoryName, err = uc.categoryName(ctx, categoryNames, p.CategoryID)
			if err != nil {
				return nil, err
			}
		}
		data.Lines = append(data.Lines, pl)
	}
	return data, nil
}

// DownloadInvoicePDF genera el PDF de la factura y el nombre de archivo sugerido.
func (uc *InvoiceQueryUseCase) DownloadInvoicePDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	data, err := uc.PrintData(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, *data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", data.Number), nil
}

func (uc *InvoiceQueryUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NewNotFound("factura", id)
	}
	return inv, nil
}

func (uc *InvoiceQueryUseCase) categoryName(ctx context.Context, seen map[string]string, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	if name, ok := seen[id]; ok {
		return name, nil
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	name := ""
	if c != nil {
		name = c.Name
	}
	seen[id] = name
	return name, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := dto.ParseDate(s)
	if err != nil {
		return nil, domain.NewValidationError(field, err.Error())
	}
	return &d.Time, nil
}
