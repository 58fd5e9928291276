package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	create *billing.CreateInvoiceUseCase
	query  *billing.InvoiceQueryUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(create *billing.CreateInvoiceUseCase, query *billing.InvoiceQueryUseCase) *InvoiceHandler {
	return &InvoiceHandler{create: create, query: query}
}

// Create godoc
// @Summary      Emitir factura de venta
// @Description  Valida stock y precios de todas las líneas, numera FAC-NNNNNN, descuenta inventario
// @Description  y calcula IVA 10% salvo exención. Todo en una transacción.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cliente, descuento y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse  "Validación o precio inválido"
// @Failure      404   {object}  dto.ErrorResponse  "Producto inexistente"
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	invoice, err := h.create.CreateInvoice(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List godoc
// @Summary      Historial de facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (AAAA-MM-DD)"
// @Param        to      query  string  false  "Hasta (AAAA-MM-DD, inclusive)"
// @Param        search  query  string  false  "Número, cliente o documento"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.query.List(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID obtiene el detalle completo de una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.query.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

// PrintData godoc
// @Summary      Datos para imprimir una factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoicePrintData
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/print-data [get]
func (h *InvoiceHandler) PrintData(c *fiber.Ctx) error {
	data, err := h.query.PrintData(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data)
}

// DownloadPDF godoc
// @Summary      Factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.query.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
