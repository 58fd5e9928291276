package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/purchasing"
	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// PurchasingHandler órdenes de compra y facturas de proveedores (protegido).
type PurchasingHandler struct {
	orders   *purchasing.OrderUseCase
	invoices *purchasing.InvoiceUseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(orders *purchasing.OrderUseCase, invoices *purchasing.InvoiceUseCase) *PurchasingHandler {
	return &PurchasingHandler{orders: orders, invoices: invoices}
}

// ── Órdenes de compra ────────────────────────────────────────────────────────

// CreateOrder godoc
// @Summary      Crear orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchasingHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.orders.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListOrders GET /api/purchase-orders?supplier_id=&status=
func (h *PurchasingHandler) ListOrders(c *fiber.Ctx) error {
	var q dto.PurchaseOrderListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.orders.List(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetOrder GET /api/purchase-orders/:id
func (h *PurchasingHandler) GetOrder(c *fiber.Ctx) error {
	out, err := h.orders.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateOrderStatus godoc
// @Summary      Cambiar estado de una orden
// @Description  pending → partial | complete | cancelled; partial → complete | cancelled.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                                true  "ID de la orden"
// @Param        body  body  dto.UpdatePurchaseOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "Transición inválida"
// @Router       /api/purchase-orders/{id}/status [put]
// @Router       /api/purchase-orders/{id}/status [patch]
func (h *PurchasingHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseOrderStatusRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.orders.UpdateStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ── Facturas de compra ───────────────────────────────────────────────────────

// CreateInvoice godoc
// @Summary      Registrar factura de proveedor
// @Description  El total se recalcula siempre: subtotal - descuento + impuestos.
// @Tags         purchase-invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.PurchaseInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Número duplicado"
// @Router       /api/purchase-invoices [post]
func (h *PurchasingHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.PurchaseInvoiceRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.invoices.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInvoices godoc
// @Summary      Listar facturas de compra
// @Tags         purchase-invoices
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        status       query  string  false  "pending | paid | overdue | cancelled"
// @Param        type         query  string  false  "cash | credit"
// @Param        issue_from   query  string  false  "Emisión desde"
// @Param        issue_to     query  string  false  "Emisión hasta"
// @Param        due_from     query  string  false  "Vencimiento desde"
// @Param        due_to       query  string  false  "Vencimiento hasta"
// @Param        overdue      query  bool    false  "Solo vencidas"
// @Param        due_soon     query  bool    false  "Solo próximas a vencer (7 días)"
// @Param        search       query  string  false  "Número, timbrado o notas"
// @Success      200  {array}  dto.PurchaseInvoiceResponse
// @Router       /api/purchase-invoices [get]
func (h *PurchasingHandler) ListInvoices(c *fiber.Ctx) error {
	var q dto.PurchaseInvoiceListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.invoices.List(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetInvoice GET /api/purchase-invoices/:id
func (h *PurchasingHandler) GetInvoice(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateInvoice PUT /api/purchase-invoices/:id. Sin "lines" se conservan las existentes.
func (h *PurchasingHandler) UpdateInvoice(c *fiber.Ctx) error {
	var in dto.PurchaseInvoiceRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.invoices.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteInvoice DELETE /api/purchase-invoices/:id. 409 si está pagada.
func (h *PurchasingHandler) DeleteInvoice(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkPaid godoc
// @Summary      Marcar factura de compra como pagada
// @Tags         purchase-invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.PurchaseInvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse  "Ya pagada o cancelada"
// @Router       /api/purchase-invoices/{id}/mark-paid [post]
func (h *PurchasingHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.invoices.MarkPaid(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar factura de compra
// @Tags         purchase-invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.PurchaseInvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse  "Pagada o ya cancelada"
// @Router       /api/purchase-invoices/{id}/cancel [post]
func (h *PurchasingHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.invoices.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Estadísticas de cuentas a pagar
// @Tags         purchase-invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PurchaseInvoiceStatsResponse
// @Router       /api/purchase-invoices/statistics [get]
func (h *PurchasingHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.invoices.Statistics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Export GET /api/purchase-invoices/export (mismos filtros que el listado, XLSX).
func (h *PurchasingHandler) Export(c *fiber.Ctx) error {
	var q dto.PurchaseInvoiceListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	data, err := h.invoices.Export(c.Context(), q)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="facturas_compra.xlsx"`)
	return c.Send(data)
}

// UploadAttachment godoc
// @Summary      Adjuntar archivo a una factura de compra
// @Tags         purchase-invoices
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID de la factura"
// @Param        file  formData  file    true  "PDF o imagen de la factura"
// @Success      200   {object}  dto.PurchaseInvoiceResponse
// @Failure      503   {object}  dto.ErrorResponse  "Almacenamiento no configurado"
// @Router       /api/purchase-invoices/{id}/attachment [post]
func (h *PurchasingHandler) UploadAttachment(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file", "Se requiere un archivo en el campo 'file'")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := h.invoices.UploadAttachment(c.Context(), c.Params("id"), fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
