package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes (facturación, protegido).
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Documento ya registrado"
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateFromInvoice godoc
// @Summary      Guardar como cliente los datos cargados en una factura
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers/from-invoice [post]
func (h *CustomerHandler) CreateFromInvoice(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateFromInvoice(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/customers?search=&only_active=
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("search"), c.QueryBool("only_active"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Dropdown GET /api/customers/dropdown
func (h *CustomerHandler) Dropdown(c *fiber.Ctx) error {
	out, err := h.uc.Dropdown(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ByDocument godoc
// @Summary      Buscar cliente por documento
// @Description  No encontrarlo no es un error: responde found=false.
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        document  query  string  true  "Número de documento"
// @Success      200  {object}  dto.CustomerLookupResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/customers/by-document [get]
func (h *CustomerHandler) ByDocument(c *fiber.Ctx) error {
	out, err := h.uc.ByDocument(c.Context(), c.Query("document"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
