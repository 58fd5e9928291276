package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
)

// SupplierHandler proveedores y relaciones producto-proveedor (protegido).
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Nombre, RUC o contacto"
// @Param        only_active  query  bool    false  "Solo activos"
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("search"), c.QueryBool("only_active"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Dropdown GET /api/suppliers/dropdown
func (h *SupplierHandler) Dropdown(c *fiber.Ctx) error {
	out, err := h.uc.Dropdown(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/suppliers/:id
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/suppliers/:id
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/suppliers/:id. 409 si tiene órdenes o facturas.
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateProductSupplier godoc
// @Summary      Vincular producto y proveedor
// @Description  Si is_primary, el resto de proveedores del producto deja de ser principal.
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductSupplierRequest  true  "Relación"
// @Success      201   {object}  dto.ProductSupplierResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/product-suppliers [post]
func (h *SupplierHandler) CreateProductSupplier(c *fiber.Ctx) error {
	var in dto.ProductSupplierRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateProductSupplier(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProductSuppliers GET /api/product-suppliers?product_id=&supplier_id=
func (h *SupplierHandler) ListProductSuppliers(c *fiber.Ctx) error {
	out, err := h.uc.ListProductSuppliers(c.Context(), c.Query("product_id"), c.Query("supplier_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateProductSupplier PUT /api/product-suppliers/:id
func (h *SupplierHandler) UpdateProductSupplier(c *fiber.Ctx) error {
	var in dto.ProductSupplierRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateProductSupplier(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteProductSupplier DELETE /api/product-suppliers/:id
func (h *SupplierHandler) DeleteProductSupplier(c *fiber.Ctx) error {
	if err := h.uc.DeleteProductSupplier(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
