package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductHandler maneja las peticiones HTTP de productos (protegido).
type ProductHandler struct {
	uc            *usecase.ProductUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, replenishment *inventory.ReplenishmentUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, replenishment: replenishment}
}

// Create godoc
// @Summary      Crear producto
// @Description  El stock inicial se registra como movimiento de entrada. Sin precio se usa costo × 1.30.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// QuickCreate godoc
// @Summary      Alta rápida de producto
// @Description  Categoría por nombre (se crea si no existe), precio = costo × 1.30 redondeado.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuickProductRequest  true  "Datos mínimos"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/quick [post]
func (h *ProductHandler) QuickCreate(c *fiber.Ctx) error {
	var in dto.QuickProductRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.QuickCreate(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Nombre, código, marca o modelo compatible"
// @Param        category_id  query  string  false  "Categoría"
// @Param        only_active  query  bool    false  "Solo activos"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Nunca modifica el stock.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "Tiene facturas o movimientos"
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Dropdown godoc
// @Summary      Productos activos para selects
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductDropdownItem
// @Router       /api/products/dropdown [get]
func (h *ProductHandler) Dropdown(c *fiber.Ctx) error {
	out, err := h.uc.Dropdown(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en o por debajo del stock mínimo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItem
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.replenishment.LowStock(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportLowStock godoc
// @Summary      Exportar stock bajo a Excel
// @Tags         products
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/products/low-stock/export [get]
func (h *ProductHandler) ExportLowStock(c *fiber.Ctx) error {
	data, err := h.replenishment.ExportLowStock(c.Context())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock_bajo.xlsx"`)
	return c.Send(data)
}
