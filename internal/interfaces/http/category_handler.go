package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
)

// CategoryHandler categorías y subcategorías (protegido).
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
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
// @Summary      Listar categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Dropdown GET /api/categories/dropdown
func (h *CategoryHandler) Dropdown(c *fiber.Ctx) error {
	out, err := h.uc.Dropdown(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/categories/:id
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/categories/:id. 409 si tiene productos.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateSubcategory godoc
// @Summary      Crear subcategoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubcategoryRequest  true  "Nombre y categoría"
// @Success      201   {object}  dto.SubcategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *fiber.Ctx) error {
	var in dto.SubcategoryRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateSubcategory(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSubcategories GET /api/subcategories?category_id=
func (h *CategoryHandler) ListSubcategories(c *fiber.Ctx) error {
	out, err := h.uc.ListSubcategories(c.Context(), c.Query("category_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateSubcategory PUT /api/subcategories/:id
func (h *CategoryHandler) UpdateSubcategory(c *fiber.Ctx) error {
	var in dto.SubcategoryRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateSubcategory(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteSubcategory DELETE /api/subcategories/:id
func (h *CategoryHandler) DeleteSubcategory(c *fiber.Ctx) error {
	if err := h.uc.DeleteSubcategory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
