package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos, recepciones y reposición (protegido).
type InventoryHandler struct {
	movements     *inventory.RegisterMovementUseCase
	receipts      *inventory.ReceiptUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	receipts *inventory.ReceiptUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, receipts: receipts, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, type (in/out), quantity, description"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.movements.RegisterMovement(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "in | out"
// @Param        user_id     query  string  false  "Usuario"
// @Param        from        query  string  false  "Desde (AAAA-MM-DD)"
// @Param        to          query  string  false  "Hasta (AAAA-MM-DD, inclusive)"
// @Param        search      query  string  false  "Texto en la descripción"
// @Param        order_by    query  string  false  "created_at | created_at_asc | quantity"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.movements.List(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateGoodsReceipt godoc
// @Summary      Recepción de mercadería
// @Description  Suma stock, actualiza costo y precio cuando la línea trae costo y, si hay orden de compra,
// @Description  acumula lo recibido en sus líneas. Todo o nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGoodsReceiptRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.GoodsReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Número de recepción duplicado"
// @Router       /api/goods-receipts [post]
func (h *InventoryHandler) CreateGoodsReceipt(c *fiber.Ctx) error {
	var in dto.CreateGoodsReceiptRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.receipts.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListGoodsReceipts GET /api/goods-receipts?supplier_id=&purchase_order_id=&limit=&offset=
func (h *InventoryHandler) ListGoodsReceipts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.receipts.List(c.Context(), c.Query("supplier_id"), c.Query("purchase_order_id"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetGoodsReceipt GET /api/goods-receipts/:id
func (h *InventoryHandler) GetGoodsReceipt(c *fiber.Ctx) error {
	out, err := h.receipts.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos bajo mínimo con la cantidad sugerida y el proveedor principal.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
