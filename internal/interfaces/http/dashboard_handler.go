package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del tablero
// @Description  Ventas y margen del día y del mes, productos más vendidos, stock bajo mínimo y cuentas a pagar.
// @Description  Se sirve desde caché; un proceso en segundo plano lo recalcula periódicamente.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// Refresh POST /api/dashboard/refresh recalcula el resumen ignorando la caché.
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	summary, err := h.uc.Refresh(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
