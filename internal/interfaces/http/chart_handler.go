package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// ChartHandler sirve las vistas agregadas del dashboard (protegido).
type ChartHandler struct {
	uc *analytics.AggregateUseCase
}

// NewChartHandler construye el handler.
func NewChartHandler(uc *analytics.AggregateUseCase) *ChartHandler {
	return &ChartHandler{uc: uc}
}

// WarehouseQuantities godoc
// @Summary      Total de unidades por bodega
// @Tags         charts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WarehouseQuantityDTO
// @Router       /api/warehouse-quantities [get]
func (h *ChartHandler) WarehouseQuantities(c *fiber.Ctx) error {
	out, err := h.uc.WarehouseTotals(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// BarChart godoc
// @Summary      Datos del gráfico de barras (total por bodega)
// @Tags         charts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]dto.BarChartEntry
// @Router       /api/items/bar-chart [get]
func (h *ChartHandler) BarChart(c *fiber.Ctx) error {
	out, err := h.uc.BarChartData(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PieChart godoc
// @Summary      Datos del gráfico de torta (stock bajo vs. en stock)
// @Tags         charts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PieChartDTO
// @Router       /api/items/pie-chart [get]
func (h *ChartHandler) PieChart(c *fiber.Ctx) error {
	out, err := h.uc.PieChartData(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
