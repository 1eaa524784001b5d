package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/audit"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// LogHandler consulta de la bitácora de mutaciones (protegido).
type LogHandler struct {
	recorder *audit.Recorder
}

// NewLogHandler construye el handler.
func NewLogHandler(recorder *audit.Recorder) *LogHandler {
	return &LogHandler{recorder: recorder}
}

// List godoc
// @Summary      Listar bitácora de mutaciones
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página"  default(1)
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200  {array}  dto.ActionLogResponse
// @Router       /api/logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	out, err := h.recorder.List(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
