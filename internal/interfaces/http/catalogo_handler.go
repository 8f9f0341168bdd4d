package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farellanoc/calificaciones-api/internal/application/dto"
	"github.com/farellanoc/calificaciones-api/internal/application/usecase"
)

// CatalogoHandler expone los catálogos de apoyo.
type CatalogoHandler struct {
	uc *usecase.CatalogoUseCase
}

// NewCatalogoHandler construye el handler.
func NewCatalogoHandler(uc *usecase.CatalogoUseCase) *CatalogoHandler {
	return &CatalogoHandler{uc: uc}
}

// Mercados lista el catálogo de mercados.
func (h *CatalogoHandler) Mercados(c *fiber.Ctx) error {
	out, err := h.uc.Mercados(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TiposIngreso lista el catálogo de tipos de ingreso.
func (h *CatalogoHandler) TiposIngreso(c *fiber.Ctx) error {
	out, err := h.uc.TiposIngreso(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// FactorDefs lista las definiciones de factores.
func (h *CatalogoHandler) FactorDefs(c *fiber.Ctx) error {
	out, err := h.uc.FactorDefs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
