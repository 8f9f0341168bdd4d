package http

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/farellanoc/calificaciones-api/internal/application/carga"
	"github.com/farellanoc/calificaciones-api/internal/application/dto"
	"github.com/farellanoc/calificaciones-api/internal/domain"
	"github.com/farellanoc/calificaciones-api/pkg/config"
)

// CargaHandler maneja la carga masiva: vista previa y confirmación.
type CargaHandler struct {
	uc  *carga.UseCase
	cfg config.CargaConfig
}

// NewCargaHandler construye el handler.
func NewCargaHandler(uc *carga.UseCase, cfg config.CargaConfig) *CargaHandler {
	return &CargaHandler{uc: uc, cfg: cfg}
}

// Previsualizar recibe el archivo (multipart, campo "archivo"), lo procesa y
// devuelve la vista previa con su token.
func (h *CargaHandler) Previsualizar(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "MISSING_FILE", Message: "se requiere el campo multipart 'archivo'"})
	}
	if fh.Size > h.cfg.MaxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo excede el máximo de %d bytes", h.cfg.MaxBytes)})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()
	contenido, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}

	out, err := h.uc.Previsualizar(c.Context(), fh.Filename, contenido, GetUsuario(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFormatoNoSoportado):
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
				Code: "UNSUPPORTED_FORMAT", Message: err.Error()})
		case errors.Is(err, domain.ErrSinFilas):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code: "NO_ROWS", Message: err.Error()})
		case errors.Is(err, domain.ErrLimiteFilas):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code: "TOO_MANY_ROWS", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(out)
}

// Confirmar graba definitivamente el lote del token.
func (h *CargaHandler) Confirmar(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "MISSING_TOKEN", Message: "token es requerido"})
	}

	out, err := h.uc.Confirmar(c.Context(), token, GetUsuario(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPreviewVencida):
			return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{
				Code: "PREVIEW_EXPIRED", Message: err.Error()})
		case errors.Is(err, domain.ErrFilasConError):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "ROWS_WITH_ERRORS", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(out)
}
