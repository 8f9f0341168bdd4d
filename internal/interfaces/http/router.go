package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farellanoc/calificaciones-api/internal/application/carga"
	"github.com/farellanoc/calificaciones-api/internal/application/usecase"
	"github.com/farellanoc/calificaciones-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CargaUC        *carga.UseCase
	CalificacionUC *usecase.CalificacionUseCase
	ComprobanteUC  *usecase.ComprobanteUseCase
	CatalogoUC     *usecase.CatalogoUseCase
	CargaConfig    config.CargaConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Carga masiva: vista previa + confirmación por token
	cargas := api.Group("/cargas")
	cargaHandler := NewCargaHandler(deps.CargaUC, deps.CargaConfig)
	cargas.Post("/", cargaHandler.Previsualizar)
	cargas.Post("/:token/confirmar", cargaHandler.Confirmar)

	// Mantenedor de calificaciones
	califs := api.Group("/calificaciones")
	califHandler := NewCalificacionHandler(deps.CalificacionUC, deps.ComprobanteUC)
	califs.Get("/", califHandler.List)
	califs.Post("/", califHandler.Create)
	califs.Delete("/", califHandler.Delete)
	califs.Get("/:id", califHandler.GetByID)
	califs.Put("/:id", califHandler.Update)
	califs.Get("/:id/comprobante", califHandler.Comprobante)

	// Catálogos de apoyo
	catalogos := api.Group("/catalogos")
	catalogoHandler := NewCatalogoHandler(deps.CatalogoUC)
	catalogos.Get("/mercados", catalogoHandler.Mercados)
	catalogos.Get("/tipos-ingreso", catalogoHandler.TiposIngreso)
	catalogos.Get("/factor-defs", catalogoHandler.FactorDefs)
}
