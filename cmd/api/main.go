package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/farellanoc/calificaciones-api/internal/application/carga"
	"github.com/farellanoc/calificaciones-api/internal/application/usecase"
	"github.com/farellanoc/calificaciones-api/internal/domain/factores"
	"github.com/farellanoc/calificaciones-api/internal/infrastructure/archivo"
	"github.com/farellanoc/calificaciones-api/internal/infrastructure/memoria"
	infrapdf "github.com/farellanoc/calificaciones-api/internal/infrastructure/pdf"
	"github.com/farellanoc/calificaciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/farellanoc/calificaciones-api/internal/interfaces/http"
	"github.com/farellanoc/calificaciones-api/pkg/config"
	"github.com/farellanoc/calificaciones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rango := factores.Defecto

	califRepo := postgres.NewCalificacionRepository(pool)
	factorRepo := postgres.NewFactorValorRepository(pool)
	mercadoRepo := postgres.NewMercadoRepository(pool)
	tipoRepo := postgres.NewTipoIngresoRepository(pool)
	defRepo := postgres.NewFactorDefRepository(pool)
	archivoRepo := postgres.NewArchivoFuenteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	previewStore := memoria.NewPreviewStore(time.Duration(cfg.Carga.PreviewTTLMinutos) * time.Minute)

	cargaUC := carga.NewUseCase(
		rango,
		cfg.Carga,
		archivo.NewLectorXLSX(),
		archivo.NewExtractorPDF(),
		carga.NewAnotador(rango, califRepo),
		previewStore,
		archivoRepo,
		mercadoRepo,
		tipoRepo,
		defRepo,
		txRunner,
		log,
	)

	califUC := usecase.NewCalificacionUseCase(rango, califRepo, factorRepo, mercadoRepo, tipoRepo, defRepo)
	comprobanteUC := usecase.NewComprobanteUseCase(califUC, infrapdf.NewComprobanteGenerator())
	catalogoUC := usecase.NewCatalogoUseCase(mercadoRepo, tipoRepo, defRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Carga.MaxBytes) + 1<<20, // archivo + holgura multipart
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CargaUC:        cargaUC,
		CalificacionUC: califUC,
		ComprobanteUC:  comprobanteUC,
		CatalogoUC:     catalogoUC,
		CargaConfig:    cfg.Carga,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
