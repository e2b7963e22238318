package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Conteo-api/internal/application/catalog"
	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/movements"
	"github.com/jhoicas/Conteo-api/internal/application/upstock"
	infrapdf "github.com/jhoicas/Conteo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Conteo-api/internal/interfaces/http"
	"github.com/jhoicas/Conteo-api/pkg/config"
	"github.com/jhoicas/Conteo-api/pkg/logger"
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
		Str("window_policy", cfg.Count.WindowPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sessionRepo := postgres.NewCountSessionRepository(pool)
	passRepo := postgres.NewCountPassRepository(pool)
	lineRepo := postgres.NewCountLineRepository(pool)
	baselineRepo := postgres.NewSessionBaselineRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	runRepo := postgres.NewUpstockRunRepository(pool)
	upstockBaselineRepo := postgres.NewUpstockBaselineRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sessionUC := counting.NewSessionUseCase(
		sessionRepo, passRepo, lineRepo, baselineRepo,
		productRepo, locationRepo, productRepo, txRunner,
	)
	varianceUC := counting.NewVarianceUseCase(
		sessionRepo, passRepo, lineRepo, baselineRepo,
		movementRepo, productRepo, cfg.Count.WindowPolicy,
	)
	upstockUC := upstock.NewUseCase(runRepo, movementRepo, productRepo, txRunner)
	upstockBaselineUC := upstock.NewBaselineUseCase(upstockBaselineRepo)
	movementUC := movements.NewImportUseCase(movementRepo)
	catalogUC := catalog.NewUseCase(locationRepo, productRepo)

	// PDF: reporte de varianza imprimible
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Conteo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SessionUC:  sessionUC,
		VarianceUC: varianceUC,
		PDFGen:     pdfGenerator,
		UpstockUC:  upstockUC,
		BaselineUC: upstockBaselineUC,
		MovementUC: movementUC,
		CatalogUC:  catalogUC,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
