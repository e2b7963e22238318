package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/catalog"
	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/movements"
	"github.com/jhoicas/Conteo-api/internal/application/upstock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionUC  *counting.SessionUseCase
	VarianceUC *counting.VarianceUseCase
	PDFGen     counting.VariancePDFGenerator
	UpstockUC  *upstock.UseCase
	BaselineUC *upstock.BaselineUseCase
	MovementUC *movements.ImportUseCase
	CatalogUC  *catalog.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo va detrás del Bearer Token: el
// token se emite fuera de esta app y aquí solo atribuye identidad.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: ubicaciones y lookup de productos
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	locations := protected.Group("/locations")
	locations.Post("/", RequireRole("manager"), catalogHandler.CreateLocation)
	locations.Get("/", catalogHandler.ListLocations)
	locations.Get("/:id", catalogHandler.GetLocation)
	protected.Get("/products/lookup/:barcode", catalogHandler.LookupProduct)

	// Libro de movimientos
	movementHandler := NewMovementHandler(deps.MovementUC)
	movs := protected.Group("/movements")
	movs.Post("/import", movementHandler.Import)
	movs.Get("/sync-status", movementHandler.SyncStatus)
	movs.Get("/", movementHandler.List)

	// Conteo: sesiones, passes, líneas y varianza
	countHandler := NewCountHandler(deps.SessionUC, deps.VarianceUC, deps.PDFGen)
	count := protected.Group("/count")
	count.Post("/sessions", countHandler.CreateSession)
	count.Get("/sessions", countHandler.ListSessions)
	count.Get("/sessions/:id", countHandler.GetSession)
	count.Post("/sessions/:id/start", countHandler.StartSession)
	count.Post("/sessions/:id/submit", countHandler.SubmitSession)
	count.Post("/sessions/:id/close", RequireRole("manager"), countHandler.CloseSession)
	count.Post("/sessions/:id/passes", countHandler.CreatePass)
	count.Get("/sessions/:id/passes", countHandler.ListPasses)
	count.Get("/sessions/:id/variance", countHandler.GetVariance)
	count.Get("/sessions/:id/variance/pdf", countHandler.GetVariancePDF)
	count.Get("/passes/:id", countHandler.GetPass)
	count.Post("/passes/:id/submit", countHandler.SubmitPass)
	count.Post("/passes/:id/void", countHandler.VoidPass)
	count.Post("/passes/:id/lines", countHandler.AddLine)
	count.Get("/passes/:id/lines", countHandler.ListLines)
	count.Put("/lines/:id", countHandler.UpdateLine)
	count.Delete("/lines/:id", countHandler.DeleteLine)

	// Upstock: runs nocturnos y niveles par
	upstockHandler := NewUpstockHandler(deps.UpstockUC, deps.BaselineUC)
	up := protected.Group("/upstock")
	up.Post("/runs/start", upstockHandler.StartRun)
	up.Get("/runs", upstockHandler.ListRuns)
	up.Get("/runs/:id", upstockHandler.GetRun)
	up.Patch("/runs/:id/lines/:sku", upstockHandler.UpdateLine)
	up.Post("/runs/:id/complete", upstockHandler.CompleteRun)
	up.Post("/runs/:id/abandon", upstockHandler.AbandonRun)
	up.Put("/baselines", RequireRole("manager"), upstockHandler.UpsertBaselines)
	up.Get("/baselines", upstockHandler.ListBaselines)
}
