package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/application/upstock"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// UpstockHandler maneja las peticiones HTTP de upstock runs y baselines (protegido).
type UpstockHandler struct {
	runs      *upstock.UseCase
	baselines *upstock.BaselineUseCase
}

// NewUpstockHandler construye el handler.
func NewUpstockHandler(runs *upstock.UseCase, baselines *upstock.BaselineUseCase) *UpstockHandler {
	return &UpstockHandler{runs: runs, baselines: baselines}
}

// StartRun godoc
// @Summary      Iniciar un upstock run
// @Description  Deriva la lista de pull de las ventas desde el último run
//
//	completado de la ubicación (o inicio del día). Solo un run
//	in_progress por ubicación.
//
// @Tags         upstock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartRunRequest  true  "store_id, location_id"
// @Success      201  {object}  dto.RunResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/upstock/runs/start [post]
func (h *UpstockHandler) StartRun(c *fiber.Ctx) error {
	var in dto.StartRunRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	run, err := h.runs.StartRun(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(runToDTO(run, true))
}

// ListRuns godoc
// @Summary      Listar upstock runs de la tienda
// @Tags         upstock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        status       query  string  false  "Filtrar por estado"
// @Param        limit        query  int     false  "Máximo de filas (default 50)"
// @Success      200  {array}  dto.RunResponse
// @Router       /api/upstock/runs [get]
func (h *UpstockHandler) ListRuns(c *fiber.Ctx) error {
	f := repository.RunFilter{
		LocationID: c.Query("location_id"),
		Status:     entity.RunStatus(c.Query("status")),
		Limit:      c.QueryInt("limit"),
	}
	runs, err := h.runs.ListRuns(GetStoreID(c), f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, runToDTO(r, false))
	}
	return c.JSON(fiber.Map{"total": len(out), "runs": out})
}

// GetRun godoc
// @Summary      Detalle de un run con sus líneas y estadísticas
// @Tags         upstock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del run"
// @Success      200  {object}  dto.RunResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/upstock/runs/{id} [get]
func (h *UpstockHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.runs.GetRun(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(runToDTO(run, true))
}

// UpdateLine godoc
// @Summary      Resolver la línea de un SKU del run (update parcial)
// @Description  Un SKU que no matchea ninguna línea es un miss reportable (404):
//
//	las líneas quedan fijas al crear el run.
//
// @Tags         upstock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del run"
// @Param        sku   path  string                    true  "SKU de la línea"
// @Param        body  body  dto.UpdateRunLineRequest  true  "pulled_qty, status, exception_reason"
// @Success      200  {object}  dto.RunLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/upstock/runs/{id}/lines/{sku} [patch]
func (h *UpstockHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateRunLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.runs.UpdateLine(c.Context(), c.Params("id"), c.Params("sku"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(runLineToDTO(line))
}

// CompleteRun godoc
// @Summary      Completar el run (avanza la cadena de ventanas)
// @Tags         upstock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID del run"
// @Param        body  body  dto.CompleteRunRequest  false  "validate_all_resolved"
// @Success      200  {object}  dto.RunResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/upstock/runs/{id}/complete [post]
func (h *UpstockHandler) CompleteRun(c *fiber.Ctx) error {
	var in dto.CompleteRunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	run, err := h.runs.CompleteRun(c.Context(), c.Params("id"), GetUserID(c), in.ValidateAllResolved)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(runToDTO(run, false))
}

// AbandonRun godoc
// @Summary      Abandonar el run (NO avanza la cadena de ventanas)
// @Tags         upstock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del run"
// @Param        body  body  dto.AbandonRunRequest  false  "reason"
// @Success      200  {object}  dto.RunResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/upstock/runs/{id}/abandon [post]
func (h *UpstockHandler) AbandonRun(c *fiber.Ctx) error {
	var in dto.AbandonRunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	run, err := h.runs.AbandonRun(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(runToDTO(run, false))
}

// UpsertBaselines godoc
// @Summary      Upsert masivo de niveles par de una ubicación
// @Tags         upstock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertBaselinesRequest  true  "store_id, location_id, baselines"
// @Success      200  {object}  dto.UpsertBaselinesResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/upstock/baselines [put]
func (h *UpstockHandler) UpsertBaselines(c *fiber.Ctx) error {
	var in dto.UpsertBaselinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	result, err := h.baselines.Upsert(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ListBaselines godoc
// @Summary      Listar niveles par de una ubicación
// @Tags         upstock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "Ubicación"
// @Success      200  {array}  dto.BaselineResponse
// @Router       /api/upstock/baselines [get]
func (h *UpstockHandler) ListBaselines(c *fiber.Ctx) error {
	baselines, err := h.baselines.List(c.Context(), GetStoreID(c), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BaselineResponse, 0, len(baselines))
	for _, b := range baselines {
		out = append(out, dto.BaselineResponse{
			ID:          b.ID,
			StoreID:     b.StoreID,
			LocationID:  b.LocationID,
			SKU:         b.SKU,
			ParQty:      b.ParQty,
			Category:    b.Category,
			Subcategory: b.Subcategory,
			UpdatedAt:   b.UpdatedAt,
			UpdatedBy:   b.UpdatedBy,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "baselines": out})
}

// ── serializadores ────────────────────────────────────────────────────────────

func runToDTO(r *entity.UpstockRun, includeLines bool) dto.RunResponse {
	resp := dto.RunResponse{
		ID:            r.ID,
		StoreID:       r.StoreID,
		LocationID:    r.LocationID,
		WindowStartAt: r.WindowStartAt,
		WindowEndAt:   r.WindowEndAt,
		Status:        string(r.Status),
		Notes:         r.Notes,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		CompletedAt:   r.CompletedAt,
	}
	if includeLines {
		stats := r.Stats()
		resp.Stats = &stats
		resp.Lines = make([]dto.RunLineResponse, 0, len(r.Lines))
		for _, l := range r.Lines {
			resp.Lines = append(resp.Lines, runLineToDTO(l))
		}
	}
	return resp
}

func runLineToDTO(l *entity.UpstockRunLine) dto.RunLineResponse {
	return dto.RunLineResponse{
		ID:               l.ID,
		RunID:            l.RunID,
		SKU:              l.SKU,
		ProductName:      l.ProductName,
		Brand:            l.Brand,
		Category:         l.Category,
		Subcategory:      l.Subcategory,
		ItemSize:         l.ItemSize,
		SoldQty:          l.SoldQty,
		SuggestedPullQty: l.SuggestedPullQty,
		BOHQty:           l.BOHQty,
		PulledQty:        l.PulledQty,
		Status:           string(l.Status),
		ExceptionReason:  l.ExceptionReason,
		UpdatedAt:        l.UpdatedAt,
		UpdatedBy:        l.UpdatedBy,
	}
}
