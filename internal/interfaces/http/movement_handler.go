package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/application/movements"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type MovementHandler struct {
	uc *movements.ImportUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movements.ImportUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Import godoc
// @Summary      Importar un lote de movimientos
// @Description  Idempotente sobre (store, sku, source_ref): re-enviar el mismo
//
//	lote cuenta como skipped. Una fila inválida no aborta el lote.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportMovementsRequest  true  "store_id, movements"
// @Success      200  {object}  dto.ImportMovementsResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/import [post]
func (h *MovementHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportMovementsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	result, err := h.uc.Import(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// List godoc
// @Summary      Listar movimientos de la tienda
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        sku            query  string  false  "Filtrar por SKU"
// @Param        movement_type  query  string  false  "Filtrar por tipo"
// @Param        from           query  string  false  "Desde (RFC3339, inclusive)"
// @Param        to             query  string  false  "Hasta (RFC3339, exclusivo)"
// @Param        limit          query  int     false  "Máximo de filas (default 100)"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	f := repository.MovementFilter{
		SKU:          c.Query("sku"),
		MovementType: entity.MovementType(c.Query("movement_type")),
		Limit:        c.QueryInt("limit"),
		Offset:       c.QueryInt("offset"),
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		f.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		f.To = &t
	}
	list, err := h.uc.List(GetStoreID(c), f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:           m.ID,
			StoreID:      m.StoreID,
			SKU:          m.SKU,
			MovementType: string(m.MovementType),
			QtyDelta:     m.QtyDelta,
			OccurredAt:   m.OccurredAt,
			Source:       m.Source,
			SourceRef:    m.SourceRef,
			ImportedAt:   m.ImportedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// SyncStatus godoc
// @Summary      Frescura del libro de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/movements/sync-status [get]
func (h *MovementHandler) SyncStatus(c *fiber.Ctx) error {
	status, err := h.uc.SyncStatus(GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}
