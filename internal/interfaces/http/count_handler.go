package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// CountHandler maneja las peticiones HTTP de sesiones, passes y líneas de
// conteo, y la reconciliación de varianza (protegido).
type CountHandler struct {
	sessions *counting.SessionUseCase
	variance *counting.VarianceUseCase
	pdfGen   counting.VariancePDFGenerator
}

// NewCountHandler construye el handler.
func NewCountHandler(sessions *counting.SessionUseCase, variance *counting.VarianceUseCase, pdfGen counting.VariancePDFGenerator) *CountHandler {
	return &CountHandler{sessions: sessions, variance: variance, pdfGen: pdfGen}
}

// CreateSession godoc
// @Summary      Crear sesión de conteo (captura el baseline)
// @Tags         count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "store_id, baseline_source (pos_snapshot|manual)"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/count/sessions [post]
func (h *CountHandler) CreateSession(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	session, err := h.sessions.CreateSession(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionToDTO(session, nil))
}

// ListSessions godoc
// @Summary      Listar sesiones de conteo de la tienda
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Máximo de filas (default 50)"
// @Success      200  {array}  dto.SessionResponse
// @Router       /api/count/sessions [get]
func (h *CountHandler) ListSessions(c *fiber.Ctx) error {
	f := repository.SessionFilter{
		Status: entity.SessionStatus(c.Query("status")),
		Limit:  c.QueryInt("limit"),
	}
	sessions, err := h.sessions.ListSessions(GetStoreID(c), f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionToDTO(s, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "sessions": out})
}

// GetSession godoc
// @Summary      Detalle de una sesión con sus passes
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/count/sessions/{id} [get]
func (h *CountHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.sessions.GetSession(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	passes, err := h.sessions.ListPasses(session.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(session, passes))
}

// StartSession godoc
// @Summary      Arrancar sesión (draft -> in_progress)
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/sessions/{id}/start [post]
func (h *CountHandler) StartSession(c *fiber.Ctx) error {
	session, err := h.sessions.StartSession(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(session, nil))
}

// SubmitSession godoc
// @Summary      Enviar sesión (exige cero passes in_progress)
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/sessions/{id}/submit [post]
func (h *CountHandler) SubmitSession(c *fiber.Ctx) error {
	session, err := h.sessions.SubmitSession(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(session, nil))
}

// CloseSession godoc
// @Summary      Cerrar sesión (terminal)
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/sessions/{id}/close [post]
func (h *CountHandler) CloseSession(c *fiber.Ctx) error {
	session, err := h.sessions.CloseSession(c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionToDTO(session, nil))
}

// CreatePass godoc
// @Summary      Abrir un pass de conteo en la sesión
// @Tags         count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la sesión"
// @Param        body  body  dto.CreatePassRequest  true  "location_id, scope opcional"
// @Success      201  {object}  dto.PassResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/sessions/{id}/passes [post]
func (h *CountHandler) CreatePass(c *fiber.Ctx) error {
	var in dto.CreatePassRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pass, err := h.sessions.CreatePass(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(passToDTO(pass, nil))
}

// ListPasses godoc
// @Summary      Listar los passes de una sesión
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {array}  dto.PassResponse
// @Router       /api/count/sessions/{id}/passes [get]
func (h *CountHandler) ListPasses(c *fiber.Ctx) error {
	passes, err := h.sessions.ListPasses(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PassResponse, 0, len(passes))
	for _, p := range passes {
		out = append(out, passToDTO(p, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "passes": out})
}

// GetPass godoc
// @Summary      Detalle de un pass con sus líneas
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pass"
// @Success      200  {object}  dto.PassResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/count/passes/{id} [get]
func (h *CountHandler) GetPass(c *fiber.Ctx) error {
	pass, err := h.sessions.GetPass(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	lines, err := h.sessions.ListLines(pass.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(passToDTO(pass, lines))
}

// SubmitPass godoc
// @Summary      Enviar pass (cierra su ventana; definitivo)
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pass"
// @Success      200  {object}  dto.PassResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/passes/{id}/submit [post]
func (h *CountHandler) SubmitPass(c *fiber.Ctx) error {
	pass, err := h.sessions.SubmitPass(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(passToDTO(pass, nil))
}

// VoidPass godoc
// @Summary      Anular pass (sus líneas quedan fuera de toda agregación)
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pass"
// @Success      200  {object}  dto.PassResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/passes/{id}/void [post]
func (h *CountHandler) VoidPass(c *fiber.Ctx) error {
	pass, err := h.sessions.VoidPass(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(passToDTO(pass, nil))
}

// AddLine godoc
// @Summary      Registrar un escaneo en el pass
// @Description  Resuelve el barcode contra el catálogo; un re-escaneo del mismo
//
//	SKU incrementa la línea existente en vez de duplicarla.
//
// @Tags         count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del pass"
// @Param        body  body  dto.AddLineRequest  true  "barcode, counted_qty (default 1)"
// @Success      201  {object}  dto.AddLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/passes/{id}/lines [post]
func (h *CountHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.sessions.AddLine(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusCreated
	if resp.Incremented {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(resp)
}

// ListLines godoc
// @Summary      Listar las líneas de un pass
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pass"
// @Success      200  {array}  dto.LineResponse
// @Router       /api/count/passes/{id}/lines [get]
func (h *CountHandler) ListLines(c *fiber.Ctx) error {
	lines, err := h.sessions.ListLines(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineToResponse(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "lines": out})
}

// UpdateLine godoc
// @Summary      Corregir una línea (marca confidence=corrected)
// @Tags         count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la línea"
// @Param        body  body  dto.UpdateLineRequest  true  "counted_qty y/o notes"
// @Success      200  {object}  dto.LineResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/lines/{id} [put]
func (h *CountHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.sessions.UpdateLine(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lineToResponse(line))
}

// DeleteLine godoc
// @Summary      Deshacer un escaneo (solo con el pass in_progress)
// @Tags         count
// @Security     Bearer
// @Param        id  path  string  true  "ID de la línea"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count/lines/{id} [delete]
func (h *CountHandler) DeleteLine(c *fiber.Ctx) error {
	if err := h.sessions.DeleteLine(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetVariance godoc
// @Summary      Reporte de varianza de la sesión
// @Description  variance = contado - (baseline + delta de movimientos en las
//
//	ventanas de los passes enviados). Idempotente: se puede re-ejecutar
//	tras cada import de movimientos.
//
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        id             path   string  true   "ID de la sesión"
// @Param        non_zero_only  query  bool    false  "Solo SKUs con varianza distinta de cero"
// @Success      200  {object}  dto.VarianceReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/count/sessions/{id}/variance [get]
func (h *CountHandler) GetVariance(c *fiber.Ctx) error {
	report, err := h.variance.Calculate(c.Context(), c.Params("id"), c.QueryBool("non_zero_only"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetVariancePDF godoc
// @Summary      Reporte de varianza en PDF
// @Tags         count
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/count/sessions/{id}/variance/pdf [get]
func (h *CountHandler) GetVariancePDF(c *fiber.Ctx) error {
	report, err := h.variance.Calculate(c.Context(), c.Params("id"), false)
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, err := h.pdfGen.GenerateVariancePDF(c.Context(), report)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="variance-`+report.SessionID+`.pdf"`)
	return c.Send(pdfBytes)
}

// ── serializadores ────────────────────────────────────────────────────────────

func sessionToDTO(s *entity.CountSession, passes []*entity.CountPass) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:                 s.ID,
		StoreID:            s.StoreID,
		Status:             string(s.Status),
		Notes:              s.Notes,
		BaselineSource:     s.BaselineSource,
		BaselineCapturedAt: s.BaselineCapturedAt,
		CreatedBy:          s.CreatedBy,
		CreatedAt:          s.CreatedAt,
		ClosedAt:           s.ClosedAt,
	}
	if passes != nil {
		resp.PassCount = len(passes)
		resp.Passes = make([]dto.PassResponse, 0, len(passes))
		for _, p := range passes {
			if p.Status == entity.PassSubmitted {
				resp.SubmittedPassCount++
			}
			resp.Passes = append(resp.Passes, passToDTO(p, nil))
		}
	}
	return resp
}

func passToDTO(p *entity.CountPass, lines []*entity.CountLine) dto.PassResponse {
	resp := dto.PassResponse{
		ID:          p.ID,
		SessionID:   p.SessionID,
		LocationID:  p.LocationID,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Status:      string(p.Status),
		StartedAt:   p.StartedAt,
		SubmittedAt: p.SubmittedAt,
		StartedBy:   p.StartedBy,
		DeviceID:    p.DeviceID,
		ScanMode:    p.ScanMode,
	}
	if lines != nil {
		resp.LineCount = len(lines)
		resp.Lines = make([]dto.LineResponse, 0, len(lines))
		for _, l := range lines {
			resp.TotalCounted += l.CountedQty
			resp.Lines = append(resp.Lines, lineToResponse(l))
		}
	}
	return resp
}

func lineToResponse(l *entity.CountLine) dto.LineResponse {
	return dto.LineResponse{
		ID:         l.ID,
		PassID:     l.PassID,
		SKU:        l.SKU,
		Barcode:    l.Barcode,
		PackageID:  l.PackageID,
		CountedQty: l.CountedQty,
		Unit:       l.Unit,
		Confidence: string(l.Confidence),
		Notes:      l.Notes,
		CapturedAt: l.CapturedAt,
		CapturedBy: l.CapturedBy,
	}
}
