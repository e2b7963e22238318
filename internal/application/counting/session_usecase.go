package counting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// Fuentes de baseline soportadas.
const (
	BaselineSourcePOS    = "pos_snapshot"
	BaselineSourceManual = "manual"
)

// SessionUseCase gobierna el ciclo de vida de sesiones, passes y líneas de
// conteo. Las transiciones de estado son monótonas (una sesión cerrada no se
// reabre; un pass enviado no admite más líneas) y el baseline se captura una
// sola vez, al crear la sesión.
type SessionUseCase struct {
	sessionRepo  repository.CountSessionRepository
	passRepo     repository.CountPassRepository
	lineRepo     repository.CountLineRepository
	baselineRepo repository.SessionBaselineRepository
	snapshotRepo repository.InventorySnapshotRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	txRunner     TxRunner
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	sessionRepo repository.CountSessionRepository,
	passRepo repository.CountPassRepository,
	lineRepo repository.CountLineRepository,
	baselineRepo repository.SessionBaselineRepository,
	snapshotRepo repository.InventorySnapshotRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	txRunner TxRunner,
) *SessionUseCase {
	return &SessionUseCase{
		sessionRepo:  sessionRepo,
		passRepo:     passRepo,
		lineRepo:     lineRepo,
		baselineRepo: baselineRepo,
		snapshotRepo: snapshotRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		txRunner:     txRunner,
	}
}

// CreateSession crea la sesión en draft y captura el baseline según la fuente:
// pos_snapshot toma el inventario vigente de la tienda; manual usa la lista
// del request. El baseline capturado es inmutable durante la vida de la sesión.
func (uc *SessionUseCase) CreateSession(ctx context.Context, userID string, in dto.CreateSessionRequest) (*entity.CountSession, error) {
	if strings.TrimSpace(in.StoreID) == "" {
		return nil, domain.ErrInvalidInput
	}
	source := in.BaselineSource
	if source == "" {
		source = BaselineSourcePOS
	}

	now := time.Now().UTC()
	var baseline map[string]int
	switch source {
	case BaselineSourcePOS:
		snap, err := uc.snapshotRepo.SnapshotBySKU(ctx, in.StoreID)
		if err != nil {
			return nil, fmt.Errorf("capturar baseline: %w", err)
		}
		baseline = snap
	case BaselineSourceManual:
		baseline = make(map[string]int, len(in.ManualBaseline))
		for _, e := range in.ManualBaseline {
			if strings.TrimSpace(e.SKU) == "" || e.Qty < 0 {
				return nil, domain.ErrInvalidInput
			}
			baseline[e.SKU] = e.Qty
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	session := &entity.CountSession{
		StoreID:            in.StoreID,
		Status:             entity.SessionDraft,
		Notes:              strings.TrimSpace(in.Notes),
		BaselineSource:     source,
		BaselineCapturedAt: now,
		CreatedBy:          userID,
		CreatedAt:          now,
	}
	if err := uc.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	if len(baseline) > 0 {
		if err := uc.baselineRepo.BulkInsert(session.ID, baseline); err != nil {
			return nil, fmt.Errorf("guardar baseline: %w", err)
		}
	}
	return session, nil
}

// GetSession devuelve la sesión o ErrNotFound.
func (uc *SessionUseCase) GetSession(id string) (*entity.CountSession, error) {
	session, err := uc.sessionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// ListSessions lista las sesiones de una tienda, más recientes primero.
func (uc *SessionUseCase) ListSessions(storeID string, f repository.SessionFilter) ([]*entity.CountSession, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return uc.sessionRepo.List(storeID, f)
}

// StartSession pasa la sesión de draft a in_progress.
func (uc *SessionUseCase) StartSession(id string) (*entity.CountSession, error) {
	return uc.transitionSession(id, entity.SessionInProgress, "")
}

// SubmitSession pasa la sesión a submitted. Exige que no queden passes
// in_progress: cerrado el conteo, la sesión queda lista para reconciliar.
func (uc *SessionUseCase) SubmitSession(id string) (*entity.CountSession, error) {
	session, err := uc.GetSession(id)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(entity.SessionSubmitted) {
		return nil, domain.ErrInvalidTransition
	}
	open, err := uc.passRepo.CountInProgress(id)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, fmt.Errorf("%w: %d passes in_progress", domain.ErrOpenPasses, open)
	}
	session.Status = entity.SessionSubmitted
	if err := uc.sessionRepo.UpdateStatus(session); err != nil {
		return nil, err
	}
	return session, nil
}

// CloseSession cierra la sesión (terminal, sin reapertura).
func (uc *SessionUseCase) CloseSession(id, userID string) (*entity.CountSession, error) {
	return uc.transitionSession(id, entity.SessionClosed, userID)
}

func (uc *SessionUseCase) transitionSession(id string, next entity.SessionStatus, userID string) (*entity.CountSession, error) {
	session, err := uc.GetSession(id)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(next) {
		if session.Status == entity.SessionClosed {
			return nil, domain.ErrSessionClosed
		}
		return nil, domain.ErrInvalidTransition
	}
	session.Status = next
	if next == entity.SessionClosed {
		now := time.Now().UTC()
		session.ClosedAt = &now
		session.ClosedBy = userID
	}
	if err := uc.sessionRepo.UpdateStatus(session); err != nil {
		return nil, err
	}
	return session, nil
}

// CreatePass abre un nuevo pass de conteo en la sesión. Solo se admiten passes
// mientras la sesión está en draft o in_progress; crear el primero sobre una
// sesión draft la arranca automáticamente.
func (uc *SessionUseCase) CreatePass(ctx context.Context, sessionID, userID string, in dto.CreatePassRequest) (*entity.CountPass, error) {
	session, err := uc.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.AcceptsPasses() {
		return nil, fmt.Errorf("%w: la sesión está %s", domain.ErrInvalidTransition, session.Status)
	}
	if strings.TrimSpace(in.LocationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil || location.StoreID != session.StoreID {
		return nil, domain.ErrInvalidInput
	}

	if session.Status == entity.SessionDraft {
		session.Status = entity.SessionInProgress
		if err := uc.sessionRepo.UpdateStatus(session); err != nil {
			return nil, err
		}
	}

	scanMode := strings.TrimSpace(in.ScanMode)
	if scanMode == "" {
		scanMode = "scanner"
	}
	pass := &entity.CountPass{
		SessionID:   sessionID,
		LocationID:  in.LocationID,
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		Status:      entity.PassInProgress,
		StartedAt:   time.Now().UTC(),
		StartedBy:   userID,
		DeviceID:    strings.TrimSpace(in.DeviceID),
		ScanMode:    scanMode,
	}
	if err := uc.passRepo.Create(pass); err != nil {
		return nil, err
	}
	return pass, nil
}

// GetPass devuelve el pass o ErrNotFound.
func (uc *SessionUseCase) GetPass(id string) (*entity.CountPass, error) {
	pass, err := uc.passRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, domain.ErrNotFound
	}
	return pass, nil
}

// ListPasses lista los passes de una sesión.
func (uc *SessionUseCase) ListPasses(sessionID string) ([]*entity.CountPass, error) {
	return uc.passRepo.ListBySession(sessionID)
}

// SubmitPass envía el pass: fija submitted_at (cierra la ventana del pass) y
// lo hace visible para la varianza. Es definitivo: no se agregan ni editan más
// líneas; una corrección requiere un pass nuevo. Corre en transacción con la
// fila del pass bloqueada para no competir con inserciones de líneas.
func (uc *SessionUseCase) SubmitPass(ctx context.Context, passID, userID string) (*entity.CountPass, error) {
	var submitted *entity.CountPass
	err := uc.txRunner.Run(ctx, func(passRepo repository.CountPassRepository, _ repository.CountLineRepository) error {
		pass, err := passRepo.GetForUpdate(passID)
		if err != nil {
			return err
		}
		if pass == nil {
			return domain.ErrNotFound
		}
		if !pass.Status.CanTransitionTo(entity.PassSubmitted) {
			return domain.ErrPassSubmitted
		}
		now := time.Now().UTC()
		pass.Status = entity.PassSubmitted
		pass.SubmittedAt = &now
		pass.SubmittedBy = userID
		if err := passRepo.UpdateStatus(pass); err != nil {
			return err
		}
		submitted = pass
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submitted, nil
}

// VoidPass anula el pass. Solo alcanzable desde in_progress; los passes
// anulados quedan fuera de toda agregación.
func (uc *SessionUseCase) VoidPass(ctx context.Context, passID string) (*entity.CountPass, error) {
	var voided *entity.CountPass
	err := uc.txRunner.Run(ctx, func(passRepo repository.CountPassRepository, _ repository.CountLineRepository) error {
		pass, err := passRepo.GetForUpdate(passID)
		if err != nil {
			return err
		}
		if pass == nil {
			return domain.ErrNotFound
		}
		if !pass.Status.CanTransitionTo(entity.PassVoided) {
			return domain.ErrInvalidTransition
		}
		pass.Status = entity.PassVoided
		if err := passRepo.UpdateStatus(pass); err != nil {
			return err
		}
		voided = pass
		return nil
	})
	if err != nil {
		return nil, err
	}
	return voided, nil
}

// AddLine registra un escaneo/digitación en el pass. Resuelve el barcode contra
// el catálogo, valida el scope de categoría del pass y, si el SKU ya tiene
// línea en este pass, incrementa la cantidad en vez de duplicar. Corre con la
// fila del pass bloqueada: si el submit ya se observó, la escritura se rechaza.
func (uc *SessionUseCase) AddLine(ctx context.Context, passID, userID string, in dto.AddLineRequest) (*dto.AddLineResponse, error) {
	barcode := strings.TrimSpace(in.Barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	qty := in.CountedQty
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, domain.ErrInvalidInput
	}
	confidence := entity.LineConfidence(in.Confidence)
	if in.Confidence == "" {
		confidence = entity.ConfidenceScanned
	}
	if !confidence.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.LookupByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: barcode %s", domain.ErrNotFound, barcode)
	}

	var resp *dto.AddLineResponse
	err = uc.txRunner.Run(ctx, func(passRepo repository.CountPassRepository, lineRepo repository.CountLineRepository) error {
		pass, err := passRepo.GetForUpdate(passID)
		if err != nil {
			return err
		}
		if pass == nil {
			return domain.ErrNotFound
		}
		if pass.Status != entity.PassInProgress {
			return domain.ErrPassSubmitted
		}
		if err := validateScope(pass, product); err != nil {
			return err
		}

		now := time.Now().UTC()
		existing, err := lineRepo.GetByPassAndSKU(passID, product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			previous := existing.CountedQty
			existing.CountedQty += qty
			existing.CapturedAt = now
			existing.CapturedBy = userID
			if n := strings.TrimSpace(in.Notes); n != "" {
				existing.Notes = n
			}
			if err := lineRepo.Update(existing); err != nil {
				return err
			}
			resp = &dto.AddLineResponse{
				Line:        lineToDTO(existing),
				Incremented: true,
				PreviousQty: previous,
			}
			return nil
		}

		line := &entity.CountLine{
			PassID:     passID,
			SKU:        product.SKU,
			Barcode:    barcode,
			PackageID:  strings.TrimSpace(in.PackageID),
			CountedQty: qty,
			Unit:       product.Unit,
			Confidence: confidence,
			Notes:      strings.TrimSpace(in.Notes),
			CapturedAt: now,
			CapturedBy: userID,
		}
		if err := lineRepo.Create(line); err != nil {
			return err
		}
		resp = &dto.AddLineResponse{
			Line: lineToDTO(line),
			Product: &dto.ProductInfo{
				SKU:         product.SKU,
				Name:        product.Name,
				Brand:       product.Brand,
				Category:    product.Category,
				Subcategory: product.Subcategory,
				Unit:        product.Unit,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// validateScope rechaza productos fuera del scope de categoría del pass.
func validateScope(pass *entity.CountPass, product *entity.Product) error {
	if pass.Category != "" && product.Category != "" &&
		!strings.EqualFold(pass.Category, product.Category) {
		return fmt.Errorf("%w: el pass cuenta %q y el producto es %q",
			domain.ErrInvalidInput, pass.Category, product.Category)
	}
	if pass.Subcategory != "" && product.Subcategory != "" &&
		!strings.EqualFold(pass.Subcategory, product.Subcategory) {
		return fmt.Errorf("%w: el pass cuenta %q y el producto es %q",
			domain.ErrInvalidInput, pass.Subcategory, product.Subcategory)
	}
	return nil
}

// ListLines lista las líneas de un pass.
func (uc *SessionUseCase) ListLines(passID string) ([]*entity.CountLine, error) {
	return uc.lineRepo.ListByPass(passID)
}

// UpdateLine corrige una línea manualmente; marca confidence=corrected. Solo
// legal mientras el pass dueño está in_progress.
func (uc *SessionUseCase) UpdateLine(ctx context.Context, lineID, userID string, in dto.UpdateLineRequest) (*entity.CountLine, error) {
	var updated *entity.CountLine
	err := uc.txRunner.Run(ctx, func(passRepo repository.CountPassRepository, lineRepo repository.CountLineRepository) error {
		line, err := lineRepo.GetByID(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		pass, err := passRepo.GetForUpdate(line.PassID)
		if err != nil {
			return err
		}
		if pass == nil || pass.Status != entity.PassInProgress {
			return domain.ErrPassSubmitted
		}
		if in.CountedQty != nil {
			if *in.CountedQty <= 0 {
				return domain.ErrInvalidInput
			}
			line.CountedQty = *in.CountedQty
		}
		if in.Notes != nil {
			line.Notes = strings.TrimSpace(*in.Notes)
		}
		line.Confidence = entity.ConfidenceCorrected
		line.CapturedAt = time.Now().UTC()
		line.CapturedBy = userID
		if err := lineRepo.Update(line); err != nil {
			return err
		}
		updated = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLine deshace un escaneo. Solo legal mientras el pass dueño está
// in_progress.
func (uc *SessionUseCase) DeleteLine(ctx context.Context, lineID string) error {
	return uc.txRunner.Run(ctx, func(passRepo repository.CountPassRepository, lineRepo repository.CountLineRepository) error {
		line, err := lineRepo.GetByID(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		pass, err := passRepo.GetForUpdate(line.PassID)
		if err != nil {
			return err
		}
		if pass == nil || pass.Status != entity.PassInProgress {
			return domain.ErrPassSubmitted
		}
		return lineRepo.Delete(lineID)
	})
}

// lineToDTO serializa una línea.
func lineToDTO(l *entity.CountLine) dto.LineResponse {
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
