package movements

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

// staleAfter a partir de cuánto silencio del importador el libro se reporta
// como desincronizado.
const staleAfter = 2 * time.Hour

// ImportUseCase recibe lotes de movimientos del sync externo (POS/ERP) y los
// anexa al libro. El libro es la única fuente del delta de movimientos para
// varianza y para las listas de pull.
type ImportUseCase struct {
	movementRepo repository.MovementRepository
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(movementRepo repository.MovementRepository) *ImportUseCase {
	return &ImportUseCase{movementRepo: movementRepo}
}

// Import anexa un lote. Idempotente sobre (store, sku, source_ref): el mismo
// lote re-enviado cuenta como skipped, no duplica. Una fila inválida no aborta
// el lote: se reporta en errors y se sigue con la siguiente.
func (uc *ImportUseCase) Import(ctx context.Context, userID string, in dto.ImportMovementsRequest) (*dto.ImportMovementsResult, error) {
	if strings.TrimSpace(in.StoreID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Movements) == 0 {
		return nil, fmt.Errorf("%w: movements vacío", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	result := &dto.ImportMovementsResult{}
	for i, m := range in.Movements {
		if err := validateInput(m); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("movements[%d] sku=%s: %v", i, m.SKU, err))
			continue
		}
		if m.SourceRef != "" {
			exists, err := uc.movementRepo.ExistsBySourceRef(in.StoreID, m.SKU, m.SourceRef)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Skipped++
				continue
			}
		}
		source := m.Source
		if source == "" {
			source = "import"
		}
		err := uc.movementRepo.Create(&entity.Movement{
			StoreID:      in.StoreID,
			SKU:          m.SKU,
			MovementType: entity.MovementType(m.MovementType),
			QtyDelta:     m.QtyDelta,
			OccurredAt:   m.OccurredAt.UTC(),
			Source:       source,
			SourceRef:    m.SourceRef,
			ImportedAt:   now,
			ImportedBy:   userID,
		})
		if err != nil {
			if domain.IsDuplicate(err) {
				// carrera con otro import del mismo lote
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Imported++
	}
	return result, nil
}

func validateInput(m dto.MovementInput) error {
	if strings.TrimSpace(m.SKU) == "" {
		return fmt.Errorf("%w: sku requerido", domain.ErrInvalidInput)
	}
	mt := entity.MovementType(m.MovementType)
	if !mt.IsValid() {
		return fmt.Errorf("%w: movement_type %q", domain.ErrInvalidInput, m.MovementType)
	}
	if !mt.SignMatches(m.QtyDelta) {
		return fmt.Errorf("%w: qty_delta %d no corresponde al tipo %s", domain.ErrInvalidInput, m.QtyDelta, mt)
	}
	if m.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at requerido", domain.ErrInvalidInput)
	}
	return nil
}

// List lista movimientos de una tienda con filtros.
func (uc *ImportUseCase) List(storeID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if f.Limit <= 0 {
		f.Limit = 100
	}
	return uc.movementRepo.List(storeID, f)
}

// SyncStatus reporta la frescura del libro: el occurred_at del movimiento
// importado más reciente y si cae dentro de la ventana de tolerancia.
func (uc *ImportUseCase) SyncStatus(storeID string) (*dto.SyncStatusResponse, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, domain.ErrInvalidInput
	}
	latest, err := uc.movementRepo.LatestImported(storeID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SyncStatusResponse{StoreID: storeID}
	if latest != nil {
		t := latest.OccurredAt
		resp.LatestMovementAt = &t
		resp.Synced = time.Since(t) <= staleAfter
	}
	return resp, nil
}
