package upstock

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

// BaselineUseCase administra los niveles par (stock objetivo FOH) por
// ubicación. En v1 son solo para reporting: no alimentan la sugerencia de pull.
type BaselineUseCase struct {
	baselineRepo repository.UpstockBaselineRepository
}

// NewBaselineUseCase construye el caso de uso.
func NewBaselineUseCase(baselineRepo repository.UpstockBaselineRepository) *BaselineUseCase {
	return &BaselineUseCase{baselineRepo: baselineRepo}
}

// Upsert aplica un lote de niveles par, único por (store, location, sku).
// Devuelve cuántos se crearon y cuántos se actualizaron.
func (uc *BaselineUseCase) Upsert(ctx context.Context, userID string, in dto.UpsertBaselinesRequest) (*dto.UpsertBaselinesResult, error) {
	if strings.TrimSpace(in.StoreID) == "" || strings.TrimSpace(in.LocationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Baselines) == 0 {
		return nil, fmt.Errorf("%w: baselines vacío", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	result := &dto.UpsertBaselinesResult{}
	for _, item := range in.Baselines {
		if strings.TrimSpace(item.SKU) == "" || item.ParQty < 0 {
			return nil, fmt.Errorf("%w: sku requerido y par_qty >= 0", domain.ErrInvalidInput)
		}
		created, err := uc.baselineRepo.Upsert(&entity.UpstockBaseline{
			StoreID:     in.StoreID,
			LocationID:  in.LocationID,
			SKU:         item.SKU,
			ParQty:      item.ParQty,
			Category:    item.Category,
			Subcategory: item.Subcategory,
			UpdatedAt:   now,
			UpdatedBy:   userID,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert baseline %s: %w", item.SKU, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// List devuelve los niveles par de una ubicación, ordenados por sku.
func (uc *BaselineUseCase) List(ctx context.Context, storeID, locationID string) ([]*entity.UpstockBaseline, error) {
	if strings.TrimSpace(storeID) == "" || strings.TrimSpace(locationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.baselineRepo.List(storeID, locationID)
}
