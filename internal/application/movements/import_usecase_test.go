package movements_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/application/movements"
	"github.com/jhoicas/Conteo-api/internal/domain"
	domaincounting "github.com/jhoicas/Conteo-api/internal/domain/counting"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

type fakeMovementRepo struct {
	movements []*entity.Movement
	seq       int
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	for _, ex := range r.movements {
		if m.SourceRef != "" && ex.StoreID == m.StoreID && ex.SKU == m.SKU && ex.SourceRef == m.SourceRef {
			return fmt.Errorf("insertar movimiento: %w", domain.ErrDuplicate)
		}
	}
	r.seq++
	cp := *m
	cp.ID = fmt.Sprintf("mov-%d", r.seq)
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ExistsBySourceRef(storeID, sku, sourceRef string) (bool, error) {
	for _, m := range r.movements {
		if m.StoreID == storeID && m.SKU == sku && m.SourceRef == sourceRef {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMovementRepo) List(storeID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		if m.StoreID != storeID {
			continue
		}
		if f.SKU != "" && m.SKU != f.SKU {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeMovementRepo) LatestImported(storeID string) (*entity.Movement, error) {
	var latest *entity.Movement
	for _, m := range r.movements {
		if m.StoreID != storeID {
			continue
		}
		if latest == nil || m.OccurredAt.After(latest.OccurredAt) {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeMovementRepo) SumDeltaByWindows(_ context.Context, storeID string, windows []domaincounting.Window) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *fakeMovementRepo) SumSalesBySKU(_ context.Context, storeID, category string, from, to time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func TestImport_LoteValido(t *testing.T) {
	repo := &fakeMovementRepo{}
	uc := movements.NewImportUseCase(repo)
	occurred := time.Date(2025, 12, 23, 14, 30, 0, 0, time.UTC)

	result, err := uc.Import(context.Background(), "sync-1", dto.ImportMovementsRequest{
		StoreID: "store-1",
		Movements: []dto.MovementInput{
			{SKU: "SKU-A", MovementType: "sale", QtyDelta: -3, OccurredAt: occurred, Source: "cova_sync", SourceRef: "tx-001"},
			{SKU: "SKU-B", MovementType: "refund", QtyDelta: 1, OccurredAt: occurred, SourceRef: "tx-002"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	require.Len(t, repo.movements, 2)
	assert.Equal(t, "cova_sync", repo.movements[0].Source)
	assert.Equal(t, "import", repo.movements[1].Source) // default
	assert.Equal(t, "sync-1", repo.movements[0].ImportedBy)
}

func TestImport_ReenvioDelMismoLoteEsIdempotente(t *testing.T) {
	repo := &fakeMovementRepo{}
	uc := movements.NewImportUseCase(repo)
	occurred := time.Date(2025, 12, 23, 14, 30, 0, 0, time.UTC)

	batch := dto.ImportMovementsRequest{
		StoreID: "store-1",
		Movements: []dto.MovementInput{
			{SKU: "SKU-A", MovementType: "sale", QtyDelta: -3, OccurredAt: occurred, SourceRef: "tx-001"},
		},
	}
	first, err := uc.Import(context.Background(), "sync-1", batch)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	second, err := uc.Import(context.Background(), "sync-1", batch)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, repo.movements, 1)
}

func TestImport_FilaInvalidaNoAbortaElLote(t *testing.T) {
	repo := &fakeMovementRepo{}
	uc := movements.NewImportUseCase(repo)
	occurred := time.Date(2025, 12, 23, 14, 30, 0, 0, time.UTC)

	result, err := uc.Import(context.Background(), "sync-1", dto.ImportMovementsRequest{
		StoreID: "store-1",
		Movements: []dto.MovementInput{
			{SKU: "SKU-A", MovementType: "sale", QtyDelta: 3, OccurredAt: occurred, SourceRef: "tx-001"}, // signo inválido
			{SKU: "", MovementType: "sale", QtyDelta: -1, OccurredAt: occurred, SourceRef: "tx-002"},
			{SKU: "SKU-C", MovementType: "teleport", QtyDelta: -1, OccurredAt: occurred, SourceRef: "tx-003"},
			{SKU: "SKU-D", MovementType: "adjustment", QtyDelta: -2, OccurredAt: occurred, SourceRef: "tx-004"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "movements[0]")
	require.Len(t, repo.movements, 1)
	assert.Equal(t, "SKU-D", repo.movements[0].SKU)
}

func TestImport_SinSourceRefNoDeduplica(t *testing.T) {
	repo := &fakeMovementRepo{}
	uc := movements.NewImportUseCase(repo)
	occurred := time.Date(2025, 12, 23, 14, 30, 0, 0, time.UTC)

	row := dto.MovementInput{SKU: "SKU-A", MovementType: "adjustment", QtyDelta: 2, OccurredAt: occurred}
	for i := 0; i < 2; i++ {
		result, err := uc.Import(context.Background(), "sync-1", dto.ImportMovementsRequest{
			StoreID:   "store-1",
			Movements: []dto.MovementInput{row},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
	}
	assert.Len(t, repo.movements, 2)
}

func TestImport_LoteVacioFalla(t *testing.T) {
	uc := movements.NewImportUseCase(&fakeMovementRepo{})

	_, err := uc.Import(context.Background(), "sync-1", dto.ImportMovementsRequest{StoreID: "store-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncStatus_FrescoYDesactualizado(t *testing.T) {
	repo := &fakeMovementRepo{}
	uc := movements.NewImportUseCase(repo)

	// Sin movimientos: sin latest y no sincronizado.
	status, err := uc.SyncStatus("store-1")
	require.NoError(t, err)
	assert.Nil(t, status.LatestMovementAt)
	assert.False(t, status.Synced)

	stale := time.Now().UTC().Add(-3 * time.Hour)
	require.NoError(t, repo.Create(&entity.Movement{
		StoreID: "store-1", SKU: "SKU-A", MovementType: entity.MovementSale,
		QtyDelta: -1, OccurredAt: stale,
	}))
	status, err = uc.SyncStatus("store-1")
	require.NoError(t, err)
	assert.False(t, status.Synced)

	fresh := time.Now().UTC().Add(-10 * time.Minute)
	require.NoError(t, repo.Create(&entity.Movement{
		StoreID: "store-1", SKU: "SKU-A", MovementType: entity.MovementSale,
		QtyDelta: -1, OccurredAt: fresh,
	}))
	status, err = uc.SyncStatus("store-1")
	require.NoError(t, err)
	assert.True(t, status.Synced)
	require.NotNil(t, status.LatestMovementAt)
	assert.Equal(t, fresh, *status.LatestMovementAt)
}

func TestList_FiltraPorSKU(t *testing.T) {
	repo := &fakeMovementRepo{}
	uc := movements.NewImportUseCase(repo)
	occurred := time.Date(2025, 12, 23, 14, 30, 0, 0, time.UTC)

	_, err := uc.Import(context.Background(), "sync-1", dto.ImportMovementsRequest{
		StoreID: "store-1",
		Movements: []dto.MovementInput{
			{SKU: "SKU-A", MovementType: "sale", QtyDelta: -3, OccurredAt: occurred, SourceRef: "tx-001"},
			{SKU: "SKU-B", MovementType: "sale", QtyDelta: -1, OccurredAt: occurred, SourceRef: "tx-002"},
		},
	})
	require.NoError(t, err)

	out, err := uc.List("store-1", repository.MovementFilter{SKU: "SKU-A"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SKU-A", out[0].SKU)

	_, err = uc.List("", repository.MovementFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
