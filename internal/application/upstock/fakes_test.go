package upstock_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	appupstock "github.com/jhoicas/Conteo-api/internal/application/upstock"
	domaincounting "github.com/jhoicas/Conteo-api/internal/domain/counting"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

type fakeRunRepo struct {
	runs map[string]*entity.UpstockRun
	seq  int
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[string]*entity.UpstockRun{}}
}

func (r *fakeRunRepo) Create(run *entity.UpstockRun) error {
	r.seq++
	if run.ID == "" {
		run.ID = fmt.Sprintf("run-%d", r.seq)
	}
	for i, l := range run.Lines {
		l.ID = fmt.Sprintf("%s-line-%d", run.ID, i+1)
		l.RunID = run.ID
	}
	r.runs[run.ID] = copyRun(run, true)
	return nil
}

func (r *fakeRunRepo) GetByID(id string, includeLines bool) (*entity.UpstockRun, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, nil
	}
	return copyRun(run, includeLines), nil
}

func (r *fakeRunRepo) List(storeID string, f repository.RunFilter) ([]*entity.UpstockRun, error) {
	var out []*entity.UpstockRun
	for _, run := range r.runs {
		if run.StoreID != storeID {
			continue
		}
		if f.LocationID != "" && run.LocationID != f.LocationID {
			continue
		}
		if f.Status != "" && run.Status != f.Status {
			continue
		}
		out = append(out, copyRun(run, false))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeRunRepo) LastCompleted(storeID, locationID string) (*entity.UpstockRun, error) {
	var last *entity.UpstockRun
	for _, run := range r.runs {
		if run.StoreID != storeID || run.LocationID != locationID {
			continue
		}
		if run.Status != entity.RunCompleted || run.CompletedAt == nil {
			continue
		}
		if last == nil || run.CompletedAt.After(*last.CompletedAt) {
			last = run
		}
	}
	if last == nil {
		return nil, nil
	}
	return copyRun(last, false), nil
}

func (r *fakeRunRepo) ExistsInProgress(storeID, locationID string) (bool, error) {
	for _, run := range r.runs {
		if run.StoreID == storeID && run.LocationID == locationID && run.Status == entity.RunInProgress {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRunRepo) UpdateStatus(run *entity.UpstockRun) error {
	stored, ok := r.runs[run.ID]
	if !ok {
		return fmt.Errorf("run %s no encontrado", run.ID)
	}
	stored.Status = run.Status
	stored.Notes = run.Notes
	stored.CompletedAt = run.CompletedAt
	stored.CompletedBy = run.CompletedBy
	return nil
}

func (r *fakeRunRepo) GetLine(runID, sku string) (*entity.UpstockRunLine, error) {
	run, ok := r.runs[runID]
	if !ok {
		return nil, nil
	}
	for _, l := range run.Lines {
		if l.SKU == sku {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRunRepo) CountPendingLines(runID string) (int, error) {
	run, ok := r.runs[runID]
	if !ok {
		return 0, nil
	}
	n := 0
	for _, l := range run.Lines {
		if l.Status == entity.LinePending {
			n++
		}
	}
	return n, nil
}

func (r *fakeRunRepo) UpdateLine(line *entity.UpstockRunLine) error {
	run, ok := r.runs[line.RunID]
	if !ok {
		return fmt.Errorf("run %s no encontrado", line.RunID)
	}
	for i, l := range run.Lines {
		if l.SKU == line.SKU {
			cp := *line
			run.Lines[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("línea %s/%s no encontrada", line.RunID, line.SKU)
}

func copyRun(run *entity.UpstockRun, includeLines bool) *entity.UpstockRun {
	cp := *run
	cp.Lines = nil
	if includeLines {
		cp.Lines = make([]*entity.UpstockRunLine, len(run.Lines))
		for i, l := range run.Lines {
			lc := *l
			cp.Lines[i] = &lc
		}
	}
	return &cp
}

// fakeMovementRepo solo implementa lo que el ciclo de upstock consulta; el
// filtro de categoría se resuelve con el mapa categoryBySKU (en la DB real es
// un join contra products).
type fakeMovementRepo struct {
	movements     []*entity.Movement
	categoryBySKU map[string]string
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ExistsBySourceRef(storeID, sku, sourceRef string) (bool, error) {
	return false, nil
}

func (r *fakeMovementRepo) List(storeID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) LatestImported(storeID string) (*entity.Movement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) SumDeltaByWindows(_ context.Context, storeID string, windows []domaincounting.Window) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *fakeMovementRepo) SumSalesBySKU(_ context.Context, storeID, category string, from, to time.Time) (map[string]int, error) {
	result := map[string]int{}
	for _, m := range r.movements {
		if m.StoreID != storeID || m.MovementType != entity.MovementSale {
			continue
		}
		if m.OccurredAt.Before(from) || !m.OccurredAt.Before(to) {
			continue
		}
		if category != "" && r.categoryBySKU[m.SKU] != category {
			continue
		}
		if m.QtyDelta < 0 {
			result[m.SKU] += -m.QtyDelta
		}
	}
	return result, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) LookupByBarcode(barcode string) (*entity.Product, error) {
	if p, ok := r.products[barcode]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetBySKUs(_ context.Context, skus []string) (map[string]*entity.Product, error) {
	result := map[string]*entity.Product{}
	for _, sku := range skus {
		if p, ok := r.products[sku]; ok {
			cp := *p
			result[sku] = &cp
		}
	}
	return result, nil
}

// fakeTxRunner ejecuta el callback directo sobre el fake (sin transacción).
type fakeTxRunner struct {
	runRepo *fakeRunRepo
}

func (r *fakeTxRunner) RunUpstock(_ context.Context, fn func(runRepo repository.UpstockRunRepository) error) error {
	return fn(r.runRepo)
}

type fakeBaselineRepo struct {
	baselines map[string]*entity.UpstockBaseline // key store|location|sku
}

func newFakeBaselineRepo() *fakeBaselineRepo {
	return &fakeBaselineRepo{baselines: map[string]*entity.UpstockBaseline{}}
}

func (r *fakeBaselineRepo) Upsert(b *entity.UpstockBaseline) (bool, error) {
	key := b.StoreID + "|" + b.LocationID + "|" + b.SKU
	_, exists := r.baselines[key]
	cp := *b
	r.baselines[key] = &cp
	return !exists, nil
}

func (r *fakeBaselineRepo) List(storeID, locationID string) ([]*entity.UpstockBaseline, error) {
	var out []*entity.UpstockBaseline
	for _, b := range r.baselines {
		if b.StoreID == storeID && b.LocationID == locationID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

type upstockEnv struct {
	runRepo      *fakeRunRepo
	movementRepo *fakeMovementRepo
	productRepo  *fakeProductRepo
	uc           *appupstock.UseCase
}

func newUpstockEnv() *upstockEnv {
	env := &upstockEnv{
		runRepo:      newFakeRunRepo(),
		movementRepo: &fakeMovementRepo{categoryBySKU: map[string]string{}},
		productRepo:  &fakeProductRepo{products: map[string]*entity.Product{}},
	}
	env.uc = appupstock.NewUseCase(
		env.runRepo, env.movementRepo, env.productRepo,
		&fakeTxRunner{runRepo: env.runRepo},
	)
	return env
}

func (e *upstockEnv) addProduct(sku, name, category string) {
	e.productRepo.products[sku] = &entity.Product{
		ID: "prod-" + sku, SKU: sku, Name: name, Category: category,
		Unit: "each", IsActive: true,
	}
	e.movementRepo.categoryBySKU[sku] = category
}

func (e *upstockEnv) addSale(storeID, sku string, qty int, occurred time.Time) {
	_ = e.movementRepo.Create(&entity.Movement{
		StoreID:      storeID,
		SKU:          sku,
		MovementType: entity.MovementSale,
		QtyDelta:     -qty,
		OccurredAt:   occurred,
		Source:       "cova_sync",
		ImportedAt:   occurred,
	})
}
