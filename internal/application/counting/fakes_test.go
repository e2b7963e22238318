package counting_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	appcounting "github.com/jhoicas/Conteo-api/internal/application/counting"
	domaincounting "github.com/jhoicas/Conteo-api/internal/domain/counting"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de repositorio
// ──────────────────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions map[string]*entity.CountSession
	seq      int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.CountSession{}}
}

func (r *fakeSessionRepo) Create(s *entity.CountSession) error {
	r.seq++
	if s.ID == "" {
		s.ID = fmt.Sprintf("sess-%d", r.seq)
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(id string) (*entity.CountSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) List(storeID string, f repository.SessionFilter) ([]*entity.CountSession, error) {
	var out []*entity.CountSession
	for _, s := range r.sessions {
		if s.StoreID != storeID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateStatus(s *entity.CountSession) error {
	stored, ok := r.sessions[s.ID]
	if !ok {
		return fmt.Errorf("sesión %s no encontrada", s.ID)
	}
	stored.Status = s.Status
	stored.Notes = s.Notes
	stored.ClosedAt = s.ClosedAt
	stored.ClosedBy = s.ClosedBy
	return nil
}

type fakePassRepo struct {
	passes map[string]*entity.CountPass
	seq    int
}

func newFakePassRepo() *fakePassRepo {
	return &fakePassRepo{passes: map[string]*entity.CountPass{}}
}

func (r *fakePassRepo) Create(p *entity.CountPass) error {
	r.seq++
	if p.ID == "" {
		p.ID = fmt.Sprintf("pass-%d", r.seq)
	}
	cp := *p
	r.passes[p.ID] = &cp
	return nil
}

func (r *fakePassRepo) GetByID(id string) (*entity.CountPass, error) {
	p, ok := r.passes[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePassRepo) GetForUpdate(id string) (*entity.CountPass, error) {
	return r.GetByID(id)
}

func (r *fakePassRepo) ListBySession(sessionID string) ([]*entity.CountPass, error) {
	var out []*entity.CountPass
	for _, p := range r.passes {
		if p.SessionID == sessionID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (r *fakePassRepo) CountInProgress(sessionID string) (int, error) {
	n := 0
	for _, p := range r.passes {
		if p.SessionID == sessionID && p.Status == entity.PassInProgress {
			n++
		}
	}
	return n, nil
}

func (r *fakePassRepo) UpdateStatus(p *entity.CountPass) error {
	stored, ok := r.passes[p.ID]
	if !ok {
		return fmt.Errorf("pass %s no encontrado", p.ID)
	}
	stored.Status = p.Status
	stored.SubmittedAt = p.SubmittedAt
	stored.SubmittedBy = p.SubmittedBy
	return nil
}

type fakeLineRepo struct {
	lines    map[string]*entity.CountLine
	passRepo *fakePassRepo
	seq      int
}

func newFakeLineRepo(passRepo *fakePassRepo) *fakeLineRepo {
	return &fakeLineRepo{lines: map[string]*entity.CountLine{}, passRepo: passRepo}
}

func (r *fakeLineRepo) Create(l *entity.CountLine) error {
	r.seq++
	if l.ID == "" {
		l.ID = fmt.Sprintf("line-%d", r.seq)
	}
	cp := *l
	r.lines[l.ID] = &cp
	return nil
}

func (r *fakeLineRepo) GetByID(id string) (*entity.CountLine, error) {
	l, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLineRepo) GetByPassAndSKU(passID, sku string) (*entity.CountLine, error) {
	for _, l := range r.lines {
		if l.PassID == passID && l.SKU == sku {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLineRepo) ListByPass(passID string) ([]*entity.CountLine, error) {
	var out []*entity.CountLine
	for _, l := range r.lines {
		if l.PassID == passID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CapturedAt.Before(out[j].CapturedAt) })
	return out, nil
}

func (r *fakeLineRepo) Update(l *entity.CountLine) error {
	if _, ok := r.lines[l.ID]; !ok {
		return fmt.Errorf("línea %s no encontrada", l.ID)
	}
	cp := *l
	r.lines[l.ID] = &cp
	return nil
}

func (r *fakeLineRepo) Delete(id string) error {
	if _, ok := r.lines[id]; !ok {
		return fmt.Errorf("línea %s no encontrada", id)
	}
	delete(r.lines, id)
	return nil
}

func (r *fakeLineRepo) SumCountedBySKU(_ context.Context, sessionID string) (map[string]int, error) {
	result := map[string]int{}
	for _, l := range r.lines {
		p := r.passRepo.passes[l.PassID]
		if p == nil || p.SessionID != sessionID || p.Status != entity.PassSubmitted {
			continue
		}
		result[l.SKU] += l.CountedQty
	}
	return result, nil
}

type fakeBaselineRepo struct {
	bySession map[string]map[string]int
}

func newFakeBaselineRepo() *fakeBaselineRepo {
	return &fakeBaselineRepo{bySession: map[string]map[string]int{}}
}

func (r *fakeBaselineRepo) BulkInsert(sessionID string, qtyBySKU map[string]int) error {
	cp := make(map[string]int, len(qtyBySKU))
	for k, v := range qtyBySKU {
		cp[k] = v
	}
	r.bySession[sessionID] = cp
	return nil
}

func (r *fakeBaselineRepo) GetBySession(_ context.Context, sessionID string) (map[string]int, error) {
	cp := map[string]int{}
	for k, v := range r.bySession[sessionID] {
		cp[k] = v
	}
	return cp, nil
}

func (r *fakeBaselineRepo) HasBaseline(sessionID string) (bool, error) {
	return len(r.bySession[sessionID]) > 0, nil
}

type fakeSnapshotRepo struct {
	byStore map[string]map[string]int
}

func (r *fakeSnapshotRepo) SnapshotBySKU(_ context.Context, storeID string) (map[string]int, error) {
	cp := map[string]int{}
	for k, v := range r.byStore[storeID] {
		cp[k] = v
	}
	return cp, nil
}

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func (r *fakeLocationRepo) Create(l *entity.Location) error {
	if r.locations == nil {
		r.locations = map[string]*entity.Location{}
	}
	if l.ID == "" {
		l.ID = "loc-" + l.Code
	}
	cp := *l
	r.locations[l.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLocationRepo) ListByStore(storeID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.locations {
		if l.StoreID == storeID && l.IsActive {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product // por sku
}

func (r *fakeProductRepo) LookupByBarcode(barcode string) (*entity.Product, error) {
	if p, ok := r.products[barcode]; ok {
		cp := *p
		return &cp, nil
	}
	for _, p := range r.products {
		if strings.EqualFold(p.VendorSKU, barcode) {
			cp := *p
			return &cp, nil
		}
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

type fakeMovementRepo struct {
	movements []*entity.Movement
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	cp := *m
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
		if m.StoreID == storeID {
			cp := *m
			out = append(out, &cp)
		}
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
	result := map[string]int{}
	for _, m := range r.movements {
		if m.StoreID != storeID {
			continue
		}
		if domaincounting.AnyContains(windows, m.OccurredAt) {
			result[m.SKU] += m.QtyDelta
		}
	}
	return result, nil
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
		if m.QtyDelta < 0 {
			result[m.SKU] += -m.QtyDelta
		}
	}
	return result, nil
}

// fakeTxRunner ejecuta el callback directo sobre los fakes (sin transacción).
type fakeTxRunner struct {
	passRepo *fakePassRepo
	lineRepo *fakeLineRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	passRepo repository.CountPassRepository,
	lineRepo repository.CountLineRepository,
) error) error {
	return fn(r.passRepo, r.lineRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del entorno de test
// ──────────────────────────────────────────────────────────────────────────────

type countingEnv struct {
	sessionRepo  *fakeSessionRepo
	passRepo     *fakePassRepo
	lineRepo     *fakeLineRepo
	baselineRepo *fakeBaselineRepo
	snapshotRepo *fakeSnapshotRepo
	locationRepo *fakeLocationRepo
	productRepo  *fakeProductRepo
	movementRepo *fakeMovementRepo
	sessions     *appcounting.SessionUseCase
}

func newCountingEnv() *countingEnv {
	passRepo := newFakePassRepo()
	lineRepo := newFakeLineRepo(passRepo)
	env := &countingEnv{
		sessionRepo:  newFakeSessionRepo(),
		passRepo:     passRepo,
		lineRepo:     lineRepo,
		baselineRepo: newFakeBaselineRepo(),
		snapshotRepo: &fakeSnapshotRepo{byStore: map[string]map[string]int{}},
		locationRepo: &fakeLocationRepo{locations: map[string]*entity.Location{}},
		productRepo:  &fakeProductRepo{products: map[string]*entity.Product{}},
		movementRepo: &fakeMovementRepo{},
	}
	env.sessions = appcounting.NewSessionUseCase(
		env.sessionRepo, env.passRepo, env.lineRepo, env.baselineRepo,
		env.snapshotRepo, env.locationRepo, env.productRepo,
		&fakeTxRunner{passRepo: passRepo, lineRepo: lineRepo},
	)
	return env
}

func (e *countingEnv) variance(policy string) *appcounting.VarianceUseCase {
	return appcounting.NewVarianceUseCase(
		e.sessionRepo, e.passRepo, e.lineRepo, e.baselineRepo,
		e.movementRepo, e.productRepo, policy,
	)
}

func (e *countingEnv) addProduct(sku, vendorSKU, name, category, subcategory string) {
	e.productRepo.products[sku] = &entity.Product{
		ID: "prod-" + sku, SKU: sku, VendorSKU: vendorSKU, Name: name,
		Category: category, Subcategory: subcategory, Unit: "each", IsActive: true,
	}
}

func (e *countingEnv) addLocation(id, storeID, code string) {
	e.locationRepo.locations[id] = &entity.Location{
		ID: id, StoreID: storeID, Code: code, Name: code, IsActive: true,
	}
}
