package counting

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/counting"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
	"github.com/jhoicas/Conteo-api/pkg/config"
)

// VarianceUseCase calcula el reporte de varianza de una sesión:
//
//	expected[sku] = baseline[sku] + movement_delta[sku]
//	variance[sku] = counted[sku] - expected[sku]
//
// donde movement_delta suma el libro de movimientos restringido a las ventanas
// de los passes enviados. El cálculo es determinista e idempotente dado el
// estado del libro; se re-ejecuta a demanda tras cada import de movimientos.
type VarianceUseCase struct {
	sessionRepo  repository.CountSessionRepository
	passRepo     repository.CountPassRepository
	lineRepo     repository.CountLineRepository
	baselineRepo repository.SessionBaselineRepository
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	windowPolicy string // config.WindowPolicyMerged | config.WindowPolicySessionSpan
}

// NewVarianceUseCase construye el caso de uso con la política de ventanas
// configurada.
func NewVarianceUseCase(
	sessionRepo repository.CountSessionRepository,
	passRepo repository.CountPassRepository,
	lineRepo repository.CountLineRepository,
	baselineRepo repository.SessionBaselineRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	windowPolicy string,
) *VarianceUseCase {
	if windowPolicy == "" {
		windowPolicy = config.WindowPolicyMerged
	}
	return &VarianceUseCase{
		sessionRepo:  sessionRepo,
		passRepo:     passRepo,
		lineRepo:     lineRepo,
		baselineRepo: baselineRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		windowPolicy: windowPolicy,
	}
}

// Calculate arma el reporte de varianza. Una sesión sin passes enviados o sin
// baseline NO es un error: devuelve un reporte (posiblemente vacío) marcado
// preliminary, porque la reconciliación es re-ejecutable a medida que llegan
// datos. Como efecto lateral, una sesión submitted pasa a reconciled.
func (uc *VarianceUseCase) Calculate(ctx context.Context, sessionID string, nonZeroOnly bool) (*dto.VarianceReport, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	// 1. Passes enviados y sus ventanas [started_at, submitted_at)
	passes, err := uc.passRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	var windows []counting.Window
	for _, p := range passes {
		if start, end, ok := p.Window(); ok {
			windows = append(windows, counting.Window{Start: start, End: end})
		}
	}
	hasSubmitted := len(windows) > 0

	// 2. Total contado por SKU (solo passes enviados; voided quedan fuera)
	counted := map[string]int{}
	if hasSubmitted {
		counted, err = uc.lineRepo.SumCountedBySKU(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("agregar conteos: %w", err)
		}
	}

	// 3. Baseline capturado al crear la sesión
	baseline, err := uc.baselineRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("leer baseline: %w", err)
	}
	hasBaseline := len(baseline) > 0

	// 4. Delta de movimientos según la política de ventanas
	deltas := map[string]int{}
	if hasSubmitted {
		var effective []counting.Window
		switch uc.windowPolicy {
		case config.WindowPolicySessionSpan:
			effective = counting.Span(windows)
		default:
			effective = counting.Merge(windows)
		}
		deltas, err = uc.movementRepo.SumDeltaByWindows(ctx, session.StoreID, effective)
		if err != nil {
			return nil, fmt.Errorf("sumar movimientos: %w", err)
		}
	}

	// 5-7. Unión de SKUs contados y con baseline; un SKU contado sin baseline
	// vale baseline=0 y un SKU con baseline nunca contado vale counted=0:
	// ambos son varianzas reportables, no errores.
	skuSet := make(map[string]struct{}, len(counted)+len(baseline))
	for sku := range counted {
		skuSet[sku] = struct{}{}
	}
	for sku := range baseline {
		skuSet[sku] = struct{}{}
	}
	skus := make([]string, 0, len(skuSet))
	for sku := range skuSet {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	products, err := uc.productRepo.GetBySKUs(ctx, skus)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VarianceItem, 0, len(skus))
	totalVariance := 0
	for _, sku := range skus {
		c := counted[sku]
		b := baseline[sku]
		d := deltas[sku]
		expected := b + d
		variance := c - expected
		totalVariance += abs(variance)
		if nonZeroOnly && variance == 0 {
			continue
		}
		item := dto.VarianceItem{
			SKU:           sku,
			CountedQty:    c,
			BaselineQty:   b,
			MovementDelta: d,
			ExpectedQty:   expected,
			Variance:      variance,
		}
		if p, ok := products[sku]; ok {
			item.ProductName = p.Name
			item.Brand = p.Brand
			item.Category = p.Category
			item.Subcategory = p.Subcategory
		}
		items = append(items, item)
	}

	// Las discrepancias más grandes primero, para priorizar revisión.
	sort.SliceStable(items, func(i, j int) bool {
		return abs(items[i].Variance) > abs(items[j].Variance)
	})

	// Frescura del libro, para que la UI marque preliminary vs reconciled.
	latest, err := uc.movementRepo.LatestImported(session.StoreID)
	if err != nil {
		return nil, err
	}

	report := &dto.VarianceReport{
		SessionID:          session.ID,
		StoreID:            session.StoreID,
		Status:             string(session.Status),
		WindowPolicy:       uc.windowPolicy,
		HasBaseline:        hasBaseline,
		HasSubmittedPasses: hasSubmitted,
		Preliminary:        !hasBaseline || !hasSubmitted,
		TotalSKUs:          len(items),
		TotalVariance:      totalVariance,
		Items:              items,
	}
	if latest != nil {
		at := latest.ImportedAt
		report.LedgerFreshAt = &at
	}

	// Reconciliación a demanda: la primera varianza completa de una sesión
	// submitted la marca reconciled. Re-ejecutar sobre reconciled es normal.
	if !report.Preliminary && session.Status == entity.SessionSubmitted {
		session.Status = entity.SessionReconciled
		if err := uc.sessionRepo.UpdateStatus(session); err != nil {
			return nil, err
		}
		report.Status = string(session.Status)
	}

	return report, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
