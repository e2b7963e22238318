package upstock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// UseCase gobierna el ciclo nocturno de reposición: deriva la lista de pull de
// las ventas desde el último run completado y registra el cumplimiento línea a
// línea.
type UseCase struct {
	runRepo      repository.UpstockRunRepository
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	txRunner     TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	runRepo repository.UpstockRunRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	txRunner TxRunner,
) *UseCase {
	return &UseCase{
		runRepo:      runRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		txRunner:     txRunner,
	}
}

// StartRun crea un run para (store, location). window_start_at es el
// completed_at del último run COMPLETADO de esa ubicación — los abandonados no
// avanzan la cadena — o el inicio del día si no existe; así las ventanas de
// runs consecutivos nunca dejan huecos ni se solapan. Las líneas se fijan
// aquí: un SKU por fila de ventas en [start, end), sugerencia v1 = vendido.
// Un SKU sin ventas no genera línea.
func (uc *UseCase) StartRun(ctx context.Context, userID string, in dto.StartRunRequest) (*entity.UpstockRun, error) {
	if strings.TrimSpace(in.StoreID) == "" || strings.TrimSpace(in.LocationID) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	windowEnd := now
	if in.WindowEndAt != nil {
		windowEnd = in.WindowEndAt.UTC()
	}

	var run *entity.UpstockRun
	err := uc.txRunner.RunUpstock(ctx, func(runRepo repository.UpstockRunRepository) error {
		// Solo un run in_progress por ubicación: el segundo create es un
		// conflicto, nunca una segunda cadena de ventanas divergente.
		exists, err := runRepo.ExistsInProgress(in.StoreID, in.LocationID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrRunInProgress
		}

		last, err := runRepo.LastCompleted(in.StoreID, in.LocationID)
		if err != nil {
			return err
		}
		var windowStart time.Time
		if last != nil && last.CompletedAt != nil {
			windowStart = *last.CompletedAt
		} else {
			windowStart = startOfDay(windowEnd)
		}
		if !windowEnd.After(windowStart) {
			return fmt.Errorf("%w: window_end_at (%s) debe ser posterior a window_start_at (%s)",
				domain.ErrInvalidInput, windowEnd.Format(time.RFC3339), windowStart.Format(time.RFC3339))
		}

		lines, err := uc.computeLines(ctx, in.StoreID, in.Category, windowStart, windowEnd, now)
		if err != nil {
			return err
		}

		run = &entity.UpstockRun{
			StoreID:       in.StoreID,
			LocationID:    in.LocationID,
			WindowStartAt: windowStart,
			WindowEndAt:   windowEnd,
			Status:        entity.RunInProgress,
			Notes:         strings.TrimSpace(in.Notes),
			CreatedBy:     userID,
			CreatedAt:     now,
			Lines:         lines,
		}
		return runRepo.Create(run)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// computeLines agrega las ventas por SKU en [start, end) y arma una línea
// pending por SKU vendido, con info de producto denormalizada para la tablet.
func (uc *UseCase) computeLines(ctx context.Context, storeID, category string, start, end, now time.Time) ([]*entity.UpstockRunLine, error) {
	sold, err := uc.movementRepo.SumSalesBySKU(ctx, storeID, category, start, end)
	if err != nil {
		return nil, fmt.Errorf("sumar ventas: %w", err)
	}

	skus := make([]string, 0, len(sold))
	for sku, qty := range sold {
		if qty > 0 {
			skus = append(skus, sku)
		}
	}
	sort.Strings(skus)

	products, err := uc.productRepo.GetBySKUs(ctx, skus)
	if err != nil {
		return nil, err
	}

	lines := make([]*entity.UpstockRunLine, 0, len(skus))
	for _, sku := range skus {
		line := &entity.UpstockRunLine{
			SKU:              sku,
			SoldQty:          sold[sku],
			SuggestedPullQty: sold[sku], // v1: sugerido = vendido
			Status:           entity.LinePending,
			UpdatedAt:        now,
		}
		if p, ok := products[sku]; ok {
			line.ProductName = p.Name
			line.Brand = p.Brand
			line.Category = p.Category
			line.Subcategory = p.Subcategory
			if !p.ItemSize.IsZero() {
				line.ItemSize = p.ItemSize.String()
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// startOfDay el inicio del día de negocio de t (medianoche UTC).
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetRun devuelve el run con sus líneas, o ErrNotFound.
func (uc *UseCase) GetRun(id string) (*entity.UpstockRun, error) {
	run, err := uc.runRepo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	return run, nil
}

// ListRuns lista runs de una tienda, más recientes primero (sin líneas).
func (uc *UseCase) ListRuns(storeID string, f repository.RunFilter) ([]*entity.UpstockRun, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return uc.runRepo.List(storeID, f)
}

// UpdateLine actualiza parcialmente la línea de un SKU en un run in_progress.
// Un barcode que no matchea ninguna línea es un miss reportable (ErrNotFound):
// las líneas quedan fijas al crear el run. Reglas de estado: status=exception
// exige exception_reason; status=done exige pulled_qty >= 0; un estado
// terminal nunca cambia (ni vuelve a pending).
func (uc *UseCase) UpdateLine(ctx context.Context, runID, sku, userID string, in dto.UpdateRunLineRequest) (*entity.UpstockRunLine, error) {
	run, err := uc.runRepo.GetByID(runID, false)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	if run.Status != entity.RunInProgress {
		return nil, domain.ErrRunNotInProgress
	}

	line, err := uc.runRepo.GetLine(runID, sku)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("%w: sku %s no está en el run", domain.ErrNotFound, sku)
	}

	if in.PulledQty != nil {
		if *in.PulledQty < 0 {
			return nil, domain.ErrInvalidInput
		}
		line.PulledQty = in.PulledQty
	}
	if in.ExceptionReason != nil {
		line.ExceptionReason = strings.TrimSpace(*in.ExceptionReason)
	}
	if in.Status != nil {
		next := entity.RunLineStatus(*in.Status)
		if !next.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		if next != line.Status {
			if line.Status.IsTerminal() {
				return nil, domain.ErrLineResolved
			}
			switch next {
			case entity.LineException:
				if line.ExceptionReason == "" {
					return nil, fmt.Errorf("%w: status=exception requiere exception_reason", domain.ErrInvalidInput)
				}
			case entity.LineDone:
				if line.PulledQty == nil || *line.PulledQty < 0 {
					return nil, fmt.Errorf("%w: status=done requiere pulled_qty >= 0", domain.ErrInvalidInput)
				}
			case entity.LinePending, entity.LineSkipped:
				// sin requisitos extra
			}
			line.Status = next
		}
	}

	line.UpdatedAt = time.Now().UTC()
	line.UpdatedBy = userID
	if err := uc.runRepo.UpdateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

// CompleteRun marca el run como completado; su completed_at pasa a ser el
// window_start_at del siguiente run de la ubicación. Con validateAllResolved
// falla nombrando cuántas líneas siguen pendientes.
func (uc *UseCase) CompleteRun(ctx context.Context, runID, userID string, validateAllResolved bool) (*entity.UpstockRun, error) {
	run, err := uc.runRepo.GetByID(runID, false)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	if !run.Status.CanTransitionTo(entity.RunCompleted) {
		return nil, domain.ErrRunNotInProgress
	}
	if validateAllResolved {
		pending, err := uc.runRepo.CountPendingLines(runID)
		if err != nil {
			return nil, err
		}
		if pending > 0 {
			return nil, fmt.Errorf("%w: %d líneas pending", domain.ErrLinesPending, pending)
		}
	}
	now := time.Now().UTC()
	run.Status = entity.RunCompleted
	run.CompletedAt = &now
	run.CompletedBy = userID
	if err := uc.runRepo.UpdateStatus(run); err != nil {
		return nil, err
	}
	return run, nil
}

// AbandonRun abandona el run con una razón en notes. Un run abandonado NO
// avanza la cadena de ventanas: el siguiente run vuelve a partir del último
// completado, para no perder ventas en silencio.
func (uc *UseCase) AbandonRun(ctx context.Context, runID, userID, reason string) (*entity.UpstockRun, error) {
	run, err := uc.runRepo.GetByID(runID, false)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	if !run.Status.CanTransitionTo(entity.RunAbandoned) {
		return nil, domain.ErrRunNotInProgress
	}
	now := time.Now().UTC()
	run.Status = entity.RunAbandoned
	run.CompletedAt = &now
	run.CompletedBy = userID
	if reason = strings.TrimSpace(reason); reason != "" {
		if run.Notes != "" {
			run.Notes += "\n"
		}
		run.Notes += "Abandoned: " + reason
	}
	if err := uc.runRepo.UpdateStatus(run); err != nil {
		return nil, err
	}
	return run, nil
}
