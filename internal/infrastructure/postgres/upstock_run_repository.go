package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.UpstockRunRepository = (*UpstockRunRepo)(nil)

// UpstockRunRepo implementación sobre PostgreSQL (usable con pool o tx).
type UpstockRunRepo struct {
	q Querier
}

// NewUpstockRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUpstockRunRepository(q Querier) *UpstockRunRepo {
	return &UpstockRunRepo{q: q}
}

const runColumns = `id, store_id, location_id, window_start_at, window_end_at, status, notes, created_by, created_at, completed_at, completed_by`

const runLineColumns = `id, run_id, sku, product_name, brand, category, subcategory, item_size, sold_qty, suggested_pull_qty, boh_qty, pulled_qty, status, exception_reason, updated_at, updated_by`

// Create persiste el run junto con sus líneas.
func (r *UpstockRunRepo) Create(run *entity.UpstockRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	query := `
		INSERT INTO upstock_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		run.ID, run.StoreID, run.LocationID, run.WindowStartAt, run.WindowEndAt,
		run.Status, run.Notes, nullIfEmpty(run.CreatedBy), run.CreatedAt,
		run.CompletedAt, nullIfEmpty(run.CompletedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("run para %s/%s: %w", run.StoreID, run.LocationID, domain.ErrRunInProgress)
		}
		return fmt.Errorf("create upstock run: %w", err)
	}
	for _, l := range run.Lines {
		l.RunID = run.ID
		if err := r.insertLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpstockRunRepo) insertLine(l *entity.UpstockRunLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO upstock_run_lines (` + runLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.RunID, l.SKU, l.ProductName, l.Brand, l.Category, l.Subcategory,
		l.ItemSize, l.SoldQty, l.SuggestedPullQty, l.BOHQty, l.PulledQty,
		l.Status, l.ExceptionReason, l.UpdatedAt, nullIfEmpty(l.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert run line %s: %w", l.SKU, err)
	}
	return nil
}

// GetByID obtiene el run, con sus líneas si includeLines. Devuelve nil si no existe.
func (r *UpstockRunRepo) GetByID(id string, includeLines bool) (*entity.UpstockRun, error) {
	query := `SELECT ` + runColumns + ` FROM upstock_runs WHERE id = $1`
	run, err := scanRun(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if includeLines {
		lines, err := r.listLines(run.ID)
		if err != nil {
			return nil, err
		}
		run.Lines = lines
	}
	return run, nil
}

func (r *UpstockRunRepo) listLines(runID string) ([]*entity.UpstockRunLine, error) {
	query := `SELECT ` + runLineColumns + ` FROM upstock_run_lines WHERE run_id = $1 ORDER BY sku`
	rows, err := r.q.Query(context.Background(), query, runID)
	if err != nil {
		return nil, fmt.Errorf("list run lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.UpstockRunLine
	for rows.Next() {
		l, err := scanRunLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// List lista runs de una tienda, más recientes primero (sin líneas).
func (r *UpstockRunRepo) List(storeID string, f repository.RunFilter) ([]*entity.UpstockRun, error) {
	query := `SELECT ` + runColumns + ` FROM upstock_runs WHERE store_id = $1`
	args := []any{storeID}
	pos := 2
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, f.Limit)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list upstock runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.UpstockRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

// LastCompleted devuelve el run completado más reciente de (store, location)
// según completed_at, o nil. Siempre consulta el historial persistido.
func (r *UpstockRunRepo) LastCompleted(storeID, locationID string) (*entity.UpstockRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM upstock_runs
		WHERE store_id = $1 AND location_id = $2 AND status = 'completed'
		ORDER BY completed_at DESC
		LIMIT 1`
	run, err := scanRun(r.q.QueryRow(context.Background(), query, storeID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

// ExistsInProgress informa si ya hay un run in_progress para la ubicación.
func (r *UpstockRunRepo) ExistsInProgress(storeID, locationID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM upstock_runs WHERE store_id = $1 AND location_id = $2 AND status = 'in_progress')`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, storeID, locationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists in-progress run: %w", err)
	}
	return exists, nil
}

// UpdateStatus persiste status, notes y completed_at/completed_by.
func (r *UpstockRunRepo) UpdateStatus(run *entity.UpstockRun) error {
	query := `UPDATE upstock_runs SET status = $2, notes = $3, completed_at = $4, completed_by = $5 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		run.ID, run.Status, run.Notes, run.CompletedAt, nullIfEmpty(run.CompletedBy))
	if err != nil {
		return fmt.Errorf("update upstock run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update upstock run %s: fila no encontrada", run.ID)
	}
	return nil
}

// GetLine devuelve la línea del SKU en el run, o nil si no existe.
func (r *UpstockRunRepo) GetLine(runID, sku string) (*entity.UpstockRunLine, error) {
	query := `SELECT ` + runLineColumns + ` FROM upstock_run_lines WHERE run_id = $1 AND sku = $2`
	l, err := scanRunLine(r.q.QueryRow(context.Background(), query, runID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// CountPendingLines cuenta las líneas pending del run.
func (r *UpstockRunRepo) CountPendingLines(runID string) (int, error) {
	query := `SELECT COUNT(*) FROM upstock_run_lines WHERE run_id = $1 AND status = 'pending'`
	var n int
	if err := r.q.QueryRow(context.Background(), query, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending lines: %w", err)
	}
	return n, nil
}

// UpdateLine persiste los campos mutables de la línea.
func (r *UpstockRunRepo) UpdateLine(l *entity.UpstockRunLine) error {
	query := `
		UPDATE upstock_run_lines
		SET boh_qty = $2, pulled_qty = $3, status = $4, exception_reason = $5, updated_at = $6, updated_by = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		l.ID, l.BOHQty, l.PulledQty, l.Status, l.ExceptionReason, l.UpdatedAt, nullIfEmpty(l.UpdatedBy))
	if err != nil {
		return fmt.Errorf("update run line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update run line %s: fila no encontrada", l.ID)
	}
	return nil
}

func scanRun(row pgx.Row) (*entity.UpstockRun, error) {
	var run entity.UpstockRun
	var createdBy, completedBy *string
	err := row.Scan(&run.ID, &run.StoreID, &run.LocationID, &run.WindowStartAt,
		&run.WindowEndAt, &run.Status, &run.Notes, &createdBy, &run.CreatedAt,
		&run.CompletedAt, &completedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan upstock run: %w", err)
	}
	if createdBy != nil {
		run.CreatedBy = *createdBy
	}
	if completedBy != nil {
		run.CompletedBy = *completedBy
	}
	return &run, nil
}

func scanRunLine(row pgx.Row) (*entity.UpstockRunLine, error) {
	var l entity.UpstockRunLine
	var updatedBy *string
	err := row.Scan(&l.ID, &l.RunID, &l.SKU, &l.ProductName, &l.Brand, &l.Category,
		&l.Subcategory, &l.ItemSize, &l.SoldQty, &l.SuggestedPullQty, &l.BOHQty,
		&l.PulledQty, &l.Status, &l.ExceptionReason, &l.UpdatedAt, &updatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run line: %w", err)
	}
	if updatedBy != nil {
		l.UpdatedBy = *updatedBy
	}
	return &l, nil
}
