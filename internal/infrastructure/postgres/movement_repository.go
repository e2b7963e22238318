package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/counting"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, store_id, sku, movement_type, qty_delta, occurred_at, source, source_ref, imported_at, imported_by`

// Create anexa un movimiento al libro.
func (r *MovementRepo) Create(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.StoreID, m.SKU, m.MovementType, m.QtyDelta,
		m.OccurredAt, m.Source, nullIfEmpty(m.SourceRef), m.ImportedAt, nullIfEmpty(m.ImportedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movimiento %s/%s: %w", m.SKU, m.SourceRef, domain.ErrDuplicate)
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ExistsBySourceRef soporta la idempotencia del import.
func (r *MovementRepo) ExistsBySourceRef(storeID, sku, sourceRef string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM movements WHERE store_id = $1 AND sku = $2 AND source_ref = $3)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, storeID, sku, sourceRef).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by source_ref: %w", err)
	}
	return exists, nil
}

// List lista movimientos de una tienda con filtros, más recientes primero.
func (r *MovementRepo) List(storeID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE store_id = $1`
	args := []any{storeID}
	pos := 2
	if f.SKU != "" {
		query += fmt.Sprintf(" AND sku = $%d", pos)
		args = append(args, f.SKU)
		pos++
	}
	if f.MovementType != "" {
		query += fmt.Sprintf(" AND movement_type = $%d", pos)
		args = append(args, f.MovementType)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND occurred_at < $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// LatestImported devuelve el movimiento de occurred_at más reciente, o nil.
func (r *MovementRepo) LatestImported(storeID string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE store_id = $1 ORDER BY occurred_at DESC LIMIT 1`
	row := r.q.QueryRow(context.Background(), query, storeID)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// SumDeltaByWindows suma qty_delta por SKU sobre las ventanas dadas (ya
// disyuntas); cada ventana aporta una condición [start, end) en OR.
func (r *MovementRepo) SumDeltaByWindows(ctx context.Context, storeID string, windows []counting.Window) (map[string]int, error) {
	result := make(map[string]int)
	if len(windows) == 0 {
		return result, nil
	}

	conds := make([]string, 0, len(windows))
	args := []any{storeID}
	pos := 2
	for _, w := range windows {
		conds = append(conds, fmt.Sprintf("(occurred_at >= $%d AND occurred_at < $%d)", pos, pos+1))
		args = append(args, w.Start, w.End)
		pos += 2
	}
	query := `
		SELECT sku, COALESCE(SUM(qty_delta), 0)
		FROM movements
		WHERE store_id = $1 AND (` + strings.Join(conds, " OR ") + `)
		GROUP BY sku`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum delta by windows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sku string
		var delta int
		if err := rows.Scan(&sku, &delta); err != nil {
			return nil, fmt.Errorf("scan delta: %w", err)
		}
		result[sku] = delta
	}
	return result, rows.Err()
}

// SumSalesBySKU suma |qty_delta| de las ventas en [from, to), opcionalmente
// filtrado por categoría del catálogo.
func (r *MovementRepo) SumSalesBySKU(ctx context.Context, storeID, category string, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT m.sku, COALESCE(SUM(ABS(m.qty_delta)), 0)
		FROM movements m
		WHERE m.store_id = $1 AND m.movement_type = 'sale'
		  AND m.occurred_at >= $2 AND m.occurred_at < $3`
	args := []any{storeID, from, to}
	if category != "" {
		query += ` AND m.sku IN (SELECT sku FROM products WHERE category = $4)`
		args = append(args, category)
	}
	query += ` GROUP BY m.sku`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum sales by sku: %w", err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var sku string
		var qty int
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, fmt.Errorf("scan sales: %w", err)
		}
		result[sku] = qty
	}
	return result, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var sourceRef, importedBy *string
	if err := row.Scan(&m.ID, &m.StoreID, &m.SKU, &m.MovementType, &m.QtyDelta,
		&m.OccurredAt, &m.Source, &sourceRef, &m.ImportedAt, &importedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	if sourceRef != nil {
		m.SourceRef = *sourceRef
	}
	if importedBy != nil {
		m.ImportedBy = *importedBy
	}
	return &m, nil
}

// nullIfEmpty convierte "" a NULL para columnas opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
