package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.CountLineRepository = (*CountLineRepo)(nil)

// CountLineRepo implementación sobre PostgreSQL (usable con pool o tx).
type CountLineRepo struct {
	q Querier
}

// NewCountLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountLineRepository(q Querier) *CountLineRepo {
	return &CountLineRepo{q: q}
}

const lineColumns = `id, pass_id, sku, barcode, package_id, counted_qty, unit, confidence, notes, captured_at, captured_by`

// Create persiste una línea de conteo.
func (r *CountLineRepo) Create(l *entity.CountLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO count_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.PassID, l.SKU, l.Barcode, l.PackageID, l.CountedQty, l.Unit,
		l.Confidence, l.Notes, l.CapturedAt, nullIfEmpty(l.CapturedBy),
	)
	if err != nil {
		return fmt.Errorf("create count line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID, o nil si no existe.
func (r *CountLineRepo) GetByID(id string) (*entity.CountLine, error) {
	query := `SELECT ` + lineColumns + ` FROM count_lines WHERE id = $1`
	l, err := scanLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// GetByPassAndSKU devuelve la línea del SKU en el pass, o nil (un re-escaneo
// incrementa la línea existente en vez de duplicarla).
func (r *CountLineRepo) GetByPassAndSKU(passID, sku string) (*entity.CountLine, error) {
	query := `SELECT ` + lineColumns + ` FROM count_lines WHERE pass_id = $1 AND sku = $2`
	l, err := scanLine(r.q.QueryRow(context.Background(), query, passID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// ListByPass lista las líneas de un pass por captured_at.
func (r *CountLineRepo) ListByPass(passID string) ([]*entity.CountLine, error) {
	query := `SELECT ` + lineColumns + ` FROM count_lines WHERE pass_id = $1 ORDER BY captured_at`
	rows, err := r.q.Query(context.Background(), query, passID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CountLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update persiste counted_qty, confidence y notes.
func (r *CountLineRepo) Update(l *entity.CountLine) error {
	query := `UPDATE count_lines SET counted_qty = $2, confidence = $3, notes = $4, captured_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, l.ID, l.CountedQty, l.Confidence, l.Notes, l.CapturedAt)
	if err != nil {
		return fmt.Errorf("update count line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update count line %s: fila no encontrada", l.ID)
	}
	return nil
}

// Delete borra una línea (undo; solo mientras el pass está in_progress).
func (r *CountLineRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM count_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete count line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete count line %s: fila no encontrada", id)
	}
	return nil
}

// SumCountedBySKU agrega counted_qty por SKU sobre las líneas de los passes
// ENVIADOS de la sesión; los voided e in_progress quedan fuera.
func (r *CountLineRepo) SumCountedBySKU(ctx context.Context, sessionID string) (map[string]int, error) {
	query := `
		SELECT l.sku, COALESCE(SUM(l.counted_qty), 0)
		FROM count_lines l
		JOIN count_passes p ON p.id = l.pass_id
		WHERE p.session_id = $1 AND p.status = 'submitted'
		GROUP BY l.sku`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sum counted by sku: %w", err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var sku string
		var qty int
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, fmt.Errorf("scan counted: %w", err)
		}
		result[sku] = qty
	}
	return result, rows.Err()
}

func scanLine(row pgx.Row) (*entity.CountLine, error) {
	var l entity.CountLine
	var capturedBy *string
	err := row.Scan(&l.ID, &l.PassID, &l.SKU, &l.Barcode, &l.PackageID,
		&l.CountedQty, &l.Unit, &l.Confidence, &l.Notes, &l.CapturedAt, &capturedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan count line: %w", err)
	}
	if capturedBy != nil {
		l.CapturedBy = *capturedBy
	}
	return &l, nil
}
