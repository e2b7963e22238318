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

var _ repository.CountPassRepository = (*CountPassRepo)(nil)

// CountPassRepo implementación sobre PostgreSQL (usable con pool o tx).
type CountPassRepo struct {
	q Querier
}

// NewCountPassRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountPassRepository(q Querier) *CountPassRepo {
	return &CountPassRepo{q: q}
}

const passColumns = `id, session_id, location_id, category, subcategory, status, started_at, submitted_at, started_by, submitted_by, device_id, scan_mode`

// Create persiste un pass de conteo.
func (r *CountPassRepo) Create(p *entity.CountPass) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO count_passes (` + passColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SessionID, p.LocationID, p.Category, p.Subcategory, p.Status,
		p.StartedAt, p.SubmittedAt, nullIfEmpty(p.StartedBy), nullIfEmpty(p.SubmittedBy),
		p.DeviceID, p.ScanMode,
	)
	if err != nil {
		return fmt.Errorf("create count pass: %w", err)
	}
	return nil
}

// GetByID obtiene un pass por ID, o nil si no existe.
func (r *CountPassRepo) GetByID(id string) (*entity.CountPass, error) {
	query := `SELECT ` + passColumns + ` FROM count_passes WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate bloquea la fila del pass dentro de la transacción actual.
// Serializa el submit del pass contra la inserción de líneas.
func (r *CountPassRepo) GetForUpdate(id string) (*entity.CountPass, error) {
	query := `SELECT ` + passColumns + ` FROM count_passes WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *CountPassRepo) getOne(query, id string) (*entity.CountPass, error) {
	p, err := scanPass(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListBySession lista los passes de una sesión por started_at.
func (r *CountPassRepo) ListBySession(sessionID string) ([]*entity.CountPass, error) {
	query := `SELECT ` + passColumns + ` FROM count_passes WHERE session_id = $1 ORDER BY started_at`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list passes: %w", err)
	}
	defer rows.Close()
	var list []*entity.CountPass
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountInProgress cuenta los passes in_progress de la sesión.
func (r *CountPassRepo) CountInProgress(sessionID string) (int, error) {
	query := `SELECT COUNT(*) FROM count_passes WHERE session_id = $1 AND status = 'in_progress'`
	var n int
	if err := r.q.QueryRow(context.Background(), query, sessionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count in-progress passes: %w", err)
	}
	return n, nil
}

// UpdateStatus persiste status, submitted_at y submitted_by.
func (r *CountPassRepo) UpdateStatus(p *entity.CountPass) error {
	query := `UPDATE count_passes SET status = $2, submitted_at = $3, submitted_by = $4 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, p.ID, p.Status, p.SubmittedAt, nullIfEmpty(p.SubmittedBy))
	if err != nil {
		return fmt.Errorf("update count pass: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update count pass %s: fila no encontrada", p.ID)
	}
	return nil
}

func scanPass(row pgx.Row) (*entity.CountPass, error) {
	var p entity.CountPass
	var startedBy, submittedBy *string
	err := row.Scan(&p.ID, &p.SessionID, &p.LocationID, &p.Category, &p.Subcategory,
		&p.Status, &p.StartedAt, &p.SubmittedAt, &startedBy, &submittedBy, &p.DeviceID, &p.ScanMode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan count pass: %w", err)
	}
	if startedBy != nil {
		p.StartedBy = *startedBy
	}
	if submittedBy != nil {
		p.SubmittedBy = *submittedBy
	}
	return &p, nil
}
