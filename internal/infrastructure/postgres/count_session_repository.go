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

var _ repository.CountSessionRepository = (*CountSessionRepo)(nil)

// CountSessionRepo implementación sobre PostgreSQL (usable con pool o tx).
type CountSessionRepo struct {
	q Querier
}

// NewCountSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountSessionRepository(q Querier) *CountSessionRepo {
	return &CountSessionRepo{q: q}
}

const sessionColumns = `id, store_id, status, notes, baseline_source, baseline_captured_at, created_by, created_at, closed_at, closed_by`

// Create persiste una sesión de conteo.
func (r *CountSessionRepo) Create(s *entity.CountSession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO count_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.StoreID, s.Status, s.Notes, s.BaselineSource, s.BaselineCapturedAt,
		nullIfEmpty(s.CreatedBy), s.CreatedAt, s.ClosedAt, nullIfEmpty(s.ClosedBy),
	)
	if err != nil {
		return fmt.Errorf("create count session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID, o nil si no existe.
func (r *CountSessionRepo) GetByID(id string) (*entity.CountSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM count_sessions WHERE id = $1`
	s, err := scanSession(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// List lista sesiones de una tienda, más recientes primero.
func (r *CountSessionRepo) List(storeID string, f repository.SessionFilter) ([]*entity.CountSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM count_sessions WHERE store_id = $1`
	args := []any{storeID}
	pos := 2
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, f.Limit)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list count sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CountSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateStatus persiste status, notes y closed_at/closed_by. El baseline no se
// toca: es inmutable durante la vida de la sesión.
func (r *CountSessionRepo) UpdateStatus(s *entity.CountSession) error {
	query := `UPDATE count_sessions SET status = $2, notes = $3, closed_at = $4, closed_by = $5 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, s.ID, s.Status, s.Notes, s.ClosedAt, nullIfEmpty(s.ClosedBy))
	if err != nil {
		return fmt.Errorf("update count session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update count session %s: fila no encontrada", s.ID)
	}
	return nil
}

func scanSession(row pgx.Row) (*entity.CountSession, error) {
	var s entity.CountSession
	var createdBy, closedBy *string
	err := row.Scan(&s.ID, &s.StoreID, &s.Status, &s.Notes, &s.BaselineSource,
		&s.BaselineCapturedAt, &createdBy, &s.CreatedAt, &s.ClosedAt, &closedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan count session: %w", err)
	}
	if createdBy != nil {
		s.CreatedBy = *createdBy
	}
	if closedBy != nil {
		s.ClosedBy = *closedBy
	}
	return &s, nil
}
