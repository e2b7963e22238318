package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.SessionBaselineRepository = (*SessionBaselineRepo)(nil)

// SessionBaselineRepo snapshot baseline por sesión. Se escribe una sola vez al
// crear la sesión y nunca se actualiza.
type SessionBaselineRepo struct {
	q Querier
}

// NewSessionBaselineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionBaselineRepository(q Querier) *SessionBaselineRepo {
	return &SessionBaselineRepo{q: q}
}

// BulkInsert persiste el baseline completo de la sesión.
func (r *SessionBaselineRepo) BulkInsert(sessionID string, qtyBySKU map[string]int) error {
	if len(qtyBySKU) == 0 {
		return nil
	}
	skus := make([]string, 0, len(qtyBySKU))
	qtys := make([]int, 0, len(qtyBySKU))
	for sku, qty := range qtyBySKU {
		skus = append(skus, sku)
		qtys = append(qtys, qty)
	}
	query := `
		INSERT INTO count_session_baselines (session_id, sku, baseline_qty)
		SELECT $1, s, q FROM unnest($2::text[], $3::int[]) AS t(s, q)`
	if _, err := r.q.Exec(context.Background(), query, sessionID, skus, qtys); err != nil {
		return fmt.Errorf("bulk insert baseline: %w", err)
	}
	return nil
}

// GetBySession devuelve el baseline capturado de la sesión como mapa sku -> qty.
func (r *SessionBaselineRepo) GetBySession(ctx context.Context, sessionID string) (map[string]int, error) {
	query := `SELECT sku, baseline_qty FROM count_session_baselines WHERE session_id = $1`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get baseline: %w", err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var sku string
		var qty int
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		result[sku] = qty
	}
	return result, rows.Err()
}

// HasBaseline informa si la sesión tiene baseline capturado.
func (r *SessionBaselineRepo) HasBaseline(sessionID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM count_session_baselines WHERE session_id = $1)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, sessionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has baseline: %w", err)
	}
	return exists, nil
}
