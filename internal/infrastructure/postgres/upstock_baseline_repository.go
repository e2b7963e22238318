package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.UpstockBaselineRepository = (*UpstockBaselineRepo)(nil)

// UpstockBaselineRepo implementación sobre PostgreSQL (usable con pool o tx).
type UpstockBaselineRepo struct {
	q Querier
}

// NewUpstockBaselineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUpstockBaselineRepository(q Querier) *UpstockBaselineRepo {
	return &UpstockBaselineRepo{q: q}
}

// Upsert crea o actualiza el baseline por (store, location, sku). Devuelve
// true si insertó una fila nueva (xmax = 0 tras ON CONFLICT DO UPDATE).
func (r *UpstockBaselineRepo) Upsert(b *entity.UpstockBaseline) (bool, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO upstock_baselines (id, store_id, location_id, sku, par_qty, category, subcategory, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (store_id, location_id, sku) DO UPDATE
		SET par_qty = EXCLUDED.par_qty,
		    category = EXCLUDED.category,
		    subcategory = EXCLUDED.subcategory,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by
		RETURNING (xmax = 0)`
	var created bool
	err := r.q.QueryRow(context.Background(), query,
		b.ID, b.StoreID, b.LocationID, b.SKU, b.ParQty, b.Category, b.Subcategory,
		b.UpdatedAt, nullIfEmpty(b.UpdatedBy),
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert baseline: %w", err)
	}
	return created, nil
}

// List devuelve los baselines de una ubicación ordenados por sku.
func (r *UpstockBaselineRepo) List(storeID, locationID string) ([]*entity.UpstockBaseline, error) {
	query := `
		SELECT id, store_id, location_id, sku, par_qty, category, subcategory, updated_at, updated_by
		FROM upstock_baselines
		WHERE store_id = $1 AND location_id = $2
		ORDER BY sku`
	rows, err := r.q.Query(context.Background(), query, storeID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list baselines: %w", err)
	}
	defer rows.Close()
	var list []*entity.UpstockBaseline
	for rows.Next() {
		var b entity.UpstockBaseline
		var updatedBy *string
		if err := rows.Scan(&b.ID, &b.StoreID, &b.LocationID, &b.SKU, &b.ParQty,
			&b.Category, &b.Subcategory, &b.UpdatedAt, &updatedBy); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		if updatedBy != nil {
			b.UpdatedBy = *updatedBy
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
