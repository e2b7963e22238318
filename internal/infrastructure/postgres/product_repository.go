package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.InventorySnapshotRepository = (*ProductRepo)(nil)

// ProductRepo lectura del catálogo y del inventario vigente (ambos alimentados
// por los importadores externos; esta app nunca los escribe).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, vendor_sku, name, brand, category, subcategory, unit, item_size, is_active, updated_at`

// LookupByBarcode resuelve un código de barras a producto: match exacto en sku
// o vendor_sku. Devuelve nil si no hay match (el caller decide el 404).
func (r *ProductRepo) LookupByBarcode(barcode string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE sku = $1 OR vendor_sku = $1
		ORDER BY (sku = $1) DESC
		LIMIT 1`
	var p entity.Product
	var vendorSKU *string
	err := r.q.QueryRow(context.Background(), query, barcode).Scan(
		&p.ID, &p.SKU, &vendorSKU, &p.Name, &p.Brand, &p.Category, &p.Subcategory,
		&p.Unit, &p.ItemSize, &p.IsActive, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup by barcode: %w", err)
	}
	if vendorSKU != nil {
		p.VendorSKU = *vendorSKU
	}
	return &p, nil
}

// GetBySKUs devuelve info de producto para los SKUs dados. SKUs desconocidos
// no aparecen en el mapa.
func (r *ProductRepo) GetBySKUs(ctx context.Context, skus []string) (map[string]*entity.Product, error) {
	result := make(map[string]*entity.Product, len(skus))
	if len(skus) == 0 {
		return result, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = ANY($1)`
	rows, err := r.q.Query(ctx, query, skus)
	if err != nil {
		return nil, fmt.Errorf("get by skus: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Product
		var vendorSKU *string
		if err := rows.Scan(&p.ID, &p.SKU, &vendorSKU, &p.Name, &p.Brand, &p.Category,
			&p.Subcategory, &p.Unit, &p.ItemSize, &p.IsActive, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if vendorSKU != nil {
			p.VendorSKU = *vendorSKU
		}
		result[p.SKU] = &p
	}
	return result, rows.Err()
}

// SnapshotBySKU devuelve el inventario vigente de la tienda por SKU. Se lee
// una sola vez por sesión, al capturar el baseline.
func (r *ProductRepo) SnapshotBySKU(ctx context.Context, storeID string) (map[string]int, error) {
	query := `SELECT sku, quantity FROM inventory_items WHERE store_id = $1`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("snapshot by sku: %w", err)
	}
	defer rows.Close()
	result := make(map[string]int)
	for rows.Next() {
		var sku string
		var qty int
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		result[sku] = qty
	}
	return result, rows.Err()
}
