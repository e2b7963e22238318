package repository

import (
	"context"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// ProductRepository puerto de solo lectura sobre el catálogo (lo alimenta el
// importador externo). La resolución barcode -> producto es match exacto en
// sku o vendor_sku.
type ProductRepository interface {
	LookupByBarcode(barcode string) (*entity.Product, error)
	// GetBySKUs devuelve info de producto para los SKUs dados (para enriquecer
	// reportes). SKUs desconocidos simplemente no aparecen en el mapa.
	GetBySKUs(ctx context.Context, skus []string) (map[string]*entity.Product, error)
}

// InventorySnapshotRepository puerto de solo lectura sobre el inventario
// vigente de la tienda (inventory_items, alimentado por el POS). Se usa una
// única vez por sesión, al capturar el baseline.
type InventorySnapshotRepository interface {
	SnapshotBySKU(ctx context.Context, storeID string) (map[string]int, error)
}
