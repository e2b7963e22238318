package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain/counting"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	SKU          string
	MovementType entity.MovementType
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// MovementRepository puerto del libro de movimientos (append-only; el borrado
// solo ocurre vía re-importación correctiva del importador externo).
type MovementRepository interface {
	Create(m *entity.Movement) error
	// ExistsBySourceRef soporta la idempotencia del import: un movimiento con
	// el mismo (store, sku, source_ref) no se vuelve a insertar.
	ExistsBySourceRef(storeID, sku, sourceRef string) (bool, error)
	List(storeID string, f MovementFilter) ([]*entity.Movement, error)
	// LatestImported devuelve el movimiento importado más reciente de la tienda
	// (para reportar frescura del libro), o nil si no hay ninguno.
	LatestImported(storeID string) (*entity.Movement, error)

	// SumDeltaByWindows suma qty_delta por SKU sobre los movimientos cuyo
	// occurred_at cae en alguna de las ventanas (ya unidas/disyuntas).
	SumDeltaByWindows(ctx context.Context, storeID string, windows []counting.Window) (map[string]int, error)
	// SumSalesBySKU suma |qty_delta| por SKU de los movimientos de tipo sale en
	// [from, to), opcionalmente filtrado por categoría del producto. Los SKUs
	// sin ventas no aparecen en el mapa.
	SumSalesBySKU(ctx context.Context, storeID, category string, from, to time.Time) (map[string]int, error)
}
