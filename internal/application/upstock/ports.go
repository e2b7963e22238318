package upstock

import (
	"context"

	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el
// repositorio de runs atado a esa tx. La creación de runs se serializa por
// (store, location): dos creates concurrentes no pueden computar cadenas de
// ventanas divergentes.
type TxRunner interface {
	RunUpstock(ctx context.Context, fn func(runRepo repository.UpstockRunRepository) error) error
}
