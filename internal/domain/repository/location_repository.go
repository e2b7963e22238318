package repository

import "github.com/jhoicas/Conteo-api/internal/domain/entity"

// LocationRepository puerto de ubicaciones de conteo de una tienda.
type LocationRepository interface {
	Create(l *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	// ListByStore lista las ubicaciones activas ordenadas por sort_order.
	ListByStore(storeID string) ([]*entity.Location, error)
}
