package repository

import (
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// RunFilter filtros para listar runs.
type RunFilter struct {
	LocationID string
	Status     entity.RunStatus
	Limit      int
}

// UpstockRunRepository puerto de upstock runs y sus líneas.
type UpstockRunRepository interface {
	// Create persiste el run junto con sus líneas (mismo insert lógico).
	Create(r *entity.UpstockRun) error
	// GetByID devuelve el run; con includeLines carga también sus líneas.
	GetByID(id string, includeLines bool) (*entity.UpstockRun, error)
	List(storeID string, f RunFilter) ([]*entity.UpstockRun, error)

	// LastCompleted devuelve el run completado más reciente de (store, location)
	// según completed_at, o nil. Es una consulta sobre el historial persistido,
	// nunca estado cacheado del proceso: la cadena de ventanas no puede depender
	// de una instancia.
	LastCompleted(storeID, locationID string) (*entity.UpstockRun, error)
	// ExistsInProgress informa si ya hay un run in_progress para la ubicación.
	// Solo puede existir uno a la vez; el segundo create debe fallar con
	// conflicto en vez de calcular una cadena de ventanas divergente.
	ExistsInProgress(storeID, locationID string) (bool, error)

	// UpdateStatus persiste status, completed_at/completed_by y notes.
	UpdateStatus(r *entity.UpstockRun) error

	GetLine(runID, sku string) (*entity.UpstockRunLine, error)
	CountPendingLines(runID string) (int, error)
	UpdateLine(l *entity.UpstockRunLine) error
}

// UpstockBaselineRepository puerto de niveles par (solo reporting en v1).
type UpstockBaselineRepository interface {
	// Upsert crea o actualiza el baseline por (store, location, sku).
	// Devuelve true si se creó una fila nueva.
	Upsert(b *entity.UpstockBaseline) (created bool, err error)
	List(storeID, locationID string) ([]*entity.UpstockBaseline, error)
}
