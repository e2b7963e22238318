package repository

import (
	"context"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// SessionFilter filtros para listar sesiones de conteo.
type SessionFilter struct {
	Status entity.SessionStatus
	Limit  int
}

// CountSessionRepository puerto de sesiones de conteo.
type CountSessionRepository interface {
	Create(s *entity.CountSession) error
	GetByID(id string) (*entity.CountSession, error)
	List(storeID string, f SessionFilter) ([]*entity.CountSession, error)
	// UpdateStatus persiste status y closed_at/closed_by. El baseline capturado
	// nunca se actualiza: es inmutable durante la vida de la sesión.
	UpdateStatus(s *entity.CountSession) error
}

// CountPassRepository puerto de passes de conteo.
type CountPassRepository interface {
	Create(p *entity.CountPass) error
	GetByID(id string) (*entity.CountPass, error)
	// GetForUpdate bloquea la fila del pass (SELECT FOR UPDATE) dentro de una
	// transacción. Serializa el submit del pass contra la inserción de líneas:
	// observado el submit, toda escritura posterior de líneas se rechaza.
	GetForUpdate(id string) (*entity.CountPass, error)
	ListBySession(sessionID string) ([]*entity.CountPass, error)
	// CountInProgress cuenta los passes in_progress de la sesión (para validar
	// el submit de la sesión).
	CountInProgress(sessionID string) (int, error)
	// UpdateStatus persiste status, submitted_at y submitted_by. Dentro de una
	// transacción debe releer el estado para serializar submit vs inserción de
	// líneas.
	UpdateStatus(p *entity.CountPass) error
}

// CountLineRepository puerto de líneas de conteo.
type CountLineRepository interface {
	Create(l *entity.CountLine) error
	GetByID(id string) (*entity.CountLine, error)
	// GetByPassAndSKU devuelve la línea del SKU en el pass, o nil si no existe
	// (un re-escaneo incrementa la línea existente en vez de duplicarla).
	GetByPassAndSKU(passID, sku string) (*entity.CountLine, error)
	ListByPass(passID string) ([]*entity.CountLine, error)
	Update(l *entity.CountLine) error
	Delete(id string) error

	// SumCountedBySKU agrega counted_qty por SKU sobre las líneas de los passes
	// ENVIADOS de la sesión (los voided e in_progress quedan fuera).
	SumCountedBySKU(ctx context.Context, sessionID string) (map[string]int, error)
}

// SessionBaselineRepository puerto del snapshot baseline capturado al crear la
// sesión. Se escribe una sola vez (inmutable) y se lee para la varianza.
type SessionBaselineRepository interface {
	BulkInsert(sessionID string, qtyBySKU map[string]int) error
	GetBySession(ctx context.Context, sessionID string) (map[string]int, error)
	HasBaseline(sessionID string) (bool, error)
}
