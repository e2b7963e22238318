package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los traducen: ErrInvalidInput -> 400, ErrNotFound -> 404,
// ErrConflict y derivados -> 409. "Reporte preliminar" no es un error: la
// reconciliación se re-ejecuta cuando llegan más datos.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Ciclo de vida de sesiones y passes de conteo.
	ErrSessionClosed     = errors.New("la sesión de conteo está cerrada")
	ErrPassSubmitted     = errors.New("el pass ya fue enviado; no admite más cambios")
	ErrOpenPasses        = errors.New("la sesión tiene passes sin enviar")
	ErrInvalidTransition = errors.New("transición de estado ilegal")

	// Ciclo de vida de upstock runs.
	ErrRunNotInProgress = errors.New("el run no está en progreso")
	ErrRunInProgress    = errors.New("ya existe un run en progreso para esa ubicación")
	ErrLineResolved     = errors.New("la línea ya fue resuelta; no puede volver a pending")
	ErrLinesPending     = errors.New("hay líneas pendientes por resolver")
)

// IsDuplicate reporta si err envuelve ErrDuplicate (los repositorios traducen
// las violaciones de unicidad de la base a este sentinel).
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
