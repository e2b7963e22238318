package entity

import "time"

// SessionStatus ciclo de vida de una sesión de conteo.
// draft -> in_progress -> submitted -> reconciled -> closed (monótono: una
// sesión cerrada no se reabre).
type SessionStatus string

const (
	SessionDraft      SessionStatus = "draft"
	SessionInProgress SessionStatus = "in_progress"
	SessionSubmitted  SessionStatus = "submitted"
	SessionReconciled SessionStatus = "reconciled"
	SessionClosed     SessionStatus = "closed"
)

// CanTransitionTo valida la transición de estado de la sesión.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionDraft:
		return next == SessionInProgress
	case SessionInProgress:
		return next == SessionSubmitted
	case SessionSubmitted:
		return next == SessionReconciled || next == SessionClosed
	case SessionReconciled:
		return next == SessionClosed
	case SessionClosed:
		return false
	}
	return false
}

// AcceptsPasses indica si la sesión admite crear nuevos passes.
func (s SessionStatus) AcceptsPasses() bool {
	return s == SessionDraft || s == SessionInProgress
}

// CountSession contenedor de un esfuerzo de conteo acotado. Puede durar varios
// días y contener muchos passes. El baseline, una vez capturado, es inmutable
// durante toda la vida de la sesión.
type CountSession struct {
	ID                 string
	StoreID            string
	Status             SessionStatus
	Notes              string
	BaselineSource     string // pos_snapshot | manual
	BaselineCapturedAt time.Time
	CreatedBy          string
	CreatedAt          time.Time
	ClosedAt           *time.Time
	ClosedBy           string
}

// PassStatus ciclo de vida de un pass de conteo.
// in_progress -> submitted | voided. voided solo es alcanzable desde in_progress.
type PassStatus string

const (
	PassInProgress PassStatus = "in_progress"
	PassSubmitted  PassStatus = "submitted"
	PassVoided     PassStatus = "voided"
)

// CanTransitionTo valida la transición de estado del pass.
func (s PassStatus) CanTransitionTo(next PassStatus) bool {
	switch s {
	case PassInProgress:
		return next == PassSubmitted || next == PassVoided
	case PassSubmitted, PassVoided:
		return false
	}
	return false
}

// CountPass es una ventana de conteo enfocada en una ubicación y opcionalmente
// una categoría/subcategoría. Concepto clave: los conteos ocurren en VENTANAS
// DE TIEMPO, no instantáneamente. [started_at, submitted_at) es la ventana que
// usa la reconciliación; submitted_at es nil mientras se cuenta.
// Puede haber varios passes para la misma ubicación (reconteos, divisiones) y
// sus ventanas pueden solaparse.
type CountPass struct {
	ID          string
	SessionID   string
	LocationID  string
	Category    string // scope opcional: Flower, Edibles...
	Subcategory string // scope opcional: Dried Flower, Gummies...
	Status      PassStatus
	StartedAt   time.Time
	SubmittedAt *time.Time
	StartedBy   string
	SubmittedBy string
	DeviceID    string
	ScanMode    string // scanner | camera | manual
}

// Window devuelve la ventana [started_at, submitted_at) del pass y ok=false
// si aún no fue enviado.
func (p *CountPass) Window() (start, end time.Time, ok bool) {
	if p.Status != PassSubmitted || p.SubmittedAt == nil {
		return time.Time{}, time.Time{}, false
	}
	return p.StartedAt, *p.SubmittedAt, true
}

// LineConfidence origen de una observación de conteo.
type LineConfidence string

const (
	ConfidenceScanned   LineConfidence = "scanned"
	ConfidenceTyped     LineConfidence = "typed"
	ConfidenceCorrected LineConfidence = "corrected"
)

// IsValid indica si la confianza es una de las soportadas.
func (c LineConfidence) IsValid() bool {
	switch c {
	case ConfidenceScanned, ConfidenceTyped, ConfidenceCorrected:
		return true
	}
	return false
}

// CountLine una observación escaneada o digitada dentro de un pass. Pertenece
// exclusivamente a su pass; solo se borra vía undo mientras el pass está
// in_progress.
type CountLine struct {
	ID         string
	PassID     string
	SKU        string
	Barcode    string // lo que realmente se escaneó (puede diferir del SKU)
	PackageID  string // lote/paquete opcional
	CountedQty int    // siempre positivo
	Unit       string
	Confidence LineConfidence
	Notes      string
	CapturedAt time.Time
	CapturedBy string
}
