package entity

import "time"

// RunStatus ciclo de vida de un upstock run: in_progress -> completed | abandoned.
type RunStatus string

const (
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunAbandoned  RunStatus = "abandoned"
)

// CanTransitionTo valida la transición de estado del run.
func (s RunStatus) CanTransitionTo(next RunStatus) bool {
	switch s {
	case RunInProgress:
		return next == RunCompleted || next == RunAbandoned
	case RunCompleted, RunAbandoned:
		return false
	}
	return false
}

// UpstockRun un ciclo nocturno de reposición: calcula qué hay que bajar a la
// ubicación y registra el cumplimiento. La ventana [window_start_at,
// window_end_at) arranca en el completed_at del último run COMPLETADO de la
// misma tienda/ubicación (o inicio del día si no existe). Los runs abandonados
// no avanzan la cadena: el siguiente run vuelve a partir del último completado,
// para no perder ventas en silencio.
type UpstockRun struct {
	ID            string
	StoreID       string
	LocationID    string
	WindowStartAt time.Time
	WindowEndAt   time.Time
	Status        RunStatus
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	CompletedAt   *time.Time
	CompletedBy   string
	Lines         []*UpstockRunLine
}

// RunStats resumen de avance de un run.
type RunStats struct {
	Total          int     `json:"total"`
	Done           int     `json:"done"`
	Pending        int     `json:"pending"`
	Skipped        int     `json:"skipped"`
	Exceptions     int     `json:"exceptions"`
	CompletionRate float64 `json:"completion_rate"` // % de líneas done+skipped
}

// Stats calcula las estadísticas del run sobre sus líneas cargadas.
func (r *UpstockRun) Stats() RunStats {
	s := RunStats{Total: len(r.Lines)}
	if s.Total == 0 {
		return s
	}
	for _, l := range r.Lines {
		switch l.Status {
		case LineDone:
			s.Done++
		case LinePending:
			s.Pending++
		case LineSkipped:
			s.Skipped++
		case LineException:
			s.Exceptions++
		}
	}
	s.CompletionRate = float64(s.Done+s.Skipped) / float64(s.Total) * 100
	return s
}

// RunLineStatus estado de una línea: pending pasa a exactamente un estado
// terminal (done, skipped o exception) y nunca regresa.
type RunLineStatus string

const (
	LinePending   RunLineStatus = "pending"
	LineDone      RunLineStatus = "done"
	LineSkipped   RunLineStatus = "skipped"
	LineException RunLineStatus = "exception"
)

// IsValid indica si el estado es uno de los soportados.
func (s RunLineStatus) IsValid() bool {
	switch s {
	case LinePending, LineDone, LineSkipped, LineException:
		return true
	}
	return false
}

// IsTerminal indica si el estado ya no admite cambios de estado.
func (s RunLineStatus) IsTerminal() bool {
	return s == LineDone || s == LineSkipped || s == LineException
}

// UpstockRunLine la entrada de un SKU en un run. Única por (run_id, sku);
// las líneas se fijan al crear el run, un escaneo que no matchea ninguna es
// un miss reportable, nunca crea línea. pulled_qty es nil hasta que el staff
// resuelve la línea.
type UpstockRunLine struct {
	ID               string
	RunID            string
	SKU              string
	ProductName      string // denormalizado para mostrar sin joins
	Brand            string
	Category         string
	Subcategory      string
	ItemSize         string
	SoldQty          int // unidades vendidas en la ventana
	SuggestedPullQty int // v1: igual a SoldQty
	BOHQty           *int
	PulledQty        *int
	Status           RunLineStatus
	ExceptionReason  string // "BOH short", "Already stocked", etc.
	UpdatedAt        time.Time
	UpdatedBy        string
}

// UpstockBaseline nivel par (stock objetivo) de un SKU en una ubicación FOH.
// Solo para reporting en v1: no alimenta la sugerencia de pull.
type UpstockBaseline struct {
	ID          string
	StoreID     string
	LocationID  string
	SKU         string
	ParQty      int
	Category    string // agrupación de vitrina/menú
	Subcategory string
	UpdatedAt   time.Time
	UpdatedBy   string
}
