package dto

import (
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// StartRunRequest body para POST /api/upstock/runs/start. window_start_at no
// se acepta del cliente: siempre se deriva del último run completado (o inicio
// del día) para que la cadena de ventanas no tenga huecos ni solapes.
type StartRunRequest struct {
	StoreID     string     `json:"store_id"`
	LocationID  string     `json:"location_id"`
	WindowEndAt *time.Time `json:"window_end_at,omitempty"` // default: ahora
	Category    string     `json:"category,omitempty"`      // filtro opcional de ventas
	Notes       string     `json:"notes,omitempty"`
}

// RunResponse un upstock run serializado.
type RunResponse struct {
	ID            string            `json:"id"`
	StoreID       string            `json:"store_id"`
	LocationID    string            `json:"location_id"`
	WindowStartAt time.Time         `json:"window_start_at"`
	WindowEndAt   time.Time         `json:"window_end_at"`
	Status        string            `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	Lines         []RunLineResponse `json:"lines,omitempty"`
	Stats         *entity.RunStats  `json:"stats,omitempty"`
}

// RunLineResponse una línea de run serializada.
type RunLineResponse struct {
	ID               string    `json:"id"`
	RunID            string    `json:"run_id"`
	SKU              string    `json:"sku"`
	ProductName      string    `json:"product_name,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	Category         string    `json:"category,omitempty"`
	Subcategory      string    `json:"subcategory,omitempty"`
	ItemSize         string    `json:"item_size,omitempty"`
	SoldQty          int       `json:"sold_qty"`
	SuggestedPullQty int       `json:"suggested_pull_qty"`
	BOHQty           *int      `json:"boh_qty,omitempty"`
	PulledQty        *int      `json:"pulled_qty,omitempty"`
	Status           string    `json:"status"`
	ExceptionReason  string    `json:"exception_reason,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
	UpdatedBy        string    `json:"updated_by,omitempty"`
}

// UpdateRunLineRequest body para PATCH /api/upstock/runs/:id/lines/:sku.
// Update parcial: solo se aplica lo presente. status=exception exige
// exception_reason; status=done exige pulled_qty >= 0.
type UpdateRunLineRequest struct {
	PulledQty       *int    `json:"pulled_qty,omitempty"`
	Status          *string `json:"status,omitempty"`
	ExceptionReason *string `json:"exception_reason,omitempty"`
}

// CompleteRunRequest body para POST /api/upstock/runs/:id/complete.
type CompleteRunRequest struct {
	ValidateAllResolved bool `json:"validate_all_resolved,omitempty"`
}

// AbandonRunRequest body para POST /api/upstock/runs/:id/abandon.
type AbandonRunRequest struct {
	Reason string `json:"reason,omitempty"`
}

// BaselineItem un nivel par a crear o actualizar.
type BaselineItem struct {
	SKU         string `json:"sku"`
	ParQty      int    `json:"par_qty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// UpsertBaselinesRequest body para PUT /api/upstock/baselines (upsert masivo).
type UpsertBaselinesRequest struct {
	StoreID    string         `json:"store_id"`
	LocationID string         `json:"location_id"`
	Baselines  []BaselineItem `json:"baselines"`
}

// UpsertBaselinesResult resumen del upsert masivo.
type UpsertBaselinesResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// BaselineResponse un nivel par serializado.
type BaselineResponse struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	LocationID  string    `json:"location_id"`
	SKU         string    `json:"sku"`
	ParQty      int       `json:"par_qty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
}
