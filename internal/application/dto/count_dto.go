package dto

import "time"

// CreateSessionRequest body para POST /api/count/sessions.
// El baseline se captura al crear la sesión y queda inmutable: o bien un
// snapshot del inventario vigente (baseline_source=pos_snapshot) o una lista
// manual de cantidades por SKU (baseline_source=manual).
type CreateSessionRequest struct {
	StoreID        string                `json:"store_id"`
	Notes          string                `json:"notes,omitempty"`
	BaselineSource string                `json:"baseline_source,omitempty"` // pos_snapshot | manual
	ManualBaseline []ManualBaselineEntry `json:"manual_baseline,omitempty"`
}

// ManualBaselineEntry cantidad esperada de un SKU para baseline manual.
type ManualBaselineEntry struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// SessionResponse una sesión de conteo serializada.
type SessionResponse struct {
	ID                 string         `json:"id"`
	StoreID            string         `json:"store_id"`
	Status             string         `json:"status"`
	Notes              string         `json:"notes,omitempty"`
	BaselineSource     string         `json:"baseline_source"`
	BaselineCapturedAt time.Time      `json:"baseline_captured_at"`
	CreatedBy          string         `json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	ClosedAt           *time.Time     `json:"closed_at,omitempty"`
	PassCount          int            `json:"pass_count"`
	SubmittedPassCount int            `json:"submitted_pass_count"`
	Passes             []PassResponse `json:"passes,omitempty"`
}

// CreatePassRequest body para POST /api/count/sessions/:id/passes.
type CreatePassRequest struct {
	LocationID  string `json:"location_id"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	DeviceID    string `json:"device_id,omitempty"`
	ScanMode    string `json:"scan_mode,omitempty"` // scanner | camera | manual
}

// PassResponse un pass serializado.
type PassResponse struct {
	ID           string         `json:"id"`
	SessionID    string         `json:"session_id"`
	LocationID   string         `json:"location_id"`
	Category     string         `json:"category,omitempty"`
	Subcategory  string         `json:"subcategory,omitempty"`
	Status       string         `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	SubmittedAt  *time.Time     `json:"submitted_at,omitempty"`
	StartedBy    string         `json:"started_by"`
	DeviceID     string         `json:"device_id,omitempty"`
	ScanMode     string         `json:"scan_mode,omitempty"`
	LineCount    int            `json:"line_count"`
	TotalCounted int            `json:"total_counted"`
	Lines        []LineResponse `json:"lines,omitempty"`
}

// AddLineRequest body para POST /api/count/passes/:id/lines. Un escaneo suele
// traer counted_qty=1; un re-escaneo del mismo SKU incrementa la línea.
type AddLineRequest struct {
	Barcode    string `json:"barcode"`
	CountedQty int    `json:"counted_qty,omitempty"` // default 1
	PackageID  string `json:"package_id,omitempty"`
	Confidence string `json:"confidence,omitempty"` // scanned | typed | corrected
	Notes      string `json:"notes,omitempty"`
}

// AddLineResponse resultado de agregar (o incrementar) una línea.
type AddLineResponse struct {
	Line        LineResponse `json:"line"`
	Incremented bool         `json:"incremented"`
	PreviousQty int          `json:"previous_qty,omitempty"`
	Product     *ProductInfo `json:"product,omitempty"`
}

// UpdateLineRequest body para PUT /api/count/lines/:id (corrección manual;
// marca confidence=corrected). Punteros: solo se aplica lo presente.
type UpdateLineRequest struct {
	CountedQty *int    `json:"counted_qty,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// LineResponse una línea de conteo serializada.
type LineResponse struct {
	ID         string    `json:"id"`
	PassID     string    `json:"pass_id"`
	SKU        string    `json:"sku"`
	Barcode    string    `json:"barcode,omitempty"`
	PackageID  string    `json:"package_id,omitempty"`
	CountedQty int       `json:"counted_qty"`
	Unit       string    `json:"unit,omitempty"`
	Confidence string    `json:"confidence"`
	Notes      string    `json:"notes,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
	CapturedBy string    `json:"captured_by"`
}

// VarianceItem la varianza de un SKU: contado - (baseline + delta de movimientos).
type VarianceItem struct {
	SKU           string `json:"sku"`
	ProductName   string `json:"product_name,omitempty"`
	Brand         string `json:"brand,omitempty"`
	Category      string `json:"category,omitempty"`
	Subcategory   string `json:"subcategory,omitempty"`
	CountedQty    int    `json:"counted_qty"`
	BaselineQty   int    `json:"baseline_qty"`
	MovementDelta int    `json:"movement_delta"`
	ExpectedQty   int    `json:"expected_qty"`
	Variance      int    `json:"variance"`
}

// VarianceReport reporte de reconciliación de una sesión, ordenado por
// |variance| descendente. Preliminary indica que faltan insumos (sin passes
// enviados o sin baseline) o que el libro de movimientos puede estar
// desactualizado; el cálculo es idempotente y se puede re-ejecutar tras cada
// import.
type VarianceReport struct {
	SessionID          string         `json:"session_id"`
	StoreID            string         `json:"store_id"`
	Status             string         `json:"status"`
	WindowPolicy       string         `json:"window_policy"`
	HasBaseline        bool           `json:"has_baseline"`
	HasSubmittedPasses bool           `json:"has_submitted_passes"`
	Preliminary        bool           `json:"preliminary"`
	LedgerFreshAt      *time.Time     `json:"ledger_fresh_at,omitempty"`
	TotalSKUs          int            `json:"total_skus"`
	TotalVariance      int            `json:"total_variance"` // Σ |variance|
	Items              []VarianceItem `json:"items"`
}
