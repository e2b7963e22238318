package dto

import "time"

// MovementInput un movimiento a importar.
type MovementInput struct {
	SKU          string    `json:"sku"`
	MovementType string    `json:"movement_type"` // sale | refund | transfer_in | transfer_out | adjustment
	QtyDelta     int       `json:"qty_delta"`     // el signo debe coincidir con el tipo
	OccurredAt   time.Time `json:"occurred_at"`
	Source       string    `json:"source,omitempty"` // cova_sync | manual | import
	SourceRef    string    `json:"source_ref"`       // clave de idempotencia
}

// ImportMovementsRequest body para POST /api/movements/import. Idempotente
// sobre (store, sku, source_ref): re-enviar el mismo lote no duplica.
type ImportMovementsRequest struct {
	StoreID   string          `json:"store_id"`
	Movements []MovementInput `json:"movements"`
}

// ImportMovementsResult resumen del import.
type ImportMovementsResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// MovementResponse un movimiento serializado.
type MovementResponse struct {
	ID           string    `json:"id"`
	StoreID      string    `json:"store_id"`
	SKU          string    `json:"sku"`
	MovementType string    `json:"movement_type"`
	QtyDelta     int       `json:"qty_delta"`
	OccurredAt   time.Time `json:"occurred_at"`
	Source       string    `json:"source,omitempty"`
	SourceRef    string    `json:"source_ref,omitempty"`
	ImportedAt   time.Time `json:"imported_at"`
}

// SyncStatusResponse frescura del libro de movimientos de una tienda.
type SyncStatusResponse struct {
	StoreID          string     `json:"store_id"`
	LatestMovementAt *time.Time `json:"latest_movement_at,omitempty"`
	Synced           bool       `json:"synced"`
}
