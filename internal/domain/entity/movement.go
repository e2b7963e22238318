package entity

import "time"

// MovementType clasifica los eventos que afectan inventario.
// Enum cerrado: todo switch sobre este tipo debe ser exhaustivo.
type MovementType string

const (
	MovementSale        MovementType = "sale"         // venta (qty_delta negativo)
	MovementRefund      MovementType = "refund"       // devolución (qty_delta positivo)
	MovementTransferIn  MovementType = "transfer_in"  // traslado entrante (positivo)
	MovementTransferOut MovementType = "transfer_out" // traslado saliente (negativo)
	MovementAdjustment  MovementType = "adjustment"   // ajuste manual (cualquier signo)
)

// IsValid indica si el tipo es uno de los soportados.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementSale, MovementRefund, MovementTransferIn, MovementTransferOut, MovementAdjustment:
		return true
	}
	return false
}

// SignMatches verifica la convención de signo de qty_delta según el tipo.
// sale y transfer_out restan inventario (delta < 0); refund y transfer_in
// lo suman (delta > 0); adjustment admite cualquier signo distinto de cero.
func (t MovementType) SignMatches(qtyDelta int) bool {
	switch t {
	case MovementSale, MovementTransferOut:
		return qtyDelta < 0
	case MovementRefund, MovementTransferIn:
		return qtyDelta > 0
	case MovementAdjustment:
		return qtyDelta != 0
	}
	return false
}

// Movement es un hecho inmutable del libro de movimientos: una venta, devolución,
// traslado o ajuste de un SKU en un instante. Lo escribe el importador externo;
// nunca se modifica, solo se reemplaza por una re-importación correctiva.
// El único orden con significado es occurred_at.
type Movement struct {
	ID           string
	StoreID      string
	SKU          string
	MovementType MovementType
	QtyDelta     int // negativo = sale del inventario (ventas)
	OccurredAt   time.Time
	Source       string // cova_sync | manual | import
	SourceRef    string // ID de transacción/recibo del origen (idempotencia)
	ImportedAt   time.Time
	ImportedBy   string
}
