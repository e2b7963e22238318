package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product catálogo universal de productos (solo lectura; lo alimenta el
// importador de catálogo externo). La resolución de código de barras busca
// match exacto en SKU o VendorSKU.
type Product struct {
	ID          string
	SKU         string
	VendorSKU   string // SKU del POS del proveedor (puede diferir del interno)
	Name        string
	Brand       string
	Category    string
	Subcategory string
	Unit        string          // each, g, ml
	ItemSize    decimal.Decimal // tamaño del ítem en Unit (NUMERIC en DB)
	IsActive    bool
	UpdatedAt   time.Time
}
