package dto

import "time"

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	StoreID     string `json:"store_id"`
	Code        string `json:"code"` // FOH_DISPLAY, BOH_STORAGE
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

// LocationResponse una ubicación serializada.
type LocationResponse struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductResponse un producto del catálogo serializado.
type ProductResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	VendorSKU   string    `json:"vendor_sku,omitempty"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	ItemSize    string    `json:"item_size,omitempty"`
	IsActive    bool      `json:"is_active"`
	UpdatedAt   time.Time `json:"updated_at"`
}
