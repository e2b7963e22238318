package entity

import "time"

// Location es una ubicación física de conteo dentro de una tienda
// (FOH_DISPLAY, BOH_STORAGE, etc.). code es único por tienda.
type Location struct {
	ID          string
	StoreID     string
	Code        string // FOH_DISPLAY, BOH_STORAGE
	Name        string // "Front of House - Display"
	Description string
	IsActive    bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
