package catalog

import (
	"strings"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// UseCase ubicaciones de conteo y resolución de códigos de barras contra el
// catálogo (el catálogo en sí lo escribe el importador externo).
type UseCase struct {
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(locationRepo repository.LocationRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{locationRepo: locationRepo, productRepo: productRepo}
}

// CreateLocation crea una ubicación de conteo; code es único por tienda.
func (uc *UseCase) CreateLocation(storeID, code, name, description string, sortOrder int) (*entity.Location, error) {
	code = strings.TrimSpace(code)
	if strings.TrimSpace(storeID) == "" || code == "" || strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	location := &entity.Location{
		StoreID:     storeID,
		Code:        strings.ToUpper(code),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		IsActive:    true,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

// GetLocation devuelve la ubicación o ErrNotFound.
func (uc *UseCase) GetLocation(id string) (*entity.Location, error) {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	return location, nil
}

// ListLocations lista las ubicaciones activas de la tienda.
func (uc *UseCase) ListLocations(storeID string) ([]*entity.Location, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.locationRepo.ListByStore(storeID)
}

// LookupProduct resuelve un código de barras: match exacto en sku o vendor_sku.
func (uc *UseCase) LookupProduct(barcode string) (*entity.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.LookupByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
