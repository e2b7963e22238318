package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/catalog"
	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// CatalogHandler maneja las peticiones HTTP de ubicaciones y lookup de
// productos (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateLocation godoc
// @Summary      Crear ubicación de conteo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "code, name"
// @Success      201  {object}  dto.LocationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	location, err := h.uc.CreateLocation(in.StoreID, in.Code, in.Name, in.Description, in.SortOrder)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(locationToDTO(location))
}

// ListLocations godoc
// @Summary      Listar ubicaciones activas de la tienda
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.uc.ListLocations(GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, locationToDTO(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "locations": out})
}

// GetLocation godoc
// @Summary      Detalle de una ubicación
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *CatalogHandler) GetLocation(c *fiber.Ctx) error {
	location, err := h.uc.GetLocation(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(locationToDTO(location))
}

// LookupProduct godoc
// @Summary      Resolver un código de barras a producto
// @Description  Match exacto en sku o vendor_sku. 404 = miss reportable.
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código escaneado"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/lookup/{barcode} [get]
func (h *CatalogHandler) LookupProduct(c *fiber.Ctx) error {
	product, err := h.uc.LookupProduct(c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(productToDTO(product))
}

// ── serializadores ────────────────────────────────────────────────────────────

func locationToDTO(l *entity.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:          l.ID,
		StoreID:     l.StoreID,
		Code:        l.Code,
		Name:        l.Name,
		Description: l.Description,
		IsActive:    l.IsActive,
		SortOrder:   l.SortOrder,
		CreatedAt:   l.CreatedAt,
	}
}

func productToDTO(p *entity.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		VendorSKU:   p.VendorSKU,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Unit:        p.Unit,
		IsActive:    p.IsActive,
		UpdatedAt:   p.UpdatedAt,
	}
	if !p.ItemSize.IsZero() {
		resp.ItemSize = p.ItemSize.String()
	}
	return resp
}
