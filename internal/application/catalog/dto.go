package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product.
// SKU is generated when left empty.
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=2000"`
	SKU           string           `json:"sku" binding:"max=50"`
	Type          string           `json:"type" binding:"required,oneof=product service"`
	UnitPrice     decimal.Decimal  `json:"unit_price" binding:"gte=0"`
	TaxPercent    decimal.Decimal  `json:"tax_percent" binding:"gte=0"`
	Discount      *decimal.Decimal `json:"discount" binding:"omitempty,gte=0"`
	Unit          string           `json:"unit" binding:"required,min=1,max=20"`
	StockQuantity *decimal.Decimal `json:"stock_quantity" binding:"omitempty,gte=0"`
	HSNCode       string           `json:"hsn_code" binding:"max=20"`
}

// UpdateProductRequest is a typed partial update: nil fields are left untouched.
// ClearDiscount and ClearStockQuantity unset the optional values.
type UpdateProductRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description        *string          `json:"description" binding:"omitempty,max=2000"`
	Type               *string          `json:"type" binding:"omitempty,oneof=product service"`
	UnitPrice          *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
	TaxPercent         *decimal.Decimal `json:"tax_percent" binding:"omitempty,gte=0"`
	Discount           *decimal.Decimal `json:"discount" binding:"omitempty,gte=0"`
	ClearDiscount      bool             `json:"clear_discount"`
	Unit               *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	StockQuantity      *decimal.Decimal `json:"stock_quantity" binding:"omitempty,gte=0"`
	ClearStockQuantity bool             `json:"clear_stock_quantity"`
	HSNCode            *string          `json:"hsn_code" binding:"omitempty,max=20"`
	IsActive           *bool            `json:"is_active"`
}

// GenerateSKURequest asks for a SKU preview
type GenerateSKURequest struct {
	Name string `form:"name" binding:"required,min=1,max=200"`
	Type string `form:"type" binding:"omitempty,oneof=product service"`
}

// SKUResponse carries a generated SKU
type SKUResponse struct {
	SKU string `json:"sku"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	TenantID      uuid.UUID        `json:"tenant_id"`
	UserID        uuid.UUID        `json:"user_id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	SKU           string           `json:"sku"`
	Type          string           `json:"type"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	TaxPercent    decimal.Decimal  `json:"tax_percent"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Unit          string           `json:"unit"`
	StockQuantity *decimal.Decimal `json:"stock_quantity,omitempty"`
	HSNCode       string           `json:"hsn_code"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Version       int              `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Type       string          `json:"type"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	Unit       string          `json:"unit"`
	HSNCode    string          `json:"hsn_code"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=product service"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		UserID:        p.UserID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Type:          string(p.Type),
		UnitPrice:     p.UnitPrice,
		TaxPercent:    p.TaxPercent,
		Discount:      p.Discount,
		Unit:          p.Unit,
		StockQuantity: p.StockQuantity,
		HSNCode:       p.HSNCode,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Type:       string(p.Type),
		UnitPrice:  p.UnitPrice,
		TaxPercent: p.TaxPercent,
		Unit:       p.Unit,
		HSNCode:    p.HSNCode,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
}

// ToProductListResponses converts a slice of domain Products to ProductListResponses
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i := range products {
		responses[i] = ToProductListResponse(&products[i])
	}
	return responses
}
