package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/numbering"
	"github.com/invoicer/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	generator   *numbering.Generator
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, generator *numbering.Generator) *ProductService {
	if generator == nil {
		generator = numbering.NewGenerator()
	}
	return &ProductService{
		productRepo: productRepo,
		generator:   generator,
	}
}

// GenerateSKU returns a SKU that was unused across all tenants when checked.
// Nothing is reserved; a concurrent insert can still take it.
func (s *ProductService) GenerateSKU(ctx context.Context, name string, productType catalog.ProductType) (string, error) {
	scheme := numbering.SKUScheme{Name: name, Service: productType.IsService()}
	return s.generator.Generate(ctx, scheme, numbering.ExistenceFunc(s.productRepo.ExistsBySKU))
}

// Create creates a new product, generating its SKU when none is given
func (s *ProductService) Create(ctx context.Context, scope identity.Scope, req CreateProductRequest) (*ProductResponse, error) {
	if scope.IsZero() {
		return nil, shared.ErrNotAuthenticated
	}

	productType := catalog.ProductType(req.Type)
	if !productType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type must be product or service")
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku == "" {
		generated, err := s.GenerateSKU(ctx, req.Name, productType)
		if err != nil {
			return nil, err
		}
		sku = generated
	} else {
		exists, err := s.productRepo.ExistsBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "SKU already exists")
		}
	}

	product, err := catalog.NewProduct(scope.TenantID, scope.UserID, req.Name, sku, productType, req.Unit)
	if err != nil {
		return nil, err
	}
	if err := product.SetDescription(req.Description); err != nil {
		return nil, err
	}
	if err := product.SetPricing(req.UnitPrice, req.TaxPercent); err != nil {
		return nil, err
	}
	if err := product.SetDiscount(req.Discount); err != nil {
		return nil, err
	}
	if err := product.SetStockQuantity(req.StockQuantity); err != nil {
		return nil, err
	}
	if err := product.SetHSNCode(req.HSNCode); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products newest first with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// Search matches name and description case-insensitively, at most shared.SearchLimit rows
func (s *ProductService) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]ProductListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ProductListResponse{}, nil
	}
	products, err := s.productRepo.Search(ctx, tenantID, query, shared.SearchLimit)
	if err != nil {
		return nil, err
	}
	return ToProductListResponses(products), nil
}

// Update applies a typed partial update. The SKU never changes.
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := product.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		if err := product.SetType(catalog.ProductType(*req.Type)); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil || req.TaxPercent != nil {
		unitPrice, taxPercent := product.UnitPrice, product.TaxPercent
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}
		if req.TaxPercent != nil {
			taxPercent = *req.TaxPercent
		}
		if err := product.SetPricing(unitPrice, taxPercent); err != nil {
			return nil, err
		}
	}
	if req.ClearDiscount {
		if err := product.SetDiscount(nil); err != nil {
			return nil, err
		}
	} else if req.Discount != nil {
		if err := product.SetDiscount(req.Discount); err != nil {
			return nil, err
		}
	}
	if req.Unit != nil {
		if err := product.SetUnit(*req.Unit); err != nil {
			return nil, err
		}
	}
	if req.ClearStockQuantity {
		if err := product.SetStockQuantity(nil); err != nil {
			return nil, err
		}
	} else if req.StockQuantity != nil {
		if err := product.SetStockQuantity(req.StockQuantity); err != nil {
			return nil, err
		}
	}
	if req.HSNCode != nil {
		if err := product.SetHSNCode(*req.HSNCode); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		product.SetActive(*req.IsActive)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete hard-deletes a product matching both id and tenant
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	return s.productRepo.DeleteForTenant(ctx, tenantID, productID)
}
