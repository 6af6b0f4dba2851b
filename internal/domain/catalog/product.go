package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductType distinguishes goods from services
type ProductType string

const (
	ProductTypeProduct ProductType = "product"
	ProductTypeService ProductType = "service"
)

// IsValid checks if the type is a valid ProductType
func (t ProductType) IsValid() bool {
	return t == ProductTypeProduct || t == ProductTypeService
}

// IsService reports whether the type is a service
func (t ProductType) IsService() bool {
	return t == ProductTypeService
}

// Product represents a product or service line a tenant can invoice.
// SKU is unique across all tenants.
type Product struct {
	shared.TenantAggregateRoot
	Name          string
	Description   string
	SKU           string
	Type          ProductType
	UnitPrice     decimal.Decimal
	TaxPercent    decimal.Decimal
	Discount      *decimal.Decimal
	Unit          string
	StockQuantity *decimal.Decimal
	HSNCode       string
	IsActive      bool
}

// NewProduct creates a new active product
func NewProduct(tenantID, userID uuid.UUID, name, sku string, productType ProductType, unit string) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type must be product or service")
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, userID),
		Name:                strings.TrimSpace(name),
		SKU:                 strings.ToUpper(strings.TrimSpace(sku)),
		Type:                productType,
		UnitPrice:           decimal.Zero,
		TaxPercent:          decimal.Zero,
		Unit:                strings.TrimSpace(unit),
		IsActive:            true,
	}, nil
}

// Rename changes the product name
func (p *Product) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.touch()
	return nil
}

// SetDescription sets the free-form description
func (p *Product) SetDescription(description string) error {
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	p.Description = description
	p.touch()
	return nil
}

// SetType changes between product and service
func (p *Product) SetType(productType ProductType) error {
	if !productType.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type must be product or service")
	}
	p.Type = productType
	p.touch()
	return nil
}

// SetUnit sets the unit of measure
func (p *Product) SetUnit(unit string) error {
	if err := validateUnit(unit); err != nil {
		return err
	}
	p.Unit = strings.TrimSpace(unit)
	p.touch()
	return nil
}

// SetPricing sets the unit price and total tax percent
func (p *Product) SetPricing(unitPrice, taxPercent decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be a positive number")
	}
	if taxPercent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax must be a positive number")
	}
	p.UnitPrice = unitPrice
	p.TaxPercent = taxPercent
	p.touch()
	return nil
}

// SetDiscount sets or clears the default discount
func (p *Product) SetDiscount(discount *decimal.Decimal) error {
	if discount != nil && discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be a positive number")
	}
	p.Discount = discount
	p.touch()
	return nil
}

// SetStockQuantity sets or clears the stock on hand
func (p *Product) SetStockQuantity(qty *decimal.Decimal) error {
	if qty != nil && qty.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	p.StockQuantity = qty
	p.touch()
	return nil
}

// SetHSNCode sets the harmonized classification code
func (p *Product) SetHSNCode(code string) error {
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_HSN_CODE", "HSN code cannot exceed 20 characters")
	}
	p.HSNCode = strings.TrimSpace(code)
	p.touch()
	return nil
}

// SetActive enables or disables the product
func (p *Product) SetActive(active bool) {
	p.IsActive = active
	p.touch()
}

// HalfTax returns the per-component rate used for CGST and SGST
func (p *Product) HalfTax() decimal.Decimal {
	return p.TaxPercent.Div(decimal.NewFromInt(2))
}

func (p *Product) touch() {
	p.Touch()
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU is required")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit is required")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
