package models

import (
	"github.com/invoicer/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the products table.
// sku carries a unique index across all tenants.
type ProductModel struct {
	TenantModel
	Name          string           `gorm:"type:varchar(200);not null"`
	Description   string           `gorm:"type:text"`
	SKU           string           `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Type          string           `gorm:"type:varchar(20);not null;default:'product'"`
	UnitPrice     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	TaxPercent    decimal.Decimal  `gorm:"type:decimal(7,4);not null;default:0"`
	Discount      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Unit          string           `gorm:"type:varchar(20);not null"`
	StockQuantity *decimal.Decimal `gorm:"type:decimal(18,4)"`
	HSNCode       string           `gorm:"column:hsn_code;type:varchar(20)"`
	IsActive      bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		SKU:                 m.SKU,
		Type:                catalog.ProductType(m.Type),
		UnitPrice:           m.UnitPrice,
		TaxPercent:          m.TaxPercent,
		Discount:            m.Discount,
		Unit:                m.Unit,
		StockQuantity:       m.StockQuantity,
		HSNCode:             m.HSNCode,
		IsActive:            m.IsActive,
	}
}

// ProductModelFromDomain converts a domain Product to its persistence model
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
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
	}
	m.FromTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}
