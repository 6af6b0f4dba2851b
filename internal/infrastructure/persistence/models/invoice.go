package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the invoices table.
// (tenant_id, invoice_number) carries a unique index.
type InvoiceModel struct {
	AggregateModel
	TenantID           uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_tenant_number,priority:1"`
	UserID             uuid.UUID          `gorm:"type:uuid;not null"`
	CustomerID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	CustomerName       string             `gorm:"type:varchar(200)"`
	InvoiceNumber      string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_tenant_number,priority:2"`
	OrderNumber        string             `gorm:"type:varchar(50)"`
	InvoiceDate        time.Time          `gorm:"not null"`
	DueDate            time.Time          `gorm:"not null"`
	Subtotal           decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	CGSTTotal          decimal.Decimal    `gorm:"column:cgst_total;type:decimal(18,4);not null;default:0"`
	SGSTTotal          decimal.Decimal    `gorm:"column:sgst_total;type:decimal(18,4);not null;default:0"`
	Adjustment         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Total              decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceAmount      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status             string             `gorm:"type:varchar(10);not null;index"`
	TermsAndConditions string             `gorm:"type:text"`
	Remarks            string             `gorm:"type:text"`
	Items              []InvoiceItemModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is the persistence model for the invoice_items table
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo      int             `gorm:"not null"`
	ProductID   *uuid.UUID      `gorm:"type:uuid"`
	Name        string          `gorm:"type:varchar(200);not null"`
	HSNCode     string          `gorm:"column:hsn_code;type:varchar(20)"`
	Quantity    int64           `gorm:"not null;default:0"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CGSTPercent decimal.Decimal `gorm:"column:cgst_percent;type:decimal(7,4);not null;default:0"`
	SGSTPercent decimal.Decimal `gorm:"column:sgst_percent;type:decimal(7,4);not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice.
// When items are preloaded the totals are recomputed from them.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	inv := &invoicing.Invoice{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: m.AggregateRoot(),
			TenantID:          m.TenantID,
			UserID:            m.UserID,
		},
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		InvoiceNumber:       m.InvoiceNumber,
		OrderNumber:         m.OrderNumber,
		InvoiceDate:         m.InvoiceDate,
		DueDate:             m.DueDate,
		TermsAndConditions:  m.TermsAndConditions,
		Remarks:             m.Remarks,
		Totals: invoicing.Totals{
			Subtotal:      m.Subtotal,
			DiscountTotal: m.DiscountTotal,
			CGSTTotal:     m.CGSTTotal,
			SGSTTotal:     m.SGSTTotal,
			Adjustment:    m.Adjustment,
			Total:         m.Total,
			PaidAmount:    m.PaidAmount,
			BalanceAmount: m.BalanceAmount,
		},
		Items: make([]invoicing.LineItem, 0, len(m.Items)),
	}

	if len(m.Items) == 0 {
		return inv
	}
	items := make([]invoicing.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = it.ToDomain()
	}
	inv.Items, inv.Totals = invoicing.CalculateTotals(items, m.Adjustment, m.PaidAmount)
	return inv
}

// ToDomain converts the persistence model to a domain LineItem
func (m *InvoiceItemModel) ToDomain() invoicing.LineItem {
	return invoicing.LineItem{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Name:        m.Name,
		HSNCode:     m.HSNCode,
		Quantity:    m.Quantity,
		Rate:        m.Rate,
		Discount:    m.Discount,
		CGSTPercent: m.CGSTPercent,
		SGSTPercent: m.SGSTPercent,
		Amount:      m.Amount,
	}
}

// InvoiceModelFromDomain converts a domain Invoice to its persistence model
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		CustomerID:         inv.CustomerID,
		CustomerName:       inv.CustomerName,
		InvoiceNumber:      inv.InvoiceNumber,
		OrderNumber:        inv.OrderNumber,
		InvoiceDate:        inv.InvoiceDate,
		DueDate:            inv.DueDate,
		Subtotal:           inv.Totals.Subtotal,
		DiscountTotal:      inv.Totals.DiscountTotal,
		CGSTTotal:          inv.Totals.CGSTTotal,
		SGSTTotal:          inv.Totals.SGSTTotal,
		Adjustment:         inv.Totals.Adjustment,
		Total:              inv.Totals.Total,
		PaidAmount:         inv.Totals.PaidAmount,
		BalanceAmount:      inv.Totals.BalanceAmount,
		Status:             string(inv.Totals.Status()),
		TermsAndConditions: inv.TermsAndConditions,
		Remarks:            inv.Remarks,
		Items:              make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromAggregateRoot(inv.BaseAggregateRoot)
	m.TenantID = inv.TenantID
	m.UserID = inv.UserID

	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			LineNo:      i + 1,
			ProductID:   it.ProductID,
			Name:        it.Name,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Discount:    it.Discount,
			CGSTPercent: it.CGSTPercent,
			SGSTPercent: it.SGSTPercent,
			Amount:      it.Amount,
		}
	}
	return m
}
