package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/invoicing"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/persistence/models"
	"github.com/invoicer/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db      *gorm.DB
	tenants *tenant.TenantDB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, tenants: tenant.NewTenantDB(db)}
}

// FindByIDForTenant loads an invoice and its items in line order
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.tenants.ForTenant(ctx, tenantID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists invoice headers for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.tenants.ForTenant(ctx, tenantID).Model(&models.InvoiceModel{}), filter)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// CountForTenant counts invoices for a tenant matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.tenants.ForTenant(ctx, tenantID).Model(&models.InvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Search matches invoice number and order number
func (r *GormInvoiceRepository) Search(ctx context.Context, tenantID uuid.UUID, term string, limit int) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.tenants.ForTenant(ctx, tenantID).Model(&models.InvoiceModel{})
	query = applySearch(query, term, "invoice_number", "order_number")

	if err := query.Order("created_at DESC").Limit(searchLimit(limit)).Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// Save upserts the invoice header and replaces its items in one transaction
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	items := model.Items
	model.Items = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.WrapDomainError("ALREADY_EXISTS", "Invoice number already exists", err)
			}
			return err
		}
		if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.WrapDomainError("ITEM_CONFLICT", "Line items could not be saved", err)
			}
			return err
		}
		return nil
	})
}

// DeleteForTenant removes an invoice and its items when both id and tenant match
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.tenants.Transaction(ctx, tenantID, func(tx *gorm.DB) error {
		result := tenant.Filter(tx, tenantID).Delete(&models.InvoiceModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error
	})
}

// ExistsByInvoiceNumber checks invoice number uniqueness within a tenant
func (r *GormInvoiceRepository) ExistsByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.tenants.ForTenant(ctx, tenantID).Model(&models.InvoiceModel{}).
		Where("invoice_number = ?", strings.TrimSpace(number)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type invoiceSummaryRow struct {
	InvoiceCount  int64
	CreditCount   int64
	PaidCount     int64
	TotalInvoiced decimal.Decimal
	TotalTax      decimal.Decimal
	TotalPaid     decimal.Decimal
	Outstanding   decimal.Decimal
}

// Summarize aggregates invoice amounts by invoice date
func (r *GormInvoiceRepository) Summarize(ctx context.Context, tenantID uuid.UUID, period shared.DateRange) (*invoicing.Summary, error) {
	var row invoiceSummaryRow
	query := r.tenants.ForTenant(ctx, tenantID).Model(&models.InvoiceModel{}).
		Select(`COUNT(*) AS invoice_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS credit_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS paid_count,
			COALESCE(SUM(total), 0) AS total_invoiced,
			COALESCE(SUM(cgst_total + sgst_total), 0) AS total_tax,
			COALESCE(SUM(paid_amount), 0) AS total_paid,
			COALESCE(SUM(CASE WHEN balance_amount > 0 THEN balance_amount ELSE 0 END), 0) AS outstanding`,
			invoicing.StatusCredit.String(), invoicing.StatusPaid.String())

	if period.From != nil {
		query = query.Where("invoice_date >= ?", *period.From)
	}
	if period.To != nil {
		query = query.Where("invoice_date <= ?", *period.To)
	}

	if err := query.Scan(&row).Error; err != nil {
		return nil, err
	}

	return &invoicing.Summary{
		InvoiceCount:  row.InvoiceCount,
		CreditCount:   row.CreditCount,
		PaidCount:     row.PaidCount,
		TotalInvoiced: row.TotalInvoiced,
		TotalTax:      row.TotalTax,
		TotalPaid:     row.TotalPaid,
		Outstanding:   row.Outstanding,
	}, nil
}

// applyFilter applies filter options, ordering and pagination
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = applyOrder(query, filter, invoiceSortColumns)
	return applyPagination(query, filter)
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "invoice_number", "order_number", "customer_name")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "from":
			query = query.Where("invoice_date >= ?", value)
		case "to":
			query = query.Where("invoice_date <= ?", value)
		}
	}
	return query
}

func toInvoices(ms []models.InvoiceModel) []invoicing.Invoice {
	invoices := make([]invoicing.Invoice, len(ms))
	for i := range ms {
		invoices[i] = *ms[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
