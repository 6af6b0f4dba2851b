package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/persistence/models"
	"github.com/invoicer/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db      *gorm.DB
	tenants *tenant.TenantDB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, tenants: tenant.NewTenantDB(db)}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.tenants.ForTenant(ctx, tenantID).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all customers for a tenant
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.tenants.ForTenant(ctx, tenantID).Model(&models.CustomerModel{}), filter)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return toCustomers(customerModels), nil
}

// CountForTenant counts customers for a tenant matching the filter
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.tenants.ForTenant(ctx, tenantID).Model(&models.CustomerModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Search matches customer name, company name and email
func (r *GormCustomerRepository) Search(ctx context.Context, tenantID uuid.UUID, term string, limit int) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.tenants.ForTenant(ctx, tenantID).Model(&models.CustomerModel{})
	query = applySearch(query, term, "customer_name", "company_name", "customer_email")

	if err := query.Order("customer_name ASC").Limit(searchLimit(limit)).Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return toCustomers(customerModels), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a customer only when both id and tenant match
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.tenants.ForTenant(ctx, tenantID).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options, ordering and pagination
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = applyOrder(query, filter, customerSortColumns)
	return applyPagination(query, filter)
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "customer_name", "company_name", "customer_email")

	for key, value := range filter.Filters {
		switch key {
		case "customer_type":
			query = query.Where("customer_type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

func toCustomers(ms []models.CustomerModel) []partner.Customer {
	customers := make([]partner.Customer, len(ms))
	for i := range ms {
		customers[i] = *ms[i].ToDomain()
	}
	return customers
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
