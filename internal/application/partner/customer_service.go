package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/partner"
	"github.com/invoicer/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer stamped with the scope's tenant and user
func (s *CustomerService) Create(ctx context.Context, scope identity.Scope, req CreateCustomerRequest) (*CustomerResponse, error) {
	if scope.IsZero() {
		return nil, shared.ErrNotAuthenticated
	}

	customer, err := partner.NewCustomer(scope.TenantID, scope.UserID, req.CustomerName, req.WorkPhone, partner.CustomerType(req.CustomerType))
	if err != nil {
		return nil, err
	}

	if err := customer.Rename(req.CustomerName, req.CompanyName); err != nil {
		return nil, err
	}
	if err := customer.SetContact(req.CustomerEmail, req.WorkPhone, req.Mobile, req.Website); err != nil {
		return nil, err
	}
	if req.BillingAddress != nil {
		if err := customer.SetBillingAddress(req.BillingAddress.toDomain()); err != nil {
			return nil, err
		}
	}
	if err := customer.SetTaxDetails(req.GSTTreatment, req.PlaceOfSupply, partner.TaxPreference(req.TaxPreference), req.GSTIN, req.PANNumber); err != nil {
		return nil, err
	}
	if err := customer.SetBillingPreferences(req.Currency, req.PaymentTerms, req.EnablePortal, req.PortalLanguage); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers newest first with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerListResponse, int64, error) {
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

	if filter.CustomerType != "" {
		domainFilter.Filters["customer_type"] = filter.CustomerType
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerListResponses(customers), total, nil
}

// Search matches customer and company names case-insensitively, at most shared.SearchLimit rows
func (s *CustomerService) Search(ctx context.Context, tenantID uuid.UUID, query string) ([]CustomerListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []CustomerListResponse{}, nil
	}
	customers, err := s.customerRepo.Search(ctx, tenantID, query, shared.SearchLimit)
	if err != nil {
		return nil, err
	}
	return ToCustomerListResponses(customers), nil
}

// Update applies a typed partial update
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil || req.CompanyName != nil {
		if err := customer.Rename(valueOr(req.CustomerName, customer.CustomerName), valueOr(req.CompanyName, customer.CompanyName)); err != nil {
			return nil, err
		}
	}

	if req.CustomerEmail != nil || req.WorkPhone != nil || req.Mobile != nil || req.Website != nil {
		if err := customer.SetContact(
			valueOr(req.CustomerEmail, customer.CustomerEmail),
			valueOr(req.WorkPhone, customer.WorkPhone),
			valueOr(req.Mobile, customer.Mobile),
			valueOr(req.Website, customer.Website),
		); err != nil {
			return nil, err
		}
	}

	if req.BillingAddress != nil {
		if err := customer.SetBillingAddress(req.BillingAddress.toDomain()); err != nil {
			return nil, err
		}
	}

	if req.CustomerType != nil {
		if err := customer.SetCustomerType(partner.CustomerType(*req.CustomerType)); err != nil {
			return nil, err
		}
	}

	if req.GSTTreatment != nil || req.PlaceOfSupply != nil || req.TaxPreference != nil || req.GSTIN != nil || req.PANNumber != nil {
		pref := customer.TaxPreference
		if req.TaxPreference != nil {
			pref = partner.TaxPreference(*req.TaxPreference)
		}
		if err := customer.SetTaxDetails(
			valueOr(req.GSTTreatment, customer.GSTTreatment),
			valueOr(req.PlaceOfSupply, customer.PlaceOfSupply),
			pref,
			valueOr(req.GSTIN, customer.GSTIN),
			valueOr(req.PANNumber, customer.PANNumber),
		); err != nil {
			return nil, err
		}
	}

	if req.Currency != nil || req.PaymentTerms != nil || req.EnablePortal != nil || req.PortalLanguage != nil {
		enablePortal := customer.EnablePortal
		if req.EnablePortal != nil {
			enablePortal = *req.EnablePortal
		}
		if err := customer.SetBillingPreferences(
			valueOr(req.Currency, customer.Currency),
			valueOr(req.PaymentTerms, customer.PaymentTerms),
			enablePortal,
			valueOr(req.PortalLanguage, customer.PortalLanguage),
		); err != nil {
			return nil, err
		}
	}

	if req.IsActive != nil {
		customer.SetActive(*req.IsActive)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete hard-deletes a customer matching both id and tenant
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	return s.customerRepo.DeleteForTenant(ctx, tenantID, customerID)
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
