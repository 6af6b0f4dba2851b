package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/partner"
)

// BillingAddressRequest is the address block of customer requests
type BillingAddressRequest struct {
	Attention string `json:"attention" binding:"max=200"`
	Street1   string `json:"street1" binding:"max=300"`
	Street2   string `json:"street2" binding:"max=300"`
	City      string `json:"city" binding:"max=100"`
	State     string `json:"state" binding:"max=100"`
	PinCode   string `json:"pin_code" binding:"max=10"`
	Country   string `json:"country" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=30"`
	Fax       string `json:"fax" binding:"max=30"`
}

func (r BillingAddressRequest) toDomain() partner.BillingAddress {
	return partner.BillingAddress{
		Attention: r.Attention,
		Street1:   r.Street1,
		Street2:   r.Street2,
		City:      r.City,
		State:     r.State,
		PinCode:   r.PinCode,
		Country:   r.Country,
		Phone:     r.Phone,
		Fax:       r.Fax,
	}
}

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	CustomerName   string                 `json:"customer_name" binding:"required,min=1,max=200"`
	CompanyName    string                 `json:"company_name" binding:"max=200"`
	CustomerEmail  string                 `json:"customer_email" binding:"omitempty,email,max=200"`
	WorkPhone      string                 `json:"work_phone" binding:"required,max=30"`
	Mobile         string                 `json:"mobile" binding:"max=30"`
	Website        string                 `json:"website" binding:"max=200"`
	BillingAddress *BillingAddressRequest `json:"billing_address"`
	CustomerType   string                 `json:"customer_type" binding:"omitempty,oneof=Business Individual"`
	GSTTreatment   string                 `json:"gst_treatment" binding:"max=100"`
	PlaceOfSupply  string                 `json:"place_of_supply" binding:"max=100"`
	TaxPreference  string                 `json:"tax_preference" binding:"omitempty,oneof=taxable tax_exempt"`
	Currency       string                 `json:"currency" binding:"omitempty,len=3"`
	PaymentTerms   string                 `json:"payment_terms" binding:"max=100"`
	EnablePortal   bool                   `json:"enable_portal"`
	PortalLanguage string                 `json:"portal_language" binding:"max=50"`
	GSTIN          string                 `json:"gst_in" binding:"omitempty,len=15"`
	PANNumber      string                 `json:"pan_number" binding:"omitempty,len=10"`
}

// UpdateCustomerRequest is a typed partial update: nil fields are left untouched
type UpdateCustomerRequest struct {
	CustomerName   *string                `json:"customer_name" binding:"omitempty,min=1,max=200"`
	CompanyName    *string                `json:"company_name" binding:"omitempty,max=200"`
	CustomerEmail  *string                `json:"customer_email" binding:"omitempty,max=200"`
	WorkPhone      *string                `json:"work_phone" binding:"omitempty,min=1,max=30"`
	Mobile         *string                `json:"mobile" binding:"omitempty,max=30"`
	Website        *string                `json:"website" binding:"omitempty,max=200"`
	BillingAddress *BillingAddressRequest `json:"billing_address"`
	CustomerType   *string                `json:"customer_type" binding:"omitempty,oneof=Business Individual"`
	GSTTreatment   *string                `json:"gst_treatment" binding:"omitempty,max=100"`
	PlaceOfSupply  *string                `json:"place_of_supply" binding:"omitempty,max=100"`
	TaxPreference  *string                `json:"tax_preference" binding:"omitempty,oneof=taxable tax_exempt"`
	Currency       *string                `json:"currency" binding:"omitempty,len=3"`
	PaymentTerms   *string                `json:"payment_terms" binding:"omitempty,max=100"`
	EnablePortal   *bool                  `json:"enable_portal"`
	PortalLanguage *string                `json:"portal_language" binding:"omitempty,max=50"`
	GSTIN          *string                `json:"gst_in" binding:"omitempty,max=15"`
	PANNumber      *string                `json:"pan_number" binding:"omitempty,max=10"`
	IsActive       *bool                  `json:"is_active"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID              `json:"id"`
	TenantID       uuid.UUID              `json:"tenant_id"`
	UserID         uuid.UUID              `json:"user_id"`
	CustomerName   string                 `json:"customer_name"`
	CompanyName    string                 `json:"company_name"`
	DisplayName    string                 `json:"display_name"`
	CustomerEmail  string                 `json:"customer_email"`
	WorkPhone      string                 `json:"work_phone"`
	Mobile         string                 `json:"mobile"`
	Website        string                 `json:"website"`
	BillingAddress partner.BillingAddress `json:"billing_address"`
	CustomerType   string                 `json:"customer_type"`
	GSTTreatment   string                 `json:"gst_treatment"`
	PlaceOfSupply  string                 `json:"place_of_supply"`
	TaxPreference  string                 `json:"tax_preference"`
	Currency       string                 `json:"currency"`
	PaymentTerms   string                 `json:"payment_terms"`
	EnablePortal   bool                   `json:"enable_portal"`
	PortalLanguage string                 `json:"portal_language"`
	GSTIN          string                 `json:"gst_in"`
	PANNumber      string                 `json:"pan_number"`
	IsActive       bool                   `json:"is_active"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

// CustomerListResponse represents a list item for customers
type CustomerListResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CompanyName   string    `json:"company_name"`
	CustomerEmail string    `json:"customer_email"`
	WorkPhone     string    `json:"work_phone"`
	City          string    `json:"city"`
	CustomerType  string    `json:"customer_type"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search       string `form:"search"`
	CustomerType string `form:"customer_type" binding:"omitempty,oneof=Business Individual"`
	IsActive     *bool  `form:"is_active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		TenantID:       c.TenantID,
		UserID:         c.UserID,
		CustomerName:   c.CustomerName,
		CompanyName:    c.CompanyName,
		DisplayName:    c.DisplayName(),
		CustomerEmail:  c.CustomerEmail,
		WorkPhone:      c.WorkPhone,
		Mobile:         c.Mobile,
		Website:        c.Website,
		BillingAddress: c.BillingAddress,
		CustomerType:   string(c.CustomerType),
		GSTTreatment:   c.GSTTreatment,
		PlaceOfSupply:  c.PlaceOfSupply,
		TaxPreference:  string(c.TaxPreference),
		Currency:       c.Currency,
		PaymentTerms:   c.PaymentTerms,
		EnablePortal:   c.EnablePortal,
		PortalLanguage: c.PortalLanguage,
		GSTIN:          c.GSTIN,
		PANNumber:      c.PANNumber,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}

// ToCustomerListResponse converts a domain Customer to CustomerListResponse
func ToCustomerListResponse(c *partner.Customer) CustomerListResponse {
	return CustomerListResponse{
		ID:            c.ID,
		CustomerName:  c.CustomerName,
		CompanyName:   c.CompanyName,
		CustomerEmail: c.CustomerEmail,
		WorkPhone:     c.WorkPhone,
		City:          c.BillingAddress.City,
		CustomerType:  string(c.CustomerType),
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
	}
}

// ToCustomerListResponses converts a slice of domain Customers to CustomerListResponses
func ToCustomerListResponses(customers []partner.Customer) []CustomerListResponse {
	responses := make([]CustomerListResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerListResponse(&customers[i])
	}
	return responses
}
