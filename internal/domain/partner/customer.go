package partner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeBusiness   CustomerType = "Business"
	CustomerTypeIndividual CustomerType = "Individual"
)

// IsValid checks if the customer type is valid
func (t CustomerType) IsValid() bool {
	return t == CustomerTypeBusiness || t == CustomerTypeIndividual
}

// TaxPreference indicates whether invoices to the customer carry tax
type TaxPreference string

const (
	TaxPreferenceTaxable   TaxPreference = "taxable"
	TaxPreferenceTaxExempt TaxPreference = "tax_exempt"
)

// IsValid checks if the tax preference is valid
func (t TaxPreference) IsValid() bool {
	return t == TaxPreferenceTaxable || t == TaxPreferenceTaxExempt
}

const (
	DefaultCountry        = "India"
	DefaultCurrency       = "INR"
	DefaultPortalLanguage = "English"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z0-9]{13}$`)
	panRegex   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// BillingAddress is the postal address printed on invoices
type BillingAddress struct {
	Attention string `json:"attention,omitempty"`
	Street1   string `json:"street1,omitempty"`
	Street2   string `json:"street2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	PinCode   string `json:"pin_code,omitempty"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
	Fax       string `json:"fax,omitempty"`
}

// Line returns a single-line rendering of the address
func (a BillingAddress) Line() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Street1, a.Street2, a.City, a.State, a.PinCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Customer represents a billed party of a tenant
type Customer struct {
	shared.TenantAggregateRoot
	CustomerName   string
	CompanyName    string
	CustomerEmail  string
	WorkPhone      string
	Mobile         string
	Website        string
	BillingAddress BillingAddress
	CustomerType   CustomerType
	GSTTreatment   string
	PlaceOfSupply  string
	TaxPreference  TaxPreference
	Currency       string
	PaymentTerms   string
	EnablePortal   bool
	PortalLanguage string
	GSTIN          string
	PANNumber      string
	IsActive       bool
}

// NewCustomer creates a new active customer with defaults applied
func NewCustomer(tenantID, userID uuid.UUID, customerName, workPhone string, customerType CustomerType) (*Customer, error) {
	if err := validateCustomerName(customerName); err != nil {
		return nil, err
	}
	if err := validatePhone(workPhone, true); err != nil {
		return nil, err
	}
	if customerType == "" {
		customerType = CustomerTypeBusiness
	}
	if !customerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be Business or Individual")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, userID),
		CustomerName:        strings.TrimSpace(customerName),
		WorkPhone:           strings.TrimSpace(workPhone),
		BillingAddress:      BillingAddress{Country: DefaultCountry},
		CustomerType:        customerType,
		TaxPreference:       TaxPreferenceTaxable,
		Currency:            DefaultCurrency,
		PortalLanguage:      DefaultPortalLanguage,
		IsActive:            true,
	}, nil
}

// DisplayName returns the company name when set, otherwise the contact name
func (c *Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.CustomerName
}

// Rename changes the customer and company names
func (c *Customer) Rename(customerName, companyName string) error {
	if err := validateCustomerName(customerName); err != nil {
		return err
	}
	if len(companyName) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	c.CustomerName = strings.TrimSpace(customerName)
	c.CompanyName = strings.TrimSpace(companyName)
	c.touch()
	return nil
}

// SetContact sets email, phones and website
func (c *Customer) SetContact(email, workPhone, mobile, website string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if err := validatePhone(workPhone, true); err != nil {
		return err
	}
	if err := validatePhone(mobile, false); err != nil {
		return err
	}
	if len(website) > 200 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 200 characters")
	}
	c.CustomerEmail = email
	c.WorkPhone = strings.TrimSpace(workPhone)
	c.Mobile = strings.TrimSpace(mobile)
	c.Website = strings.TrimSpace(website)
	c.touch()
	return nil
}

// SetBillingAddress replaces the billing address
func (c *Customer) SetBillingAddress(addr BillingAddress) error {
	if strings.TrimSpace(addr.Country) == "" {
		addr.Country = DefaultCountry
	}
	if len(addr.PinCode) > 10 {
		return shared.NewDomainError("INVALID_PIN_CODE", "PIN code cannot exceed 10 characters")
	}
	c.BillingAddress = addr
	c.touch()
	return nil
}

// SetCustomerType changes between Business and Individual
func (c *Customer) SetCustomerType(t CustomerType) error {
	if !t.IsValid() {
		return shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be Business or Individual")
	}
	c.CustomerType = t
	c.touch()
	return nil
}

// SetTaxDetails sets GST registration and tax handling fields
func (c *Customer) SetTaxDetails(gstTreatment, placeOfSupply string, pref TaxPreference, gstin, pan string) error {
	if pref == "" {
		pref = TaxPreferenceTaxable
	}
	if !pref.IsValid() {
		return shared.NewDomainError("INVALID_TAX_PREFERENCE", "Tax preference must be taxable or tax_exempt")
	}
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if gstin != "" && !gstinRegex.MatchString(gstin) {
		return shared.NewDomainError("INVALID_GSTIN", "GSTIN must be 15 characters starting with a state code")
	}
	pan = strings.ToUpper(strings.TrimSpace(pan))
	if pan != "" && !panRegex.MatchString(pan) {
		return shared.NewDomainError("INVALID_PAN", "Invalid PAN format")
	}
	c.GSTTreatment = strings.TrimSpace(gstTreatment)
	c.PlaceOfSupply = strings.TrimSpace(placeOfSupply)
	c.TaxPreference = pref
	c.GSTIN = gstin
	c.PANNumber = pan
	c.touch()
	return nil
}

// SetBillingPreferences sets currency, payment terms and portal options
func (c *Customer) SetBillingPreferences(currency, paymentTerms string, enablePortal bool, portalLanguage string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	if portalLanguage == "" {
		portalLanguage = DefaultPortalLanguage
	}
	c.Currency = currency
	c.PaymentTerms = strings.TrimSpace(paymentTerms)
	c.EnablePortal = enablePortal
	c.PortalLanguage = portalLanguage
	c.touch()
	return nil
}

// SetActive enables or disables the customer
func (c *Customer) SetActive(active bool) {
	c.IsActive = active
	c.touch()
}

func (c *Customer) touch() {
	c.Touch()
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string, required bool) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		if required {
			return shared.NewDomainError("INVALID_PHONE", "Work phone is required")
		}
		return nil
	}
	if len(phone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 30 characters")
	}
	return nil
}
