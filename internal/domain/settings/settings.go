// Package settings holds the per-tenant profile, business and invoice
// numbering preferences.
package settings

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
)

const DefaultInvoicePrefix = "INV-"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Profile is the account holder shown in the UI
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Business is the issuer block printed on invoice documents
type Business struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	GST          string `json:"gst"`
	Address      string `json:"address"`
}

// InvoiceSettings controls invoice numbering
type InvoiceSettings struct {
	Prefix     string `json:"prefix"`
	NextNumber int64  `json:"next_number"`
}

// UserSettings is the single settings record of a tenant
type UserSettings struct {
	shared.TenantAggregateRoot
	Profile         Profile
	Business        Business
	InvoiceSettings InvoiceSettings
}

// NewUserSettings creates settings with numbering defaults
func NewUserSettings(tenantID, userID uuid.UUID) *UserSettings {
	return &UserSettings{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, userID),
		InvoiceSettings: InvoiceSettings{
			Prefix:     DefaultInvoicePrefix,
			NextNumber: 1,
		},
	}
}

// SetProfile replaces the profile block
func (s *UserSettings) SetProfile(p Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Email != "" && !emailRegex.MatchString(p.Email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid profile email")
	}
	p.Name = strings.TrimSpace(p.Name)
	s.Profile = p
	s.touch()
	return nil
}

// SetBusiness replaces the business block
func (s *UserSettings) SetBusiness(b Business) error {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	if b.Email != "" && !emailRegex.MatchString(b.Email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid business email")
	}
	if len(b.BusinessName) > 200 {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 200 characters")
	}
	b.BusinessName = strings.TrimSpace(b.BusinessName)
	b.GST = strings.ToUpper(strings.TrimSpace(b.GST))
	s.Business = b
	s.touch()
	return nil
}

// SetInvoiceSettings replaces the numbering block
func (s *UserSettings) SetInvoiceSettings(inv InvoiceSettings) error {
	inv.Prefix = strings.TrimSpace(inv.Prefix)
	if inv.Prefix == "" {
		inv.Prefix = DefaultInvoicePrefix
	}
	if len(inv.Prefix) > 20 {
		return shared.NewDomainError("INVALID_PREFIX", "Invoice prefix cannot exceed 20 characters")
	}
	if inv.NextNumber < 1 {
		return shared.NewDomainError("INVALID_NEXT_NUMBER", "Next invoice number must be at least 1")
	}
	s.InvoiceSettings = inv
	s.touch()
	return nil
}

// InvoicePrefix returns the configured prefix, or the default
func (s *UserSettings) InvoicePrefix() string {
	if s == nil || s.InvoiceSettings.Prefix == "" {
		return DefaultInvoicePrefix
	}
	return s.InvoiceSettings.Prefix
}

func (s *UserSettings) touch() {
	s.Touch()
}
