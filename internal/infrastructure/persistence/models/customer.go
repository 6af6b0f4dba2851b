package models

import (
	"github.com/invoicer/backend/internal/domain/partner"
)

// BillingAddressColumns maps partner.BillingAddress to billing_* columns
type BillingAddressColumns struct {
	Attention string `gorm:"type:varchar(200)"`
	Street1   string `gorm:"type:varchar(200)"`
	Street2   string `gorm:"type:varchar(200)"`
	City      string `gorm:"type:varchar(100)"`
	State     string `gorm:"type:varchar(100)"`
	PinCode   string `gorm:"type:varchar(10)"`
	Country   string `gorm:"type:varchar(100);not null;default:'India'"`
	Phone     string `gorm:"type:varchar(30)"`
	Fax       string `gorm:"type:varchar(30)"`
}

// CustomerModel is the persistence model for the customers table
type CustomerModel struct {
	TenantModel
	CustomerName   string                `gorm:"type:varchar(200);not null"`
	CompanyName    string                `gorm:"type:varchar(200)"`
	CustomerEmail  string                `gorm:"type:varchar(200)"`
	WorkPhone      string                `gorm:"type:varchar(30);not null"`
	Mobile         string                `gorm:"type:varchar(30)"`
	Website        string                `gorm:"type:varchar(200)"`
	BillingAddress BillingAddressColumns `gorm:"embedded;embeddedPrefix:billing_"`
	CustomerType   string                `gorm:"type:varchar(20);not null;default:'Business'"`
	GSTTreatment   string                `gorm:"column:gst_treatment;type:varchar(100)"`
	PlaceOfSupply  string                `gorm:"type:varchar(100)"`
	TaxPreference  string                `gorm:"type:varchar(20);not null;default:'taxable'"`
	Currency       string                `gorm:"type:varchar(3);not null;default:'INR'"`
	PaymentTerms   string                `gorm:"type:varchar(100)"`
	EnablePortal   bool                  `gorm:"not null;default:false"`
	PortalLanguage string                `gorm:"type:varchar(50)"`
	GSTIN          string                `gorm:"column:gst_in;type:varchar(15)"`
	PANNumber      string                `gorm:"column:pan_number;type:varchar(10)"`
	IsActive       bool                  `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		CustomerName:        m.CustomerName,
		CompanyName:         m.CompanyName,
		CustomerEmail:       m.CustomerEmail,
		WorkPhone:           m.WorkPhone,
		Mobile:              m.Mobile,
		Website:             m.Website,
		BillingAddress: partner.BillingAddress{
			Attention: m.BillingAddress.Attention,
			Street1:   m.BillingAddress.Street1,
			Street2:   m.BillingAddress.Street2,
			City:      m.BillingAddress.City,
			State:     m.BillingAddress.State,
			PinCode:   m.BillingAddress.PinCode,
			Country:   m.BillingAddress.Country,
			Phone:     m.BillingAddress.Phone,
			Fax:       m.BillingAddress.Fax,
		},
		CustomerType:   partner.CustomerType(m.CustomerType),
		GSTTreatment:   m.GSTTreatment,
		PlaceOfSupply:  m.PlaceOfSupply,
		TaxPreference:  partner.TaxPreference(m.TaxPreference),
		Currency:       m.Currency,
		PaymentTerms:   m.PaymentTerms,
		EnablePortal:   m.EnablePortal,
		PortalLanguage: m.PortalLanguage,
		GSTIN:          m.GSTIN,
		PANNumber:      m.PANNumber,
		IsActive:       m.IsActive,
	}
}

// CustomerModelFromDomain converts a domain Customer to its persistence model
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		CustomerName:  c.CustomerName,
		CompanyName:   c.CompanyName,
		CustomerEmail: c.CustomerEmail,
		WorkPhone:     c.WorkPhone,
		Mobile:        c.Mobile,
		Website:       c.Website,
		BillingAddress: BillingAddressColumns{
			Attention: c.BillingAddress.Attention,
			Street1:   c.BillingAddress.Street1,
			Street2:   c.BillingAddress.Street2,
			City:      c.BillingAddress.City,
			State:     c.BillingAddress.State,
			PinCode:   c.BillingAddress.PinCode,
			Country:   c.BillingAddress.Country,
			Phone:     c.BillingAddress.Phone,
			Fax:       c.BillingAddress.Fax,
		},
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
	}
	m.FromTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
