package models

import (
	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/settings"
)

// UserSettingsModel is the persistence model for the user_settings table.
// tenant_id is unique: one settings row per tenant.
type UserSettingsModel struct {
	AggregateModel
	TenantID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	UserID            uuid.UUID `gorm:"type:uuid;not null"`
	ProfileName       string    `gorm:"type:varchar(200)"`
	ProfileEmail      string    `gorm:"type:varchar(200)"`
	BusinessName      string    `gorm:"type:varchar(200)"`
	BusinessEmail     string    `gorm:"type:varchar(200)"`
	BusinessPhone     string    `gorm:"type:varchar(30)"`
	BusinessGST       string    `gorm:"column:business_gst;type:varchar(15)"`
	BusinessAddress   string    `gorm:"type:text"`
	InvoicePrefix     string    `gorm:"type:varchar(20);not null;default:'INV-'"`
	InvoiceNextNumber int64     `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (UserSettingsModel) TableName() string {
	return "user_settings"
}

// ToDomain converts the persistence model to domain UserSettings
func (m *UserSettingsModel) ToDomain() *settings.UserSettings {
	s := &settings.UserSettings{
		Profile: settings.Profile{
			Name:  m.ProfileName,
			Email: m.ProfileEmail,
		},
		Business: settings.Business{
			BusinessName: m.BusinessName,
			Email:        m.BusinessEmail,
			Phone:        m.BusinessPhone,
			GST:          m.BusinessGST,
			Address:      m.BusinessAddress,
		},
		InvoiceSettings: settings.InvoiceSettings{
			Prefix:     m.InvoicePrefix,
			NextNumber: m.InvoiceNextNumber,
		},
	}
	s.BaseAggregateRoot = m.AggregateRoot()
	s.TenantID = m.TenantID
	s.UserID = m.UserID
	return s
}

// UserSettingsModelFromDomain converts domain UserSettings to its persistence model
func UserSettingsModelFromDomain(s *settings.UserSettings) *UserSettingsModel {
	m := &UserSettingsModel{
		TenantID:          s.TenantID,
		UserID:            s.UserID,
		ProfileName:       s.Profile.Name,
		ProfileEmail:      s.Profile.Email,
		BusinessName:      s.Business.BusinessName,
		BusinessEmail:     s.Business.Email,
		BusinessPhone:     s.Business.Phone,
		BusinessGST:       s.Business.GST,
		BusinessAddress:   s.Business.Address,
		InvoicePrefix:     s.InvoiceSettings.Prefix,
		InvoiceNextNumber: s.InvoiceSettings.NextNumber,
	}
	m.FromAggregateRoot(s.BaseAggregateRoot)
	return m
}
