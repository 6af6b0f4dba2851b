package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/settings"
)

// ProfileRequest is the profile block of a settings request
type ProfileRequest struct {
	Name  string `json:"name" binding:"max=200"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
}

// BusinessRequest is the business block of a settings request
type BusinessRequest struct {
	BusinessName string `json:"business_name" binding:"max=200"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Phone        string `json:"phone" binding:"max=30"`
	GST          string `json:"gst" binding:"omitempty,len=15"`
	Address      string `json:"address" binding:"max=500"`
}

// InvoiceSettingsRequest is the numbering block of a settings request
type InvoiceSettingsRequest struct {
	Prefix     string `json:"prefix" binding:"max=20"`
	NextNumber int64  `json:"next_number" binding:"omitempty,min=1"`
}

// SaveSettingsRequest upserts settings. Nil blocks keep their stored value.
type SaveSettingsRequest struct {
	Profile         *ProfileRequest         `json:"profile"`
	Business        *BusinessRequest        `json:"business"`
	InvoiceSettings *InvoiceSettingsRequest `json:"invoice_settings"`
}

// SettingsResponse represents the settings record in API responses
type SettingsResponse struct {
	ID              uuid.UUID                `json:"id"`
	TenantID        uuid.UUID                `json:"tenant_id"`
	UserID          uuid.UUID                `json:"user_id"`
	Profile         settings.Profile         `json:"profile"`
	Business        settings.Business        `json:"business"`
	InvoiceSettings settings.InvoiceSettings `json:"invoice_settings"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ToSettingsResponse converts domain settings to SettingsResponse
func ToSettingsResponse(s *settings.UserSettings) SettingsResponse {
	return SettingsResponse{
		ID:              s.ID,
		TenantID:        s.TenantID,
		UserID:          s.UserID,
		Profile:         s.Profile,
		Business:        s.Business,
		InvoiceSettings: s.InvoiceSettings,
		UpdatedAt:       s.UpdatedAt,
	}
}
