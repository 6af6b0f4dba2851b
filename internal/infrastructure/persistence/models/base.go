package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the informational version counter
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromAggregateRoot populates AggregateModel from a domain aggregate root
func (m *AggregateModel) FromAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

// AggregateRoot rebuilds the domain aggregate root fields
func (m *AggregateModel) AggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version: m.Version,
	}
}

// TenantModel adds the tenant scope and creating principal
type TenantModel struct {
	AggregateModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID `gorm:"type:uuid;not null"`
}

// FromTenantAggregateRoot populates TenantModel from a domain aggregate root
func (m *TenantModel) FromTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromAggregateRoot(t.BaseAggregateRoot)
	m.TenantID = t.TenantID
	m.UserID = t.UserID
}

// TenantAggregateRoot rebuilds the domain tenant aggregate root fields
func (m *TenantModel) TenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.AggregateRoot(),
		TenantID:          m.TenantID,
		UserID:            m.UserID,
	}
}
