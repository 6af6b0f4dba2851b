package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/settings"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/persistence/models"
	"github.com/invoicer/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db      *gorm.DB
	tenants *tenant.TenantDB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db, tenants: tenant.NewTenantDB(db)}
}

// FindForTenant loads the settings row of a tenant
func (r *GormSettingsRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*settings.UserSettings, error) {
	var model models.UserSettingsModel
	if err := r.tenants.ForTenant(ctx, tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts on tenant_id; the original row id is kept on conflict
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.UserSettings) error {
	model := models.UserSettingsModelFromDomain(s)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"updated_at",
				"version",
				"profile_name",
				"profile_email",
				"business_name",
				"business_email",
				"business_phone",
				"business_gst",
				"business_address",
				"invoice_prefix",
				"invoice_next_number",
			}),
		}).
		Create(model).Error
}

// Ensure GormSettingsRepository implements settings.Repository
var _ settings.Repository = (*GormSettingsRepository)(nil)
