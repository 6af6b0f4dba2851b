package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/invoicer/backend/internal/domain/shared"
	"github.com/invoicer/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository stores users; it is the one repository not scoped by tenant
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	err := r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.WrapDomainError("ALREADY_EXISTS", "Email is already registered", err)
	}
	return err
}

// Update writes every column, zero values included
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Select("*").
		Updates(models.UserModelFromDomain(user))
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail matches the normalized address; blank input is never found
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, shared.ErrNotFound
	}
	return r.first(r.byEmail(ctx, email))
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.byEmail(ctx, identity.NormalizeEmail(email)).Model(&models.UserModel{}).Count(&n).Error
	return n > 0, err
}

func (r *GormUserRepository) byEmail(ctx context.Context, normalized string) *gorm.DB {
	return r.db.WithContext(ctx).Where("LOWER(email) = ?", normalized)
}

func (r *GormUserRepository) first(query *gorm.DB) (*identity.User, error) {
	var m models.UserModel
	err := query.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
