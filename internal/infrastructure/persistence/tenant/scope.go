// Package tenant scopes GORM statements to a single tenant.
//
// Every tenant-owned table carries a tenant_id column. Repositories build
// their statements through TenantDB so a query, update or delete can never
// run without that column in its WHERE clause:
//
//	db := tenant.NewTenantDB(gormDB)
//	db.ForTenant(ctx, tenantID).Where("id = ?", id).First(&model)
package tenant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Column is the tenant discriminator present on every tenant-owned table
const Column = "tenant_id"

// ErrTenantIDRequired is attached to statements built without a tenant.
// It matches shared.ErrNotAuthenticated.
var ErrTenantIDRequired = fmt.Errorf("tenant id is required: %w", shared.ErrNotAuthenticated)

// Filter adds the tenant condition to db immediately, so it precedes any
// condition chained afterwards. A nil tenant poisons the statement instead.
func Filter(db *gorm.DB, tenantID uuid.UUID) *gorm.DB {
	if tenantID == uuid.Nil {
		_ = db.AddError(ErrTenantIDRequired)
		return db
	}
	return db.Where(Column+" = ?", tenantID)
}

// Scope is Filter as a GORM scope, for use with db.Scopes
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Filter(db, tenantID)
	}
}

// TenantDB hands out tenant-filtered sessions of one connection pool
type TenantDB struct {
	db *gorm.DB
}

// NewTenantDB wraps db
func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db}
}

// ForTenant returns a fresh session bound to ctx and filtered to tenantID
func (t *TenantDB) ForTenant(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return Filter(t.db.WithContext(ctx), tenantID)
}

// Transaction runs fn in a transaction; fn filters its statements with Filter
func (t *TenantDB) Transaction(ctx context.Context, tenantID uuid.UUID, fn func(tx *gorm.DB) error) error {
	if tenantID == uuid.Nil {
		return ErrTenantIDRequired
	}
	return t.db.WithContext(ctx).Transaction(fn)
}

// Unscoped returns the underlying DB for tables that are not tenant-owned
func (t *TenantDB) Unscoped() *gorm.DB {
	return t.db
}
