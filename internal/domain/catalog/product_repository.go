package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
)

// ProductRepository defines the data store operations for products
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Search does a case-insensitive substring match on name and description
	Search(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]Product, error)

	Save(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsBySKU checks SKU uniqueness across all tenants
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
