package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
)

// CustomerRepository defines the data store operations for customers
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Search does a case-insensitive substring match on customer and company names
	Search(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]Customer, error)

	Save(ctx context.Context, customer *Customer) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
