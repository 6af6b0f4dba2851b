package settings

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores one settings record per tenant
type Repository interface {
	// FindForTenant returns shared.ErrNotFound when no settings were saved yet
	FindForTenant(ctx context.Context, tenantID uuid.UUID) (*UserSettings, error)
	// Save inserts on first save and updates afterwards
	Save(ctx context.Context, s *UserSettings) error
}
