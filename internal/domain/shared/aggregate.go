package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and audit timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseAggregateRoot is embedded by every aggregate.
// Version is informational; updates are last-write-wins.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// NewBaseAggregateRoot stamps a fresh id and creation time
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

// Touch records a mutation
func (a *BaseAggregateRoot) Touch() {
	a.UpdatedAt = time.Now()
	a.Version++
}

// TenantAggregateRoot is an aggregate owned by one tenant.
// TenantID scopes every read and write; UserID is the principal that created the row.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// NewTenantAggregateRoot creates a tenant-owned aggregate root stamped with its creator
func NewTenantAggregateRoot(tenantID, userID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
		UserID:            userID,
	}
}

// BelongsTo reports whether the aggregate is owned by the given tenant
func (t *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool {
	return t.TenantID == tenantID
}
