package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/shared"
)

// MetadataTenantID is the session metadata key that carries an explicit tenant
const MetadataTenantID = "tenant_id"

// Principal is an authenticated caller known locally, for example from a
// validated access token. TenantID is optional; when empty the principal id
// doubles as the tenant id.
type Principal struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Email    string
}

// Session is a server-side session held by the identity provider
type Session struct {
	ID          string
	PrincipalID uuid.UUID
	Email       string
	Metadata    map[string]string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsExpired reports whether the session has passed its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// PrincipalSource returns the locally known principal, if any
type PrincipalSource interface {
	CurrentPrincipal(ctx context.Context) (*Principal, bool)
}

// SessionSource returns the active session, or nil when there is none
type SessionSource interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

// Scope is the resolved tenant together with the acting principal.
// Reads filter by TenantID; creates stamp both TenantID and UserID.
type Scope struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// IsZero reports whether the scope is unresolved
func (s Scope) IsZero() bool {
	return s.TenantID == uuid.Nil
}

// TenantResolver derives the active tenant from explicitly injected sources.
// The local principal wins; the session is consulted only when no principal
// is present. With neither, resolution fails with ErrNotAuthenticated and
// callers must not issue any query.
type TenantResolver struct {
	principals PrincipalSource
	sessions   SessionSource
	now        func() time.Time
}

// NewTenantResolver creates a TenantResolver. Either source may be nil.
func NewTenantResolver(principals PrincipalSource, sessions SessionSource) *TenantResolver {
	return &TenantResolver{
		principals: principals,
		sessions:   sessions,
		now:        time.Now,
	}
}

// Resolve returns the tenant id for the current caller
func (r *TenantResolver) Resolve(ctx context.Context) (uuid.UUID, error) {
	scope, err := r.ResolveScope(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return scope.TenantID, nil
}

// ResolveScope returns the tenant id and acting principal for the current caller
func (r *TenantResolver) ResolveScope(ctx context.Context) (Scope, error) {
	if r.principals != nil {
		if p, ok := r.principals.CurrentPrincipal(ctx); ok && p != nil && p.ID != uuid.Nil {
			tenantID := p.TenantID
			if tenantID == uuid.Nil {
				tenantID = p.ID
			}
			return Scope{TenantID: tenantID, UserID: p.ID}, nil
		}
	}

	if r.sessions != nil {
		session, err := r.sessions.CurrentSession(ctx)
		if err != nil {
			return Scope{}, err
		}
		if session != nil && session.PrincipalID != uuid.Nil && !session.IsExpired(r.now()) {
			tenantID := session.PrincipalID
			if raw, ok := session.Metadata[MetadataTenantID]; ok && raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					return Scope{}, shared.NewDomainError("INVALID_SESSION", "Session tenant is malformed")
				}
				tenantID = parsed
			}
			return Scope{TenantID: tenantID, UserID: session.PrincipalID}, nil
		}
	}

	return Scope{}, shared.ErrNotAuthenticated
}
