package auth

import (
	"context"
	"errors"

	"github.com/invoicer/backend/internal/domain/identity"
)

type contextKey string

const (
	claimsKey    contextKey = "auth_claims"
	sessionIDKey contextKey = "auth_session_id"
)

// WithClaims stores validated access token claims in the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the access token claims, if any
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// WithSessionID stores the caller's session id in the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFromContext returns the caller's session id, or ""
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// ContextPrincipalSource reads the principal from validated token claims
type ContextPrincipalSource struct{}

// CurrentPrincipal implements identity.PrincipalSource
func (ContextPrincipalSource) CurrentPrincipal(ctx context.Context) (*identity.Principal, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, false
	}
	p, err := claims.Principal()
	if err != nil {
		return nil, false
	}
	return p, true
}

// StoreSessionSource looks up the session named in the context
type StoreSessionSource struct {
	Store SessionStore
}

// CurrentSession implements identity.SessionSource.
// An unknown or missing session is reported as no session, not an error.
func (s StoreSessionSource) CurrentSession(ctx context.Context) (*identity.Session, error) {
	id := SessionIDFromContext(ctx)
	if id == "" || s.Store == nil {
		return nil, nil
	}
	session, err := s.Store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// NewTenantResolver wires the token principal and session store into an identity.TenantResolver
func NewTenantResolver(sessions SessionStore) *identity.TenantResolver {
	return identity.NewTenantResolver(ContextPrincipalSource{}, StoreSessionSource{Store: sessions})
}

var (
	_ identity.PrincipalSource = ContextPrincipalSource{}
	_ identity.SessionSource   = StoreSessionSource{}
)
