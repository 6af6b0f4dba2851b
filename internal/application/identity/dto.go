package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/infrastructure/auth"
)

// LoginInput is a password sign-in; IP is recorded on success
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// LoginResult is the issued token pair plus the session it is bound to
type LoginResult struct {
	auth.TokenPair
	SessionID string
	User      UserInfo
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Email       string
	DisplayName string
	LastLoginAt *time.Time
}

// RefreshTokenInput carries the refresh token being exchanged
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput contains the input for user logout.
// TokenJTI and TokenTTL come from the access token being revoked.
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	TokenTTL  time.Duration
	SessionID string
}

// CurrentUserResult is the caller together with the tenant it resolved to
type CurrentUserResult struct {
	User     UserInfo
	TenantID uuid.UUID
}

// RegisterInput creates a login account. A nil TenantID makes the user its own tenant.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	TenantID *uuid.UUID
}
